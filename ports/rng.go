package ports

import (
	"context"
	"math/rand"
)

// RNGPort hands out the random streams consumed by resampling and
// simulation. Concurrent consumers each take their own stream.
type RNGPort interface {
	// SeededStream creates a deterministic generator for a named operation.
	// The same name and seed always produce the same stream; different names
	// under one seed produce independent streams.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// FreshStream creates a generator with unpredictable state for
	// interactive use
	FreshStream(ctx context.Context, name string) (*rand.Rand, error)

	// ValidateSeed checks that the first draws of a seeded stream match
	// expected
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
