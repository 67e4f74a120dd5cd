package rng

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"statlab/domain/core"
	"statlab/ports"
)

// Adapter implements ports.RNGPort over math/rand
type Adapter struct {
	fresh atomic.Int64
}

var _ ports.RNGPort = (*Adapter)(nil)

// NewAdapter creates an RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream derives a per-name seed from seed so named streams of one run
// do not overlap
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(core.DeriveSeed(seed, name))), nil
}

// FreshStream seeds from the clock plus a counter, so streams requested in
// the same instant still differ
func (a *Adapter) FreshStream(ctx context.Context, name string) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := time.Now().UnixNano() + a.fresh.Add(1)
	return rand.New(rand.NewSource(core.DeriveSeed(base, name))), nil
}

// ValidateSeed replays the first len(expected) Float64 draws of the named
// stream and reports the first mismatch
func (a *Adapter) ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error {
	r, err := a.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		if got := r.Float64(); got != want {
			return fmt.Errorf("stream %q seed %d: draw %d is %v, expected %v", name, seed, i, got, want)
		}
	}
	return nil
}
