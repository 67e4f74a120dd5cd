package bootstrap

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJackknife_Mean(t *testing.T) {
	jack, err := Jackknife(context.Background(), []float64{1, 2, 3}, mean)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 2, 1.5}, jack, 1e-12)

	_, err = Jackknife(context.Background(), []float64{1}, mean)
	assert.Error(t, err)
}

func TestAcceleration(t *testing.T) {
	assert.InDelta(t, 0, Acceleration([]float64{2.5, 2, 1.5}), 1e-12, "symmetric jackknife")
	assert.Zero(t, Acceleration([]float64{3, 3, 3}))
	assert.Greater(t, math.Abs(Acceleration([]float64{1, 1, 1, 10})), 0.0)
}

func TestBiasCorrection(t *testing.T) {
	z0, err := BiasCorrection([]float64{1, 2, 3, 4}, 2.5)
	require.NoError(t, err)
	assert.InDelta(t, 0, z0, 1e-12)

	// every replicate equals the original: the proportion is clamped, not 0
	z0, err = BiasCorrection([]float64{5, 5, 5, 5}, 5)
	require.NoError(t, err)
	assert.False(t, math.IsInf(z0, 0))
	assert.Less(t, z0, 0.0)
}

func TestAdjust_NoCorrectionIsIdentity(t *testing.T) {
	p, err := adjust(BCaParams{}, -1.959964)
	require.NoError(t, err)
	assert.InDelta(t, 0.025, p, 1e-6)

	p, err = adjust(BCaParams{Acceleration: 10}, 1.96)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}
