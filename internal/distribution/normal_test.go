package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
)

func TestInvNormalCDF_Median(t *testing.T) {
	z, err := InvNormalCDF(0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)
}

func TestInvNormalCDF_MatchesReference(t *testing.T) {
	for _, p := range []float64{1e-6, 0.001, 0.025, 0.05, 0.08, 0.2, 0.5, 0.7, 0.92, 0.975, 0.999, 1 - 1e-6} {
		got, err := InvNormalCDF(p)
		require.NoError(t, err)
		assert.InDelta(t, distuv.UnitNormal.Quantile(p), got, 1e-6, "p=%v", p)
	}
}

func TestInvNormalCDF_StrictlyIncreasing(t *testing.T) {
	prev := math.Inf(-1)
	for i := 1; i < 1000; i++ {
		p := float64(i) / 1000
		z, err := InvNormalCDF(p)
		require.NoError(t, err)
		require.Greater(t, z, prev, "not increasing at p=%v", p)
		prev = z
	}
}

func TestInvNormalCDF_OutOfDomain(t *testing.T) {
	for _, p := range []float64{0, 1, -0.1, 1.2, math.NaN()} {
		_, err := InvNormalCDF(p)
		assert.ErrorIs(t, err, core.ErrInvalidParameter, "p=%v", p)
	}
}

func TestNormalCDF_Symmetry(t *testing.T) {
	for z := -4.0; z <= 4.0; z += 0.25 {
		lo, err := NormalCDF(-z)
		require.NoError(t, err)
		hi, err := NormalCDF(z)
		require.NoError(t, err)
		assert.InDelta(t, 1-hi, lo, 1e-7, "z=%v", z)
		assert.InDelta(t, distuv.UnitNormal.CDF(z), hi, 2e-7, "z=%v", z)
	}
}

func TestNormalCDF_Infinities(t *testing.T) {
	p, err := NormalCDF(math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	p, err = NormalCDF(math.Inf(-1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	_, err = NormalCDF(math.NaN())
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestNormalRoundTrip(t *testing.T) {
	for z := -3.0; z <= 3.0; z += 0.1 {
		p, err := NormalCDF(z)
		require.NoError(t, err)
		back, err := InvNormalCDF(p)
		require.NoError(t, err)
		assert.InDelta(t, z, back, 1e-4, "z=%v", z)
	}
}

func TestNormalCritical(t *testing.T) {
	z, err := NormalCritical(0.95)
	require.NoError(t, err)
	assert.InDelta(t, 1.959964, z, 1e-5)

	z, err = NormalCritical(1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(z, 1))

	_, err = NormalCritical(0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestNormalTwoSidedP(t *testing.T) {
	p, err := NormalTwoSidedP(1.959964)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, p, 1e-5)

	p, err = NormalTwoSidedP(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-7)
}
