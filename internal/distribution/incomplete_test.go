package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
)

func TestChiSquareCDF_KnownValues(t *testing.T) {
	p, err := ChiSquareCDF(3.841459, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, p, 1e-6)

	p, err = ChiSquareCDF(0, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	s, err := ChiSquareSurvival(18.307, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, s, 1e-4)
}

func TestChiSquareCDF_MatchesReference(t *testing.T) {
	for _, df := range []float64{1, 2, 5, 20, 100, 200} {
		ref := distuv.ChiSquared{K: df}
		for _, x := range []float64{0.5, df / 2, df, 2 * df} {
			got, err := ChiSquareCDF(x, df)
			require.NoError(t, err)
			assert.InDelta(t, ref.CDF(x), got, 1e-9, "df=%v x=%v", df, x)
		}
	}
}

func TestGammaCDF_MatchesReference(t *testing.T) {
	// distuv.Gamma is parameterized by rate
	ref := distuv.Gamma{Alpha: 2.5, Beta: 1 / 1.5}
	for _, x := range []float64{0.1, 1, 3.7, 10} {
		got, err := GammaCDF(x, 2.5, 1.5)
		require.NoError(t, err)
		assert.InDelta(t, ref.CDF(x), got, 1e-9)
	}
}

func TestBetaCDF_MatchesReference(t *testing.T) {
	ref := distuv.Beta{Alpha: 2, Beta: 5}
	for _, x := range []float64{0, 0.1, 0.3, 0.9, 1} {
		got, err := BetaCDF(x, 2, 5)
		require.NoError(t, err)
		assert.InDelta(t, ref.CDF(x), got, 1e-9)
	}
}

func TestIncomplete_OutOfDomain(t *testing.T) {
	_, err := ChiSquareCDF(1, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = ChiSquareCDF(-1, 3)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = GammaCDF(1, 1, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = BetaCDF(1.2, 1, 1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = BetaCDF(0.5, 0, 1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
