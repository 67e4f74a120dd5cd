package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
)

func TestInvStudentT_CornishFisherAccuracy(t *testing.T) {
	cases := []struct {
		df     float64
		relTol float64
	}{
		{3, 0.02},
		{5, 0.005},
		{10, 0.001},
		{30, 1e-4},
		{200, 1e-5},
	}
	for _, tc := range cases {
		ref := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: tc.df}
		for _, p := range []float64{0.9, 0.95, 0.975, 0.995} {
			got, err := InvStudentT(p, tc.df)
			require.NoError(t, err)
			want := ref.Quantile(p)
			assert.InEpsilon(t, want, got, tc.relTol, "df=%v p=%v", tc.df, p)

			lower, err := InvStudentT(1-p, tc.df)
			require.NoError(t, err)
			assert.InDelta(t, -got, lower, 1e-9, "quantiles must be antisymmetric")
		}
	}
}

func TestInvStudentT_ExactSmallDF(t *testing.T) {
	got, err := InvStudentT(0.975, 1)
	require.NoError(t, err)
	assert.InDelta(t, 12.7062, got, 1e-3)

	got, err = InvStudentT(0.975, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4.3027, got, 1e-3)
}

func TestInvStudentT_ConvergesToNormal(t *testing.T) {
	z, err := InvNormalCDF(0.975)
	require.NoError(t, err)

	tq, err := InvStudentT(0.975, 1e6)
	require.NoError(t, err)
	assert.InDelta(t, z, tq, 1e-5)

	tq, err = InvStudentT(0.975, math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, z, tq)
}

func TestInvStudentT_OutOfDomain(t *testing.T) {
	_, err := InvStudentT(0.5, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = InvStudentT(0.5, -3)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = InvStudentT(1, 10)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestStudentTCDF_MatchesReference(t *testing.T) {
	for _, df := range []float64{1, 2, 4, 9, 50} {
		ref := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		for _, x := range []float64{-3, -1.2, 0, 0.7, 2.5} {
			got, err := StudentTCDF(x, df)
			require.NoError(t, err)
			assert.InDelta(t, ref.CDF(x), got, 1e-9, "df=%v t=%v", df, x)
		}
	}
}

func TestStudentTTwoSidedP(t *testing.T) {
	p, err := StudentTTwoSidedP(2.228139, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, p, 1e-5)
}

func TestTCritical(t *testing.T) {
	c, err := TCritical(0.95, 10)
	require.NoError(t, err)
	assert.InDelta(t, 2.228, c, 1e-3)

	c, err = TCritical(1, 10)
	require.NoError(t, err)
	assert.True(t, math.IsInf(c, 1))
}
