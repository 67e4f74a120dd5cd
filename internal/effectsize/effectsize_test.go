package effectsize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
)

func TestCohensDAndHedgesG(t *testing.T) {
	a := GroupStats{Mean: 10, SD: 2, N: 20}
	b := GroupStats{Mean: 8, SD: 2, N: 20}

	d, err := CohensD(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-12)

	g, err := HedgesG(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1-3.0/151, g, 1e-12)
	assert.Less(t, g, d)

	sp, err := PooledSD(GroupStats{Mean: 0, SD: 1, N: 11}, GroupStats{Mean: 0, SD: 3, N: 11})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(5), sp, 1e-12)
}

func TestStandardErrorD(t *testing.T) {
	se, err := StandardErrorD(1, 20, 20)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.1125), se, 1e-12)

	_, err = StandardErrorD(1, 0, 20)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestConversions_RoundTrip(t *testing.T) {
	for _, d := range []float64{-2, -0.5, 0, 0.3, 1.2} {
		r := DToR(d)
		back, err := RToD(r)
		require.NoError(t, err)
		assert.InDelta(t, d, back, 1e-9, d)
		assert.InDelta(t, d, LogOddsRatioToD(DToLogOddsRatio(d)), 1e-12, d)
	}
	assert.InDelta(t, 1/math.Sqrt(5), DToR(1), 1e-12)
}

func TestConversions_UnitCorrelation(t *testing.T) {
	d, err := RToD(1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d, 1))
	d, err = RToD(-1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d, -1))

	or, err := RToOddsRatio(1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(or, 1))
	or, err = RToOddsRatio(-1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, or)

	z, err := FisherZ(-1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(z, -1))

	assert.Equal(t, 1.0, DToR(math.Inf(1)))
}

func TestFisherZ(t *testing.T) {
	z, err := FisherZ(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.549306, z, 1e-6)

	se, err := FisherZSE(28)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, se, 1e-12)

	_, err = FisherZSE(3)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	_, err = FisherZ(1.5)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = RToOddsRatio(math.NaN())
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestStudyFromGroups(t *testing.T) {
	s, err := StudyFromGroups("trial", GroupStats{Mean: 10, SD: 2, N: 20}, GroupStats{Mean: 8, SD: 2, N: 20})
	require.NoError(t, err)
	assert.Equal(t, "trial", s.Label)
	assert.InDelta(t, 1-3.0/151, s.Effect, 1e-12)
	assert.True(t, s.Usable())
	assert.Equal(t, 20, s.N1)
	assert.Equal(t, 20, s.N2)
}

func TestEffectSize_Errors(t *testing.T) {
	_, err := CohensD(GroupStats{Mean: 1, SD: 0, N: 5}, GroupStats{Mean: 2, SD: 0, N: 5})
	assert.ErrorIs(t, err, core.ErrDegenerateInput)
	_, err = CohensD(GroupStats{Mean: 1, SD: 1, N: 1}, GroupStats{Mean: 2, SD: 1, N: 1})
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	_, err = CohensD(GroupStats{Mean: 1, SD: -1, N: 5}, GroupStats{Mean: 2, SD: 1, N: 5})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = StudyFromGroups("x", GroupStats{Mean: math.Inf(1), SD: 1, N: 5}, GroupStats{Mean: 2, SD: 1, N: 5})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
