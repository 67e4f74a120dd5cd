package meta

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
	dmeta "statlab/domain/meta"
)

func study(effect, se float64) dmeta.StudySummary {
	return dmeta.StudySummary{Effect: effect, StandardError: se}
}

func TestFixedEffect_IdenticalStudies(t *testing.T) {
	studies := []dmeta.StudySummary{study(0.5, 0.1), study(0.5, 0.1)}

	fixed, err := FixedEffect(studies, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fixed.Estimate, 1e-12)

	het, err := Heterogeneity(studies)
	require.NoError(t, err)
	assert.InDelta(t, 0, het.Q, 1e-12)
	assert.Equal(t, 0.0, het.I2)
	assert.Equal(t, 0.0, het.Tau2)
	assert.Equal(t, 1, het.DF)
	assert.InDelta(t, 1, het.QPValue, 1e-9)
}

func TestFixedEffect_InverseVarianceWeights(t *testing.T) {
	fixed, err := FixedEffect([]dmeta.StudySummary{study(0.2, 0.1), study(0.4, 0.2)}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.24, fixed.Estimate, 1e-12)
	assert.InDelta(t, math.Sqrt(1.0/125), fixed.StandardError, 1e-12)
	assert.InDelta(t, 125, fixed.TotalWeight, 1e-9)
	assert.InDelta(t, 0.24-1.959964*fixed.StandardError, fixed.Lower, 1e-4)
	assert.InDelta(t, fixed.Estimate/fixed.StandardError, fixed.Z, 1e-12)
	assert.Less(t, fixed.PValue, 0.01)
	assert.Equal(t, dmeta.ModelFixed, fixed.Model)
}

func TestHeterogeneity_DerSimonianLaird(t *testing.T) {
	het, err := Heterogeneity([]dmeta.StudySummary{study(0, 0.1), study(1, 0.1)})
	require.NoError(t, err)
	assert.InDelta(t, 50, het.Q, 1e-9)
	assert.InDelta(t, 98, het.I2, 1e-9)
	assert.InDelta(t, 0.49, het.Tau2, 1e-9)
	assert.InDelta(t, 50, het.H2, 1e-9)
	assert.Less(t, het.QPValue, 1e-6)

	// Q below df clamps I² and τ² at zero
	het, err = Heterogeneity([]dmeta.StudySummary{study(0.2, 0.1), study(0.4, 0.2)})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, het.Q, 1e-9)
	assert.Equal(t, 0.0, het.I2)
	assert.Equal(t, 0.0, het.Tau2)
}

func TestRandomEffects(t *testing.T) {
	est, pi, het, err := RandomEffects([]dmeta.StudySummary{study(0, 0.1), study(1, 0.1)}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.49, het.Tau2, 1e-9)
	assert.InDelta(t, 0.5, est.Estimate, 1e-12)
	assert.InDelta(t, 0.5, est.StandardError, 1e-9)
	half := 1.96 * math.Sqrt(0.25+0.49)
	assert.InDelta(t, 0.5-half, pi.Lower, 1e-9)
	assert.InDelta(t, 0.5+half, pi.Upper, 1e-9)
	assert.Equal(t, dmeta.ModelRandom, est.Model)

	// no heterogeneity: random equals fixed
	studies := []dmeta.StudySummary{study(0.2, 0.1), study(0.4, 0.2)}
	fixed, err := FixedEffect(studies, 0.95)
	require.NoError(t, err)
	random, _, _, err := RandomEffects(studies, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, fixed.Estimate, random.Estimate, 1e-12)
}

func TestEgger(t *testing.T) {
	// effects shrink as precision grows: small-study asymmetry
	studies := []dmeta.StudySummary{study(0.2, 0.05), study(0.3, 0.1), study(0.5, 0.2), study(0.8, 0.3)}
	res, err := Egger(studies)
	require.NoError(t, err)
	assert.Greater(t, res.InterceptEstimate, 0.0)
	assert.Greater(t, res.InterceptSE, 0.0)
	assert.Equal(t, 2, res.DF)
	assert.InDelta(t, res.InterceptEstimate/res.InterceptSE, res.TStatistic, 1e-12)
	assert.True(t, res.PValue >= 0 && res.PValue <= 1)

	// a common effect puts every point on a line through the origin
	res, err = Egger([]dmeta.StudySummary{study(0.5, 0.1), study(0.5, 0.2), study(0.5, 0.4)})
	require.NoError(t, err)
	assert.InDelta(t, 0, res.InterceptEstimate, 1e-9)
	assert.InDelta(t, 0.5, res.Slope, 1e-9)
}

func TestEgger_Errors(t *testing.T) {
	_, err := Egger([]dmeta.StudySummary{study(0.1, 0.1), study(0.2, 0.2)})
	assert.ErrorIs(t, err, core.ErrInsufficientStudies)

	_, err = Egger([]dmeta.StudySummary{study(0.1, 0.1), study(0.2, 0.1), study(0.3, 0.1)})
	assert.ErrorIs(t, err, core.ErrDegenerateInput)
}

func TestFailSafeN(t *testing.T) {
	n, err := FailSafeN([]dmeta.StudySummary{study(0.3, 0.1), study(0.3, 0.1), study(0.3, 0.1)})
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	n, err = FailSafeN([]dmeta.StudySummary{study(0, 0.1), study(0.01, 0.1)})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLeaveOneOut_FlagsInfluentialStudy(t *testing.T) {
	studies := []dmeta.StudySummary{study(0.5, 0.1), study(0.52, 0.1), study(5, 0.1)}
	for _, model := range []dmeta.Model{dmeta.ModelFixed, dmeta.ModelRandom} {
		res, err := LeaveOneOut(studies, model)
		require.NoError(t, err)
		assert.Len(t, res.Entries, 3)
		assert.Equal(t, 2, res.MostInfluential, model)
		assert.False(t, res.Robust, model)
		assert.InDelta(t, 0.51, res.Entries[2].Estimate, 1e-9)
		assert.Greater(t, res.MaxPercentChange, RobustThreshold)
	}
}

func TestLeaveOneOut_Robust(t *testing.T) {
	studies := []dmeta.StudySummary{study(0.5, 0.1), study(0.52, 0.1), study(0.48, 0.12), study(0.51, 0.09)}
	res, err := LeaveOneOut(studies, dmeta.ModelRandom)
	require.NoError(t, err)
	assert.True(t, res.Robust)
	assert.Less(t, res.MaxPercentChange, RobustThreshold)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, percentChange(0, 0))
	assert.True(t, math.IsInf(percentChange(0, 0.1), 1))
	assert.InDelta(t, 50, percentChange(2, 1), 1e-12)
}

func TestInsufficientStudies(t *testing.T) {
	studies := []dmeta.StudySummary{study(0.5, 0.1), study(0.3, 0), study(math.NaN(), 0.1)}

	_, err := FixedEffect(studies, 0.95)
	assert.ErrorIs(t, err, core.ErrInsufficientStudies)
	assert.True(t, core.IsInsufficientData(err))
	_, _, _, err = RandomEffects(studies, 0.95)
	assert.ErrorIs(t, err, core.ErrInsufficientStudies)
	_, err = LeaveOneOut(studies, dmeta.ModelRandom)
	assert.ErrorIs(t, err, core.ErrInsufficientStudies)
	_, err = FailSafeN(nil)
	assert.ErrorIs(t, err, core.ErrInsufficientStudies)

	res, err := Analyze(studies, DefaultConfig())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, core.ErrInsufficientStudies)
}

func TestAnalyze(t *testing.T) {
	studies := []dmeta.StudySummary{
		{Label: "a", Effect: 0.30, StandardError: 0.10, Quality: 8},
		{Label: "b", Effect: 0.45, StandardError: 0.15, Quality: 7},
		{Label: "c", Effect: 0.10, StandardError: 0.12, Quality: 9},
		{Label: "d", Effect: 0.60, StandardError: 0.20, Quality: 2},
		{Label: "e", Effect: 0.25, StandardError: 0},
	}

	res, err := Analyze(studies, Config{Level: 0.95, Model: dmeta.ModelRandom, MinQuality: 5})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, res.Excluded)
	require.Len(t, res.Studies, 3)
	require.NotNil(t, res.Bias)
	assert.Equal(t, dmeta.ModelRandom, res.Model)
	assert.Equal(t, res.Random, res.Primary())
	assert.Len(t, res.Sensitivity.Entries, 3)

	for i, s := range res.Studies {
		assert.InDelta(t, 1/(s.Variance()+res.Heterogeneity.Tau2), s.Weight, 1e-12, i)
	}
	assert.Zero(t, studies[0].Weight, "input is not mutated")

	res, err = Analyze(studies[:2], Config{Level: 0.9, Model: dmeta.ModelFixed})
	require.NoError(t, err)
	assert.Nil(t, res.Bias)
	assert.Equal(t, res.Fixed, res.Primary())
	assert.Equal(t, 0.9, res.Fixed.Level)
	assert.InDelta(t, 100, res.Studies[0].Weight, 1e-9)
}

func TestAnalyze_EqualPrecisionSkipsBias(t *testing.T) {
	res, err := Analyze([]dmeta.StudySummary{study(0.1, 0.1), study(0.2, 0.1), study(0.3, 0.1)}, DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, res.Bias)
}

func TestAnalyze_InvalidConfig(t *testing.T) {
	studies := []dmeta.StudySummary{study(0.1, 0.1), study(0.2, 0.1)}
	_, err := Analyze(studies, Config{Level: 0, Model: dmeta.ModelFixed})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = Analyze(studies, Config{Level: 0.95, Model: "bayes"})
	assert.ErrorIs(t, err, core.ErrUnsupportedMethod)
}
