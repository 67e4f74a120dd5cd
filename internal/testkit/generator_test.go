package testkit

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Reproducible(t *testing.T) {
	a := NewGenerator(42).Normal(50, 0, 1)
	b := NewGenerator(42).Normal(50, 0, 1)
	c := NewGenerator(43).Normal(50, 0, 1)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerator_NormalMoments(t *testing.T) {
	x := NewGenerator(7).Normal(5000, 10, 2)
	m, err := stats.Mean(x)
	require.NoError(t, err)
	sd, err := stats.StandardDeviationSample(x)
	require.NoError(t, err)
	assert.InDelta(t, 10, m, 0.15)
	assert.InDelta(t, 2, sd, 0.15)
}

func TestGenerator_Contaminated(t *testing.T) {
	cfg := DefaultContaminationConfig()
	x, idx := NewGenerator(1).Contaminated(cfg)
	require.Len(t, x, cfg.N)
	require.Len(t, idx, 5)
	assert.IsIncreasing(t, idx)
	for _, i := range idx {
		assert.InDelta(t, cfg.Shift*cfg.SD, math.Abs(x[i]-cfg.Mean), 1e-9)
	}

	_, none := NewGenerator(1).Contaminated(ContaminationConfig{N: 10, SD: 1})
	assert.Empty(t, none)
}

func TestGenerator_Bernoulli(t *testing.T) {
	x := NewGenerator(3).Bernoulli(4000, 0.3)
	m, err := stats.Mean(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, m, 0.03)
	for _, v := range x {
		assert.True(t, v == 0 || v == 1)
	}
}

func TestGenerator_Studies(t *testing.T) {
	cfg := DefaultStudyConfig()
	studies := NewGenerator(9).Studies(cfg)
	require.Len(t, studies, cfg.K)
	for _, s := range studies {
		assert.True(t, s.Usable(), s.Label)
		assert.GreaterOrEqual(t, s.StandardError, cfg.MinSE)
		assert.LessOrEqual(t, s.StandardError, cfg.MaxSE)
		assert.True(t, s.Quality >= 1 && s.Quality <= 10)
	}
	assert.Equal(t, "study_01", studies[0].Label)
}
