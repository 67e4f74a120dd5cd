package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/meta"
	"statlab/internal"
	"statlab/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"STATLAB_CONFIDENCE_LEVEL", "STATLAB_BOOTSTRAP_RESAMPLES", "STATLAB_SEED",
		"STATLAB_TRIM_FRACTION", "STATLAB_OUTLIER_THRESHOLD", "STATLAB_META_MODEL",
		"STATLAB_MIN_QUALITY", "STATLAB_MAX_WORKERS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.95, cfg.Estimation.ConfidenceLevel)
	assert.Equal(t, 2000, cfg.Estimation.Resamples)
	assert.False(t, cfg.Estimation.HasSeed)
	assert.Equal(t, 0.2, cfg.Robust.TrimFraction)
	assert.Equal(t, meta.ModelRandom, cfg.Meta.Model)
	assert.GreaterOrEqual(t, cfg.Runtime.MaxWorkers, 1)
	assert.Equal(t, internal.LogLevelInfo, cfg.Runtime.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATLAB_CONFIDENCE_LEVEL", "0.9")
	t.Setenv("STATLAB_BOOTSTRAP_RESAMPLES", "500")
	t.Setenv("STATLAB_SEED", "42")
	t.Setenv("STATLAB_META_MODEL", "fixed")
	t.Setenv("STATLAB_MIN_QUALITY", "6")
	t.Setenv("STATLAB_MAX_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Estimation.ConfidenceLevel)
	assert.Equal(t, 500, cfg.Estimation.Resamples)
	assert.True(t, cfg.Estimation.HasSeed)
	assert.Equal(t, int64(42), cfg.Estimation.Seed)
	assert.Equal(t, meta.ModelFixed, cfg.Meta.Model)
	assert.Equal(t, 6, cfg.Meta.MinQuality)
	assert.Equal(t, 2, cfg.Runtime.MaxWorkers)
	assert.Equal(t, internal.LogLevelDebug, cfg.Runtime.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"STATLAB_CONFIDENCE_LEVEL":    "1.5",
		"STATLAB_TRIM_FRACTION":       "0.5",
		"STATLAB_SEED":                "abc",
		"STATLAB_META_MODEL":          "bayesian",
		"STATLAB_BOOTSTRAP_RESAMPLES": "0",
		"LOG_LEVEL":                   "LOUD",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
