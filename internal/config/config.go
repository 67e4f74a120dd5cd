package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"statlab/domain/meta"
	"statlab/internal"
	"statlab/internal/bootstrap"
	"statlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Estimation EstimationConfig
	Robust     RobustConfig
	Outlier    OutlierConfig
	Meta       MetaConfig
	Runtime    RuntimeConfig
}

// EstimationConfig holds interval and resampling defaults
type EstimationConfig struct {
	ConfidenceLevel float64
	Resamples       int
	// Seed fixes every random stream when HasSeed is set; otherwise each run
	// draws fresh randomness.
	Seed    int64
	HasSeed bool
}

// RobustConfig holds robust estimator settings
type RobustConfig struct {
	TrimFraction float64
}

// OutlierConfig holds outlier detection settings. A zero Threshold keeps
// each rule's own default.
type OutlierConfig struct {
	Threshold float64
}

// MetaConfig holds meta-analysis settings
type MetaConfig struct {
	Model      meta.Model
	MinQuality int
}

// RuntimeConfig holds process settings
type RuntimeConfig struct {
	MaxWorkers int
	LogLevel   internal.LogLevel
}

// Default returns the configuration used when the environment is empty
func Default() *Config {
	return &Config{
		Estimation: EstimationConfig{
			ConfidenceLevel: 0.95,
			Resamples:       bootstrap.DefaultResamples,
		},
		Robust:  RobustConfig{TrimFraction: 0.2},
		Meta:    MetaConfig{Model: meta.ModelRandom},
		Runtime: RuntimeConfig{MaxWorkers: runtime.NumCPU(), LogLevel: internal.LogLevelInfo},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	def := Default()
	config := &Config{
		Robust:  RobustConfig{TrimFraction: getEnvFloatOrDefault("STATLAB_TRIM_FRACTION", def.Robust.TrimFraction)},
		Outlier: OutlierConfig{Threshold: getEnvFloatOrDefault("STATLAB_OUTLIER_THRESHOLD", def.Outlier.Threshold)},
	}

	estimation, err := loadEstimationConfig(def.Estimation)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load estimation configuration")
	}
	config.Estimation = *estimation

	metaConfig, err := loadMetaConfig(def.Meta)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load meta-analysis configuration")
	}
	config.Meta = *metaConfig

	runtimeConfig, err := loadRuntimeConfig(def.Runtime)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load runtime configuration")
	}
	config.Runtime = *runtimeConfig

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadEstimationConfig(def EstimationConfig) (*EstimationConfig, error) {
	cfg := &EstimationConfig{
		ConfidenceLevel: getEnvFloatOrDefault("STATLAB_CONFIDENCE_LEVEL", def.ConfidenceLevel),
		Resamples:       getEnvIntOrDefault("STATLAB_BOOTSTRAP_RESAMPLES", def.Resamples),
	}
	if raw := os.Getenv("STATLAB_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("STATLAB_SEED must be an integer, got %q", raw))
		}
		cfg.Seed = seed
		cfg.HasSeed = true
	}
	return cfg, nil
}

func loadMetaConfig(def MetaConfig) (*MetaConfig, error) {
	cfg := &MetaConfig{
		Model:      def.Model,
		MinQuality: getEnvIntOrDefault("STATLAB_MIN_QUALITY", def.MinQuality),
	}
	if raw := os.Getenv("STATLAB_META_MODEL"); raw != "" {
		model, err := meta.ParseModel(raw)
		if err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, err)
		}
		cfg.Model = model
	}
	return cfg, nil
}

func loadRuntimeConfig(def RuntimeConfig) (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{
		MaxWorkers: getEnvIntOrDefault("STATLAB_MAX_WORKERS", def.MaxWorkers),
		LogLevel:   def.LogLevel,
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, ok := internal.ParseLogLevel(raw)
		if !ok {
			return nil, errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL %q is not one of ERROR, WARN, INFO, DEBUG, TRACE", raw))
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// Validate checks every setting against its domain. CLI flag overrides go
// through it again.
func (c *Config) Validate() error {
	if l := c.Estimation.ConfidenceLevel; !(l > 0 && l <= 1) {
		return errors.ConfigInvalid(fmt.Sprintf("confidence level %v must lie in (0,1]", l))
	}
	if c.Estimation.Resamples < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("bootstrap resamples %d must be >= 1", c.Estimation.Resamples))
	}
	if f := c.Robust.TrimFraction; !(f >= 0 && f < 0.5) {
		return errors.ConfigInvalid(fmt.Sprintf("trim fraction %v must lie in [0,0.5)", f))
	}
	if c.Outlier.Threshold < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("outlier threshold %v must be > 0, or 0 for the defaults", c.Outlier.Threshold))
	}
	if c.Meta.Model != meta.ModelFixed && c.Meta.Model != meta.ModelRandom {
		return errors.ConfigInvalid(fmt.Sprintf("meta model %q is not fixed or random", c.Meta.Model))
	}
	if c.Meta.MinQuality < 0 {
		return errors.ConfigInvalid("minimum study quality must be >= 0")
	}
	if c.Runtime.MaxWorkers < 1 {
		return errors.ConfigInvalid(fmt.Sprintf("max workers %d must be >= 1", c.Runtime.MaxWorkers))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
