package meta

import (
	"math"

	"statlab/domain/core"
	dmeta "statlab/domain/meta"
)

// Config parameterizes Analyze
type Config struct {
	// Level is the confidence level of the pooled intervals, in (0,1]
	Level float64 `json:"level"`
	// Model is the primary model; it also drives leave-one-out
	Model dmeta.Model `json:"model"`
	// MinQuality drops studies rated below it; 0 keeps unrated studies
	MinQuality int `json:"min_quality"`
}

// DefaultConfig pools at 95% under random effects
func DefaultConfig() Config {
	return Config{Level: 0.95, Model: dmeta.ModelRandom}
}

func (c Config) validate() error {
	if math.IsNaN(c.Level) || c.Level <= 0 || c.Level > 1 {
		return core.NewInvalidParameterError("confidence level", c.Level, "must lie in (0,1]")
	}
	if c.Model != dmeta.ModelFixed && c.Model != dmeta.ModelRandom {
		return core.NewUnsupportedMethodError("meta model " + string(c.Model))
	}
	if c.MinQuality < 0 {
		return core.NewInvalidParameterError("min quality", float64(c.MinQuality), "must be >= 0")
	}
	return nil
}

// Analyze runs the complete meta-analysis. Result.Studies holds copies of
// the usable studies with the primary model's weights filled in;
// Result.Excluded lists input positions that were dropped. Publication bias
// needs three studies and is nil below that.
func Analyze(studies []dmeta.StudySummary, cfg Config) (*dmeta.Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	kept, excluded := usable(studies, cfg.MinQuality)
	if len(kept) < MinStudies {
		return nil, core.NewInsufficientStudiesError(len(kept), MinStudies)
	}

	fixed, err := FixedEffect(kept, cfg.Level)
	if err != nil {
		return nil, err
	}
	random, prediction, het, err := RandomEffects(kept, cfg.Level)
	if err != nil {
		return nil, err
	}
	sens, err := LeaveOneOut(kept, cfg.Model)
	if err != nil {
		return nil, err
	}

	var bias *dmeta.PublicationBiasResult
	if len(kept) >= MinEggerStudies {
		pb, err := PublicationBias(kept)
		switch {
		case err == nil:
			bias = &pb
		case core.IsDegenerateInput(err):
			// equal precisions leave the regression undefined
		default:
			return nil, err
		}
	}

	tau2 := 0.0
	if cfg.Model == dmeta.ModelRandom {
		tau2 = het.Tau2
	}
	w := weights(kept, tau2)
	out := make([]dmeta.StudySummary, len(kept))
	for i, s := range kept {
		s.Weight = w[i]
		out[i] = s
	}

	return &dmeta.Result{
		Studies:       out,
		Excluded:      excluded,
		Fixed:         fixed,
		Random:        random,
		Heterogeneity: het,
		Prediction:    prediction,
		Bias:          bias,
		Sensitivity:   sens,
		Model:         cfg.Model,
	}, nil
}
