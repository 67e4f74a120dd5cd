package meta

import (
	"math"
	"strings"

	"statlab/domain/core"
)

// StudySummary is the study-level input of a meta-analysis.
// Weight is derived by the engine and ignored on input.
type StudySummary struct {
	Label         string  `json:"label,omitempty"`
	Effect        float64 `json:"effect"`
	StandardError float64 `json:"standard_error"`
	Weight        float64 `json:"weight"`
	N1            int     `json:"n1,omitempty"`
	N2            int     `json:"n2,omitempty"`
	Quality       int     `json:"quality,omitempty"` // 1..10, 0 when unrated
}

// Usable reports whether the study can enter pooling: finite effect and a
// finite, strictly positive standard error.
func (s StudySummary) Usable() bool {
	return !math.IsNaN(s.Effect) && !math.IsInf(s.Effect, 0) &&
		s.StandardError > 0 && !math.IsInf(s.StandardError, 0)
}

// Variance returns SE²
func (s StudySummary) Variance() float64 {
	return s.StandardError * s.StandardError
}

// Z returns the study's standardized effect, Effect/SE
func (s StudySummary) Z() float64 {
	return s.Effect / s.StandardError
}

// Model selects the pooling model
type Model string

const (
	ModelFixed  Model = "fixed"
	ModelRandom Model = "random"
)

// ParseModel parses a pooling model name
func ParseModel(s string) (Model, error) {
	switch Model(strings.ToLower(strings.TrimSpace(s))) {
	case ModelFixed:
		return ModelFixed, nil
	case ModelRandom, "dl", "dersimonian_laird":
		return ModelRandom, nil
	}
	return "", core.NewUnsupportedMethodError("meta model " + s)
}

// PooledEstimate is one pooled effect with its inferential summary
type PooledEstimate struct {
	Model         Model   `json:"model"`
	Estimate      float64 `json:"estimate"`
	StandardError float64 `json:"standard_error"`
	Lower         float64 `json:"lower"`
	Upper         float64 `json:"upper"`
	Level         float64 `json:"level"`
	Z             float64 `json:"z"`
	PValue        float64 `json:"p_value"`
	TotalWeight   float64 `json:"total_weight"`
}

// HeterogeneityStats summarises between-study variation.
// Q >= 0, QPValue in [0,1], I2 in [0,100], Tau2 >= 0, H2 >= 0.
type HeterogeneityStats struct {
	Q       float64 `json:"q"`
	DF      int     `json:"df"`
	QPValue float64 `json:"q_pvalue"`
	I2      float64 `json:"i2"`
	Tau2    float64 `json:"tau2"`
	H2      float64 `json:"h2"`
}

// PredictionInterval is the range expected to hold a new study's true effect
type PredictionInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// EggerResult is the regression test for funnel-plot asymmetry
type EggerResult struct {
	InterceptEstimate float64 `json:"intercept_estimate"`
	InterceptSE       float64 `json:"intercept_se"`
	Slope             float64 `json:"slope"`
	TStatistic        float64 `json:"t_statistic"`
	DF                int     `json:"df"`
	PValue            float64 `json:"p_value"`
}

// PublicationBiasResult combines Egger's test with Rosenthal's fail-safe N
type PublicationBiasResult struct {
	InterceptEstimate float64 `json:"intercept_estimate"`
	InterceptSE       float64 `json:"intercept_se"`
	TStatistic        float64 `json:"t_statistic"`
	PValue            float64 `json:"p_value"`
	FailSafeN         int     `json:"fail_safe_n"`
}

// LeaveOneOutEntry is the pooled estimate with one study omitted
type LeaveOneOutEntry struct {
	Omitted       int     `json:"omitted"`
	Label         string  `json:"label,omitempty"`
	Estimate      float64 `json:"estimate"`
	PercentChange float64 `json:"percent_change"`
}

// SensitivityResult is the leave-one-out analysis.
// Robust is true when MaxPercentChange < 10.
type SensitivityResult struct {
	Entries          []LeaveOneOutEntry `json:"entries"`
	MaxPercentChange float64            `json:"max_percent_change"`
	MostInfluential  int                `json:"most_influential"`
	Robust           bool               `json:"robust"`
}

// Result is a complete meta-analysis
type Result struct {
	Studies       []StudySummary         `json:"studies"`
	Excluded      []int                  `json:"excluded,omitempty"`
	Fixed         PooledEstimate         `json:"fixed"`
	Random        PooledEstimate         `json:"random"`
	Heterogeneity HeterogeneityStats     `json:"heterogeneity"`
	Prediction    PredictionInterval     `json:"prediction_interval"`
	Bias          *PublicationBiasResult `json:"publication_bias,omitempty"`
	Sensitivity   SensitivityResult      `json:"sensitivity"`
	Model         Model                  `json:"model"`
}

// Primary returns the pooled estimate of the configured model
func (r *Result) Primary() PooledEstimate {
	if r.Model == ModelFixed {
		return r.Fixed
	}
	return r.Random
}
