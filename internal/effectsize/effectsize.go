// Package effectsize converts between standardized mean differences,
// correlations and odds ratios, and turns two-group summaries into
// meta-analysis inputs.
//
// Conversions of r = ±1 return the matching infinity; that is the exact
// value, not an error.
package effectsize

import (
	"math"

	"statlab/domain/core"
	dmeta "statlab/domain/meta"
)

// GroupStats is the summary of one arm of a two-group comparison
type GroupStats struct {
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
	N    int     `json:"n"`
}

func (g GroupStats) validate(name string) error {
	if math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
		return core.NewInvalidParameterError(name+" mean", g.Mean, "must be finite")
	}
	if math.IsNaN(g.SD) || math.IsInf(g.SD, 0) || g.SD < 0 {
		return core.NewInvalidParameterError(name+" sd", g.SD, "must be finite and >= 0")
	}
	if g.N < 1 {
		return core.NewInsufficientDataError(name+" group", g.N, 1)
	}
	return nil
}

// PooledSD is √(((n1-1)s1² + (n2-1)s2²)/(n1+n2-2))
func PooledSD(a, b GroupStats) (float64, error) {
	if err := a.validate("first"); err != nil {
		return 0, err
	}
	if err := b.validate("second"); err != nil {
		return 0, err
	}
	df := a.N + b.N - 2
	if df < 1 {
		return 0, core.NewInsufficientDataError("pooled sd", a.N+b.N, 3)
	}
	ss := float64(a.N-1)*a.SD*a.SD + float64(b.N-1)*b.SD*b.SD
	return math.Sqrt(ss / float64(df)), nil
}

// CohensD is (mean_a - mean_b) / pooled SD
func CohensD(a, b GroupStats) (float64, error) {
	sp, err := PooledSD(a, b)
	if err != nil {
		return 0, err
	}
	if sp == 0 {
		return 0, core.NewDegenerateInputError("cohen's d: both groups have zero spread")
	}
	return (a.Mean - b.Mean) / sp, nil
}

// HedgesJ is the small-sample correction 1 - 3/(4(n1+n2) - 9)
func HedgesJ(n1, n2 int) float64 {
	return 1 - 3/(4*float64(n1+n2)-9)
}

// HedgesG is Cohen's d scaled by HedgesJ
func HedgesG(a, b GroupStats) (float64, error) {
	d, err := CohensD(a, b)
	if err != nil {
		return 0, err
	}
	return HedgesJ(a.N, b.N) * d, nil
}

// StandardErrorD is the large-sample SE of d: √((n1+n2)/(n1·n2) + d²/(2(n1+n2)))
func StandardErrorD(d float64, n1, n2 int) (float64, error) {
	if n1 < 1 || n2 < 1 {
		return 0, core.NewInsufficientDataError("standard error of d", min(n1, n2), 1)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, core.NewInvalidParameterError("d", d, "must be finite")
	}
	n := float64(n1 + n2)
	return math.Sqrt(n/float64(n1*n2) + d*d/(2*n)), nil
}

func checkR(r float64) error {
	if math.IsNaN(r) || r < -1 || r > 1 {
		return core.NewInvalidParameterError("r", r, "must lie in [-1,1]")
	}
	return nil
}

// DToR converts d to a point-biserial r assuming equal group sizes
func DToR(d float64) float64 {
	if math.IsInf(d, 0) {
		return math.Copysign(1, d)
	}
	return d / math.Sqrt(d*d+4)
}

// RToD is 2r/√(1-r²)
func RToD(r float64) (float64, error) {
	if err := checkR(r); err != nil {
		return 0, err
	}
	if math.Abs(r) == 1 {
		return math.Inf(int(r)), nil
	}
	return 2 * r / math.Sqrt(1-r*r), nil
}

// DToLogOddsRatio is d·π/√3
func DToLogOddsRatio(d float64) float64 {
	return d * math.Pi / math.Sqrt(3)
}

// LogOddsRatioToD is ln(OR)·√3/π
func LogOddsRatioToD(logOR float64) float64 {
	return logOR * math.Sqrt(3) / math.Pi
}

// RToOddsRatio goes through d and the logistic approximation. r = 1 gives
// +Inf and r = -1 gives 0.
func RToOddsRatio(r float64) (float64, error) {
	d, err := RToD(r)
	if err != nil {
		return 0, err
	}
	return math.Exp(DToLogOddsRatio(d)), nil
}

// FisherZ is atanh(r)
func FisherZ(r float64) (float64, error) {
	if err := checkR(r); err != nil {
		return 0, err
	}
	return math.Atanh(r), nil
}

// FisherZSE is the standard error 1/√(n-3) of Fisher's z
func FisherZSE(n int) (float64, error) {
	if n < 4 {
		return 0, core.NewInsufficientDataError("fisher z", n, 4)
	}
	return 1 / math.Sqrt(float64(n-3)), nil
}

// StudyFromGroups summarises a treatment/control comparison as Hedges' g
// with its standard error.
func StudyFromGroups(label string, treatment, control GroupStats) (dmeta.StudySummary, error) {
	g, err := HedgesG(treatment, control)
	if err != nil {
		return dmeta.StudySummary{}, err
	}
	se, err := StandardErrorD(g, treatment.N, control.N)
	if err != nil {
		return dmeta.StudySummary{}, err
	}
	return dmeta.StudySummary{
		Label:         label,
		Effect:        g,
		StandardError: se,
		N1:            treatment.N,
		N2:            control.N,
	}, nil
}
