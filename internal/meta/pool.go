package meta

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"statlab/domain/core"
	dmeta "statlab/domain/meta"
	"statlab/internal/distribution"
)

// MinStudies is the smallest number of usable studies that can be pooled
const MinStudies = 2

// PredictionZ is the normal quantile of the 95% prediction interval
const PredictionZ = 1.96

// usable splits studies into the poolable ones and the input positions of
// the rest.
func usable(studies []dmeta.StudySummary, minQuality int) ([]dmeta.StudySummary, []int) {
	var kept []dmeta.StudySummary
	var excluded []int
	for i, s := range studies {
		if !s.Usable() || (minQuality > 0 && s.Quality < minQuality) {
			excluded = append(excluded, i)
			continue
		}
		kept = append(kept, s)
	}
	return kept, excluded
}

func prepare(studies []dmeta.StudySummary) ([]dmeta.StudySummary, error) {
	kept, _ := usable(studies, 0)
	if len(kept) < MinStudies {
		return nil, core.NewInsufficientStudiesError(len(kept), MinStudies)
	}
	return kept, nil
}

func effects(studies []dmeta.StudySummary) []float64 {
	out := make([]float64, len(studies))
	for i, s := range studies {
		out[i] = s.Effect
	}
	return out
}

// weights returns 1/(SE²+tau2) per study
func weights(studies []dmeta.StudySummary, tau2 float64) []float64 {
	out := make([]float64, len(studies))
	for i, s := range studies {
		out[i] = 1 / (s.Variance() + tau2)
	}
	return out
}

// weightedMean returns Σw·y/Σw and √(1/Σw)
func weightedMean(y, w []float64) (float64, float64) {
	sw := floats.Sum(w)
	return floats.Dot(w, y) / sw, math.Sqrt(1 / sw)
}

func pooled(model dmeta.Model, y, w []float64, level float64) (dmeta.PooledEstimate, error) {
	est, se := weightedMean(y, w)
	crit, err := distribution.NormalCritical(level)
	if err != nil {
		return dmeta.PooledEstimate{}, err
	}
	z := est / se
	p, err := distribution.NormalTwoSidedP(z)
	if err != nil {
		return dmeta.PooledEstimate{}, err
	}
	return dmeta.PooledEstimate{
		Model:         model,
		Estimate:      est,
		StandardError: se,
		Lower:         est - crit*se,
		Upper:         est + crit*se,
		Level:         level,
		Z:             z,
		PValue:        p,
		TotalWeight:   floats.Sum(w),
	}, nil
}

// FixedEffect pools with inverse-variance weights 1/SE²
func FixedEffect(studies []dmeta.StudySummary, level float64) (dmeta.PooledEstimate, error) {
	kept, err := prepare(studies)
	if err != nil {
		return dmeta.PooledEstimate{}, err
	}
	return pooled(dmeta.ModelFixed, effects(kept), weights(kept, 0), level)
}

// heterogeneity computes the statistics for already filtered studies. It
// also serves single-study leave-one-out subsets, where df is 0.
func heterogeneity(studies []dmeta.StudySummary) (dmeta.HeterogeneityStats, error) {
	y := effects(studies)
	w := weights(studies, 0)
	fixed, _ := weightedMean(y, w)

	var q float64
	for i := range y {
		d := y[i] - fixed
		q += w[i] * d * d
	}
	df := len(studies) - 1
	stats := dmeta.HeterogeneityStats{Q: q, DF: df, QPValue: 1}
	if df < 1 {
		return stats, nil
	}

	pv, err := distribution.ChiSquareSurvival(q, float64(df))
	if err != nil {
		return dmeta.HeterogeneityStats{}, err
	}
	stats.QPValue = pv
	if q > 0 {
		stats.I2 = math.Max(0, (q-float64(df))/q*100)
	}
	sw := floats.Sum(w)
	c := sw - floats.Dot(w, w)/sw
	if c > 0 {
		stats.Tau2 = math.Max(0, (q-float64(df))/c)
	}
	stats.H2 = q / float64(df)
	return stats, nil
}

// Heterogeneity returns Cochran's Q with its chi-square p-value, I², the
// DerSimonian–Laird τ² and H².
func Heterogeneity(studies []dmeta.StudySummary) (dmeta.HeterogeneityStats, error) {
	kept, err := prepare(studies)
	if err != nil {
		return dmeta.HeterogeneityStats{}, err
	}
	return heterogeneity(kept)
}

// RandomEffects pools with weights 1/(SE²+τ²) and returns the 95%
// prediction interval estimate ± 1.96·√(SE²+τ²) alongside.
func RandomEffects(studies []dmeta.StudySummary, level float64) (dmeta.PooledEstimate, dmeta.PredictionInterval, dmeta.HeterogeneityStats, error) {
	kept, err := prepare(studies)
	if err != nil {
		return dmeta.PooledEstimate{}, dmeta.PredictionInterval{}, dmeta.HeterogeneityStats{}, err
	}
	het, err := heterogeneity(kept)
	if err != nil {
		return dmeta.PooledEstimate{}, dmeta.PredictionInterval{}, dmeta.HeterogeneityStats{}, err
	}
	est, err := pooled(dmeta.ModelRandom, effects(kept), weights(kept, het.Tau2), level)
	if err != nil {
		return dmeta.PooledEstimate{}, dmeta.PredictionInterval{}, dmeta.HeterogeneityStats{}, err
	}
	return est, predictionInterval(est, het.Tau2), het, nil
}

func predictionInterval(est dmeta.PooledEstimate, tau2 float64) dmeta.PredictionInterval {
	half := PredictionZ * math.Sqrt(est.StandardError*est.StandardError+tau2)
	return dmeta.PredictionInterval{Lower: est.Estimate - half, Upper: est.Estimate + half}
}

// estimateFor pools filtered studies under a model without inference
func estimateFor(model dmeta.Model, studies []dmeta.StudySummary) (float64, error) {
	tau2 := 0.0
	if model == dmeta.ModelRandom {
		het, err := heterogeneity(studies)
		if err != nil {
			return 0, err
		}
		tau2 = het.Tau2
	}
	est, _ := weightedMean(effects(studies), weights(studies, tau2))
	return est, nil
}
