package meta

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"statlab/domain/core"
	dmeta "statlab/domain/meta"
	"statlab/internal/distribution"
)

// MinEggerStudies is the smallest k Egger's test accepts; the t test has k-2 df
const MinEggerStudies = 3

// Egger regresses the standard normal deviate effect/SE on precision 1/SE
// by ordinary least squares and tests the intercept against t with k-2 df.
// A perfect fit (zero intercept SE) reports t = 0 and p = 1.
func Egger(studies []dmeta.StudySummary) (dmeta.EggerResult, error) {
	kept, err := prepare(studies)
	if err != nil {
		return dmeta.EggerResult{}, err
	}
	k := len(kept)
	if k < MinEggerStudies {
		return dmeta.EggerResult{}, core.NewInsufficientStudiesError(k, MinEggerStudies)
	}

	x := make([]float64, k)
	y := make([]float64, k)
	for i, s := range kept {
		x[i] = 1 / s.StandardError
		y[i] = s.Z()
	}
	fk := float64(k)
	xbar := floats.Sum(x) / fk
	ybar := floats.Sum(y) / fk

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - xbar
		sxx += dx * dx
		sxy += dx * (y[i] - ybar)
	}
	if sxx == 0 {
		return dmeta.EggerResult{}, core.NewDegenerateInputError("egger regression: every study has the same precision")
	}
	slope := sxy / sxx
	intercept := ybar - slope*xbar

	var ssr float64
	for i := range x {
		r := y[i] - (intercept + slope*x[i])
		ssr += r * r
	}
	df := k - 2
	s2 := ssr / float64(df)
	se := math.Sqrt(s2 * (1/fk + xbar*xbar/sxx))

	res := dmeta.EggerResult{
		InterceptEstimate: intercept,
		InterceptSE:       se,
		Slope:             slope,
		DF:                df,
		PValue:            1,
	}
	if se > 0 {
		res.TStatistic = intercept / se
		p, err := distribution.StudentTTwoSidedP(res.TStatistic, float64(df))
		if err != nil {
			return dmeta.EggerResult{}, err
		}
		res.PValue = p
	}
	return res, nil
}

// FailSafeN is Rosenthal's count of null studies needed to make the combined
// Stouffer test non-significant: max(0, (ΣZ)²/1.96² - k), rounded down.
func FailSafeN(studies []dmeta.StudySummary) (int, error) {
	kept, err := prepare(studies)
	if err != nil {
		return 0, err
	}
	var sumZ float64
	for _, s := range kept {
		sumZ += s.Z()
	}
	n := sumZ*sumZ/(PredictionZ*PredictionZ) - float64(len(kept))
	if n <= 0 {
		return 0, nil
	}
	return int(math.Floor(n)), nil
}

// PublicationBias runs Egger's test and the fail-safe N together
func PublicationBias(studies []dmeta.StudySummary) (dmeta.PublicationBiasResult, error) {
	egger, err := Egger(studies)
	if err != nil {
		return dmeta.PublicationBiasResult{}, err
	}
	fsn, err := FailSafeN(studies)
	if err != nil {
		return dmeta.PublicationBiasResult{}, err
	}
	return dmeta.PublicationBiasResult{
		InterceptEstimate: egger.InterceptEstimate,
		InterceptSE:       egger.InterceptSE,
		TStatistic:        egger.TStatistic,
		PValue:            egger.PValue,
		FailSafeN:         fsn,
	}, nil
}
