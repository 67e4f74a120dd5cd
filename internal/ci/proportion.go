package ci

import (
	"context"
	"math"

	"statlab/domain/core"
	"statlab/domain/estimation"
	"statlab/internal/distribution"
	"statlab/internal/robust"
)

// The proportion methods read the sample mean as p̂ without checking that it
// lies in [0,1]. Feeding them anything else gives a well-formed but
// meaningless interval.

func proportion(req request, name string) (p float64, z float64, err error) {
	n := len(req.sample)
	if n < 1 {
		return 0, 0, core.NewInsufficientDataError(name, n, 1)
	}
	p, err = robust.Mean(req.sample)
	if err != nil {
		return 0, 0, err
	}
	z, err = distribution.NormalCritical(req.level)
	return p, z, err
}

func fullRange(p float64, method estimation.MethodTag, n int) estimation.EstimationResult {
	return estimation.EstimationResult{
		Estimate:      p,
		Lower:         0,
		Upper:         1,
		Method:        method,
		Level:         1,
		N:             n,
		StandardError: waldSE(p, n),
	}
}

// wilsonInterval is the score interval
// (p̂ + z²/2n ± z·√(p̂(1-p̂)/n + z²/4n²)) / (1 + z²/n).
func wilsonInterval(_ context.Context, req request) (estimation.EstimationResult, error) {
	p, z, err := proportion(req, "wilson interval")
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	n := float64(len(req.sample))
	if math.IsInf(z, 1) {
		return fullRange(p, estimation.MethodWilson, len(req.sample)), nil
	}

	z2 := z * z
	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	half := z / denom * math.Sqrt(math.Max(0, p*(1-p)/n+z2/(4*n*n)))

	return estimation.EstimationResult{
		Estimate:      p,
		Lower:         center - half,
		Upper:         center + half,
		Method:        estimation.MethodWilson,
		Level:         req.level,
		N:             len(req.sample),
		StandardError: waldSE(p, len(req.sample)),
	}, nil
}

// agrestiCoullInterval adds z²/2 successes and z²/2 failures and applies the
// Wald interval to the adjusted proportion. Bounds are clipped to [0,1].
func agrestiCoullInterval(_ context.Context, req request) (estimation.EstimationResult, error) {
	p, z, err := proportion(req, "agresti-coull interval")
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	n := float64(len(req.sample))
	if math.IsInf(z, 1) {
		return fullRange(p, estimation.MethodAgrestiCoull, len(req.sample)), nil
	}

	z2 := z * z
	nAdj := n + z2
	pAdj := (p*n + z2/2) / nAdj
	half := z * math.Sqrt(math.Max(0, pAdj*(1-pAdj)/nAdj))

	return estimation.EstimationResult{
		Estimate:      p,
		Lower:         math.Max(0, pAdj-half),
		Upper:         math.Min(1, pAdj+half),
		Method:        estimation.MethodAgrestiCoull,
		Level:         req.level,
		N:             len(req.sample),
		StandardError: waldSE(p, len(req.sample)),
	}, nil
}
