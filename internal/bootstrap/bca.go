package bootstrap

import (
	"context"
	"fmt"
	"math"

	"statlab/domain/core"
	"statlab/internal/distribution"
)

// BCaParams are the bias-correction and acceleration of a BCa interval
type BCaParams struct {
	Z0           float64 `json:"z0"`
	Acceleration float64 `json:"acceleration"`
}

// Jackknife returns the n leave-one-out estimates of the statistic
func Jackknife(ctx context.Context, sample []float64, estimator Estimator) ([]float64, error) {
	n := len(sample)
	if n < 2 {
		return nil, core.NewInsufficientDataError("jackknife", n, 2)
	}
	buf := make([]float64, n-1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("jackknife cancelled: %w", err)
			}
		}
		copy(buf, sample[:i])
		copy(buf[i:], sample[i+1:])
		v, err := estimator(buf)
		if err != nil {
			return nil, fmt.Errorf("estimator without observation %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Acceleration is the jackknife skewness ratio
// Σ(θ̄ - θ_i)³ / (6·[Σ(θ̄ - θ_i)²]^{3/2}); zero when the jackknife has no spread.
func Acceleration(jack []float64) float64 {
	var mean float64
	for _, v := range jack {
		mean += v
	}
	mean /= float64(len(jack))

	var num, den float64
	for _, v := range jack {
		d := mean - v
		num += d * d * d
		den += d * d
	}
	if den == 0 {
		return 0
	}
	return num / (6 * math.Pow(den, 1.5))
}

// BiasCorrection is z0 = Φ⁻¹(#{θ* < θ̂}/B). The proportion is kept inside
// [1/(2B), 1-1/(2B)] so it stays finite when every replicate falls on one
// side, as it does for a constant sample.
func BiasCorrection(sorted []float64, original float64) (float64, error) {
	b := float64(len(sorted))
	below := 0
	for _, v := range sorted {
		if v < original {
			below++
		}
	}
	prop := float64(below) / b
	floor := 1 / (2 * b)
	prop = math.Max(floor, math.Min(1-floor, prop))
	return distribution.InvNormalCDF(prop)
}

// Params computes z0 and the acceleration for a bootstrap distribution
func Params(ctx context.Context, sample []float64, estimator Estimator, dist *Distribution) (BCaParams, error) {
	z0, err := BiasCorrection(dist.Replicates, dist.Original)
	if err != nil {
		return BCaParams{}, err
	}
	jack, err := Jackknife(ctx, sample, estimator)
	if err != nil {
		return BCaParams{}, err
	}
	return BCaParams{Z0: z0, Acceleration: Acceleration(jack)}, nil
}

// adjust maps a normal quantile z onto the BCa-adjusted percentile
// Φ(z0 + (z0+z)/(1 - a(z0+z))). A non-positive denominator sends the
// percentile to the extreme on z's side.
func adjust(p BCaParams, z float64) (float64, error) {
	s := p.Z0 + z
	den := 1 - p.Acceleration*s
	if den <= 0 {
		if z < 0 {
			return 0, nil
		}
		return 1, nil
	}
	return distribution.NormalCDF(p.Z0 + s/den)
}

func bcaIndices(ctx context.Context, sample []float64, estimator Estimator, dist *Distribution, alpha float64) (int, int, error) {
	b := len(dist.Replicates)
	if alpha == 0 {
		return 0, b - 1, nil
	}
	params, err := Params(ctx, sample, estimator, dist)
	if err != nil {
		return 0, 0, err
	}
	zLo, err := distribution.InvNormalCDF(alpha / 2)
	if err != nil {
		return 0, 0, err
	}
	zHi, err := distribution.InvNormalCDF(1 - alpha/2)
	if err != nil {
		return 0, 0, err
	}
	a1, err := adjust(params, zLo)
	if err != nil {
		return 0, 0, err
	}
	a2, err := adjust(params, zHi)
	if err != nil {
		return 0, 0, err
	}

	lo := clampIndex(int(math.Floor(float64(b)*a1)), b)
	hi := clampIndex(int(math.Floor(float64(b)*a2)), b)
	return lo, hi, nil
}
