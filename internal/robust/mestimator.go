package robust

import (
	"math"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
)

// Defaults for the iteratively reweighted M-estimators
const (
	DefaultHuberK       = 1.345
	DefaultBiweightC    = 4.685
	DefaultMidvarianceC = 9.0
	DefaultTolerance    = 1e-6
	DefaultMaxIter      = 100
)

// MEstimate is the outcome of an iteratively reweighted location fit
type MEstimate struct {
	Location   float64 `json:"location"`
	Scale      float64 `json:"scale"` // the MAD the residuals were standardized by
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Degenerate bool    `json:"degenerate"` // MAD was zero, the median was returned
}

// MOptions tunes the IRLS loop. Zero values mean the defaults.
type MOptions struct {
	Tolerance float64
	MaxIter   int
}

func (o MOptions) withDefaults() MOptions {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}

// weightFunc maps a standardized residual onto an IRLS weight
type weightFunc func(z float64) float64

func huberWeight(k float64) weightFunc {
	return func(z float64) float64 {
		az := math.Abs(z)
		if az <= k {
			return 1
		}
		return k / az
	}
}

func biweightWeight(c float64) weightFunc {
	return func(z float64) float64 {
		u := z / c
		if math.Abs(u) > 1 {
			return 0
		}
		v := 1 - u*u
		return v * v
	}
}

// Huber returns the Huber M-estimate of location with tuning constant k,
// starting from the median and standardizing residuals by the normal-scaled
// MAD.
func Huber(x []float64, k float64, opts MOptions) (MEstimate, error) {
	if math.IsNaN(k) || k <= 0 {
		return MEstimate{}, core.NewInvalidParameterError("k", k, "must be > 0")
	}
	return irls(x, "huber", huberWeight(k), opts)
}

// TukeyBiweight returns the Tukey biweight M-estimate of location with
// tuning constant c. Residuals are u = (x - location)/(c·MAD).
func TukeyBiweight(x []float64, c float64, opts MOptions) (MEstimate, error) {
	if math.IsNaN(c) || c <= 0 {
		return MEstimate{}, core.NewInvalidParameterError("c", c, "must be > 0")
	}
	return irls(x, "tukey biweight", biweightWeight(c), opts)
}

func irls(x []float64, name string, weight weightFunc, opts MOptions) (MEstimate, error) {
	if len(x) == 0 {
		return MEstimate{}, core.NewInsufficientDataError(name, 0, 1)
	}
	opts = opts.withDefaults()

	loc, err := stats.Median(x)
	if err != nil {
		return MEstimate{}, err
	}
	scale, err := MAD(x, MADNormalScale)
	if err != nil {
		return MEstimate{}, err
	}
	if scale == 0 {
		return MEstimate{Location: loc, Degenerate: true, Converged: true}, nil
	}

	res := MEstimate{Location: loc, Scale: scale}
	for iter := 1; iter <= opts.MaxIter; iter++ {
		var sw, swx float64
		for _, v := range x {
			w := weight((v - loc) / scale)
			sw += w
			swx += w * v
		}
		res.Iterations = iter
		if sw == 0 {
			// every point rejected; keep the current location
			res.Converged = true
			break
		}
		next := swx / sw
		delta := math.Abs(next - loc)
		loc = next
		if delta < opts.Tolerance {
			res.Converged = true
			break
		}
	}
	res.Location = loc
	return res, nil
}
