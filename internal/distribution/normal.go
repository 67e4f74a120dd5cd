package distribution

import (
	"math"

	"statlab/domain/core"
)

// Abramowitz & Stegun 7.1.26, |error| <= 1.5e-7
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

// Beasley–Springer–Moro coefficients
var (
	bsmA = [4]float64{2.50662823884, -18.61500062529, 41.39119773534, -25.44106049637}
	bsmB = [4]float64{-8.47351093090, 23.08336743743, -21.06224101826, 3.13082909833}
	bsmC = [9]float64{
		0.3374754822726147, 0.9761690190917186, 0.1607979714918209,
		0.0276438810333863, 0.0038405729373609, 0.0003951896511919,
		0.0000321767881768, 0.0000002888167364, 0.0000003960315187,
	}
)

// centralBranch is the |p-0.5| bound below which the rational form is used
const centralBranch = 0.42

// erf approximates the error function for x >= 0
func erf(x float64) float64 {
	t := 1 / (1 + erfP*x)
	poly := t * (erfA1 + t*(erfA2+t*(erfA3+t*(erfA4+t*erfA5))))
	return 1 - poly*math.Exp(-x*x)
}

// NormalCDF returns P(Z <= z) for a standard normal Z.
// The upper tail is computed and reflected so NormalCDF(-z) == 1-NormalCDF(z).
func NormalCDF(z float64) (float64, error) {
	if math.IsNaN(z) {
		return 0, core.NewInvalidParameterError("z", z, "must not be NaN")
	}
	if math.IsInf(z, 1) {
		return 1, nil
	}
	if math.IsInf(z, -1) {
		return 0, nil
	}
	upper := 0.5 * (1 - erf(math.Abs(z)/math.Sqrt2))
	if z >= 0 {
		return 1 - upper, nil
	}
	return upper, nil
}

// InvNormalCDF returns the standard normal quantile of p, p in (0,1).
func InvNormalCDF(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, core.NewInvalidParameterError("p", p, "must lie in (0,1)")
	}

	y := p - 0.5
	if math.Abs(y) < centralBranch {
		r := y * y
		num := y * (((bsmA[3]*r+bsmA[2])*r+bsmA[1])*r + bsmA[0])
		den := (((bsmB[3]*r+bsmB[2])*r+bsmB[1])*r+bsmB[0])*r + 1
		return num / den, nil
	}

	r := p
	if y > 0 {
		r = 1 - p
	}
	r = math.Log(-math.Log(r))
	x := bsmC[8]
	for i := 7; i >= 0; i-- {
		x = x*r + bsmC[i]
	}
	if y < 0 {
		x = -x
	}
	return x, nil
}

// NormalTwoSidedP returns 2·P(Z >= |z|)
func NormalTwoSidedP(z float64) (float64, error) {
	c, err := NormalCDF(math.Abs(z))
	if err != nil {
		return 0, err
	}
	return clampProbability(2 * (1 - c)), nil
}

// NormalCritical returns the two-sided critical value for a confidence
// level in (0,1]. Level 1 yields +Inf.
func NormalCritical(level float64) (float64, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	if level == 1 {
		return math.Inf(1), nil
	}
	return InvNormalCDF(1 - (1-level)/2)
}

func checkLevel(level float64) error {
	if math.IsNaN(level) || level <= 0 || level > 1 {
		return core.NewInvalidParameterError("confidence level", level, "must lie in (0,1]")
	}
	return nil
}

func clampProbability(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
