package distribution

import (
	"math"

	"gonum.org/v1/gonum/mathext"

	"statlab/domain/core"
)

// GammaCDF returns P(X <= x) for a gamma distribution with the given shape
// and scale.
func GammaCDF(x, shape, scale float64) (float64, error) {
	if math.IsNaN(shape) || shape <= 0 {
		return 0, core.NewInvalidParameterError("shape", shape, "must be > 0")
	}
	if math.IsNaN(scale) || scale <= 0 {
		return 0, core.NewInvalidParameterError("scale", scale, "must be > 0")
	}
	if math.IsNaN(x) || x < 0 {
		return 0, core.NewInvalidParameterError("x", x, "must be >= 0")
	}
	if x == 0 {
		return 0, nil
	}
	if math.IsInf(x, 1) {
		return 1, nil
	}
	return clampProbability(mathext.GammaIncReg(shape, x/scale)), nil
}

// ChiSquareCDF returns P(X <= x) for a chi-square distribution with df
// degrees of freedom.
func ChiSquareCDF(x, df float64) (float64, error) {
	if math.IsNaN(df) || df <= 0 {
		return 0, core.NewInvalidParameterError("df", df, "must be > 0")
	}
	return GammaCDF(x, df/2, 2)
}

// ChiSquareSurvival returns 1 - ChiSquareCDF(x, df), the upper-tail p-value
func ChiSquareSurvival(x, df float64) (float64, error) {
	c, err := ChiSquareCDF(x, df)
	if err != nil {
		return 0, err
	}
	return clampProbability(1 - c), nil
}

// BetaCDF returns the regularized incomplete beta I_x(a, b) for x in [0,1]
func BetaCDF(x, a, b float64) (float64, error) {
	if math.IsNaN(a) || a <= 0 {
		return 0, core.NewInvalidParameterError("a", a, "must be > 0")
	}
	if math.IsNaN(b) || b <= 0 {
		return 0, core.NewInvalidParameterError("b", b, "must be > 0")
	}
	if math.IsNaN(x) || x < 0 || x > 1 {
		return 0, core.NewInvalidParameterError("x", x, "must lie in [0,1]")
	}
	switch x {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	}
	return clampProbability(mathext.RegIncBeta(a, b, x)), nil
}
