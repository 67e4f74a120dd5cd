// Package ci computes confidence intervals for a sample under one of a
// closed set of methods. Every estimation.MethodTag has a handler; the
// table is checked when the package loads.
package ci

import (
	"context"
	"fmt"
	"math"

	"statlab/domain/core"
	"statlab/domain/estimation"
	"statlab/internal/bootstrap"
	"statlab/internal/distribution"
	"statlab/internal/robust"
)

// Options carries the knobs only some methods read
type Options struct {
	// Resamples is the bootstrap replicate count; zero means bootstrap.DefaultResamples
	Resamples int
	// Statistic replaces the mean as the bootstrapped statistic
	Statistic bootstrap.Estimator
	// Source feeds the resampler; nil draws fresh randomness
	Source bootstrap.Source
}

type request struct {
	sample   []float64
	dataType estimation.DataType
	level    float64
	opts     Options
}

type handler func(ctx context.Context, req request) (estimation.EstimationResult, error)

var handlers = map[estimation.MethodTag]handler{
	estimation.MethodNormal:         normalInterval,
	estimation.MethodT:              tInterval,
	estimation.MethodWilson:         wilsonInterval,
	estimation.MethodAgrestiCoull:   agrestiCoullInterval,
	estimation.MethodBootPercentile: bootstrapInterval(bootstrap.KindPercentile),
	estimation.MethodBootBCa:        bootstrapInterval(bootstrap.KindBCa),
}

func init() {
	for _, m := range estimation.AllMethods() {
		if handlers[m] == nil {
			panic(fmt.Sprintf("ci: no handler for method %s", m))
		}
	}
}

// Compute returns the interval for sample at the given confidence level.
// A level of 1 yields infinite normal and t bounds and [0,1] for the
// proportion methods.
func Compute(ctx context.Context, sample []float64, dataType estimation.DataType, method estimation.MethodTag, level float64, opts Options) (estimation.EstimationResult, error) {
	h, ok := handlers[method]
	if !ok {
		return estimation.EstimationResult{}, core.NewUnsupportedMethodError(method.String())
	}
	if err := checkLevel(level); err != nil {
		return estimation.EstimationResult{}, err
	}
	if dataType != estimation.DataContinuous && dataType != estimation.DataProportion {
		return estimation.EstimationResult{}, core.NewUnsupportedMethodError("data type " + string(dataType))
	}
	s, err := estimation.NewSample(sample)
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	return h(ctx, request{sample: s, dataType: dataType, level: level, opts: opts})
}

// ComputeByName is Compute with the method given by name. Unknown names
// fail with core.ErrUnsupportedMethod.
func ComputeByName(ctx context.Context, sample []float64, dataType estimation.DataType, name string, level float64, opts Options) (estimation.EstimationResult, error) {
	method, err := estimation.ParseMethod(name)
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	return Compute(ctx, sample, dataType, method, level, opts)
}

// FromSummary builds a normal or t interval from an already summarized
// estimate. The t interval uses n-1 degrees of freedom.
func FromSummary(estimate, se float64, n int, method estimation.MethodTag, level float64) (estimation.EstimationResult, error) {
	if math.IsNaN(estimate) || math.IsInf(estimate, 0) {
		return estimation.EstimationResult{}, core.NewInvalidParameterError("estimate", estimate, "must be finite")
	}
	if math.IsNaN(se) || math.IsInf(se, 0) || se < 0 {
		return estimation.EstimationResult{}, core.NewInvalidParameterError("standard error", se, "must be finite and >= 0")
	}
	if err := checkLevel(level); err != nil {
		return estimation.EstimationResult{}, err
	}

	var crit float64
	var err error
	switch method {
	case estimation.MethodNormal:
		if n < 1 {
			return estimation.EstimationResult{}, core.NewInsufficientDataError("normal interval", n, 1)
		}
		crit, err = distribution.NormalCritical(level)
	case estimation.MethodT:
		if n < 2 {
			return estimation.EstimationResult{}, core.NewInsufficientDataError("t interval", n, 2)
		}
		crit, err = distribution.TCritical(level, float64(n-1))
	default:
		return estimation.EstimationResult{}, core.NewUnsupportedMethodError(method.String() + " from summary")
	}
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	return symmetric(estimate, se, crit, method, level, n), nil
}

// ProportionFromCounts builds the interval for successes out of trials by
// expanding the counts into 0/1 indicators.
func ProportionFromCounts(ctx context.Context, successes, trials int, method estimation.MethodTag, level float64, opts Options) (estimation.EstimationResult, error) {
	if trials < 1 {
		return estimation.EstimationResult{}, core.NewInsufficientDataError("proportion", trials, 1)
	}
	if successes < 0 || successes > trials {
		return estimation.EstimationResult{}, core.NewInvalidParameterError("successes", float64(successes), fmt.Sprintf("must lie in [0,%d]", trials))
	}
	indicators := make([]float64, trials)
	for i := 0; i < successes; i++ {
		indicators[i] = 1
	}
	return Compute(ctx, indicators, estimation.DataProportion, method, level, opts)
}

func checkLevel(level float64) error {
	if math.IsNaN(level) || level <= 0 || level > 1 {
		return core.NewInvalidParameterError("confidence level", level, "must lie in (0,1]")
	}
	return nil
}

// pointAndSE returns the estimate and its standard error: mean and sd/√n
// for continuous data, p̂ and the Wald error for proportions.
func pointAndSE(req request) (float64, float64, error) {
	n := len(req.sample)
	if n < 2 {
		return 0, 0, core.NewInsufficientDataError("analytic interval", n, 2)
	}
	m, err := robust.Mean(req.sample)
	if err != nil {
		return 0, 0, err
	}
	if req.dataType == estimation.DataProportion {
		return m, waldSE(m, n), nil
	}
	sd, err := robust.StdDev(req.sample)
	if err != nil {
		return 0, 0, err
	}
	return m, sd / math.Sqrt(float64(n)), nil
}

func waldSE(p float64, n int) float64 {
	v := p * (1 - p) / float64(n)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// symmetric is estimate ± crit·se. A zero error collapses the interval even
// when crit is infinite.
func symmetric(estimate, se, crit float64, method estimation.MethodTag, level float64, n int) estimation.EstimationResult {
	margin := 0.0
	if se > 0 {
		margin = crit * se
	}
	return estimation.EstimationResult{
		Estimate:      estimate,
		Lower:         estimate - margin,
		Upper:         estimate + margin,
		Method:        method,
		Level:         level,
		N:             n,
		StandardError: se,
	}
}

func normalInterval(_ context.Context, req request) (estimation.EstimationResult, error) {
	est, se, err := pointAndSE(req)
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	crit, err := distribution.NormalCritical(req.level)
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	return symmetric(est, se, crit, estimation.MethodNormal, req.level, len(req.sample)), nil
}

func tInterval(_ context.Context, req request) (estimation.EstimationResult, error) {
	est, se, err := pointAndSE(req)
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	crit, err := distribution.TCritical(req.level, float64(len(req.sample)-1))
	if err != nil {
		return estimation.EstimationResult{}, err
	}
	return symmetric(est, se, crit, estimation.MethodT, req.level, len(req.sample)), nil
}
