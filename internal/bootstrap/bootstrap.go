// Package bootstrap builds percentile and bias-corrected-and-accelerated
// (BCa) confidence intervals for an arbitrary statistic by resampling with
// replacement.
//
// The random source is injected so runs can be reproduced; a nil source
// falls back to a fresh time-seeded generator.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"statlab/domain/core"
	"statlab/domain/estimation"
)

// Source is the randomness the resampler consumes. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Estimator maps a sample onto the statistic being bootstrapped
type Estimator func(sample []float64) (float64, error)

// Kind selects the interval construction
type Kind string

const (
	KindPercentile Kind = "percentile"
	KindBCa        Kind = "bca"
)

// ParseKind parses an interval kind name
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPercentile:
		return KindPercentile, nil
	case KindBCa:
		return KindBCa, nil
	}
	return "", core.NewUnsupportedMethodError("bootstrap kind " + s)
}

// DefaultResamples is the replicate count used when none is configured
const DefaultResamples = 2000

// checkEvery is how many replicates run between cancellation checks
const checkEvery = 64

// Config parameterizes a bootstrap run
type Config struct {
	Resamples int     `json:"resamples"`
	Alpha     float64 `json:"alpha"` // 1 - confidence level; 0 spans every replicate
	Kind      Kind    `json:"kind"`
}

// Validate checks the configuration domain
func (c Config) Validate() error {
	if c.Resamples < 1 {
		return core.NewInvalidParameterError("resamples", float64(c.Resamples), "must be >= 1")
	}
	if math.IsNaN(c.Alpha) || c.Alpha < 0 || c.Alpha >= 1 {
		return core.NewInvalidParameterError("alpha", c.Alpha, "must lie in [0,1)")
	}
	if c.Kind != KindPercentile && c.Kind != KindBCa {
		return core.NewUnsupportedMethodError("bootstrap kind " + string(c.Kind))
	}
	return nil
}

// Method returns the estimation method tag for the configured kind
func (c Config) Method() estimation.MethodTag {
	if c.Kind == KindBCa {
		return estimation.MethodBootBCa
	}
	return estimation.MethodBootPercentile
}

// NewSource returns a fresh, time-seeded source for interactive use
func NewSource() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Distribution is the sorted bootstrap replicates of a statistic
type Distribution struct {
	Original   float64   `json:"original"`
	Replicates []float64 `json:"replicates"` // sorted ascending
	Mean       float64   `json:"mean"`
	StdError   float64   `json:"std_error"`
	Bias       float64   `json:"bias"` // Mean - Original
}

// Resample draws cfg.Resamples resamples of size n with replacement, applies
// the estimator to each and returns the sorted replicates.
func Resample(ctx context.Context, sample []float64, estimator Estimator, resamples int, src Source) (*Distribution, error) {
	n := len(sample)
	if n == 0 {
		return nil, core.NewInsufficientDataError("bootstrap", 0, 1)
	}
	if resamples < 1 {
		return nil, core.NewInvalidParameterError("resamples", float64(resamples), "must be >= 1")
	}
	if estimator == nil {
		return nil, core.NewInvalidParameterError("estimator", math.NaN(), "must not be nil")
	}
	if src == nil {
		src = NewSource()
	}

	original, err := estimator(sample)
	if err != nil {
		return nil, fmt.Errorf("estimator on original sample: %w", err)
	}

	buf := make([]float64, n)
	reps := make([]float64, resamples)
	for b := 0; b < resamples; b++ {
		if b%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("bootstrap cancelled after %d of %d resamples: %w", b, resamples, err)
			}
		}
		for i := range buf {
			buf[i] = sample[src.Intn(n)]
		}
		v, err := estimator(buf)
		if err != nil {
			return nil, fmt.Errorf("estimator on resample %d: %w", b, err)
		}
		reps[b] = v
	}
	sort.Float64s(reps)

	var sum float64
	for _, v := range reps {
		sum += v
	}
	mean := sum / float64(resamples)
	var ss float64
	for _, v := range reps {
		ss += (v - mean) * (v - mean)
	}
	se := 0.0
	if resamples > 1 {
		se = math.Sqrt(ss / float64(resamples-1))
	}

	return &Distribution{
		Original:   original,
		Replicates: reps,
		Mean:       mean,
		StdError:   se,
		Bias:       mean - original,
	}, nil
}

// CI returns the bootstrap interval of the configured kind. The point
// estimate is the estimator applied to the full sample.
func CI(ctx context.Context, sample []float64, estimator Estimator, cfg Config, src Source) (estimation.EstimationResult, error) {
	if err := cfg.Validate(); err != nil {
		return estimation.EstimationResult{}, err
	}
	if cfg.Kind == KindBCa && len(sample) < 2 {
		return estimation.EstimationResult{}, core.NewInsufficientDataError("bca bootstrap", len(sample), 2)
	}

	dist, err := Resample(ctx, sample, estimator, cfg.Resamples, src)
	if err != nil {
		return estimation.EstimationResult{}, err
	}

	var lo, hi int
	switch cfg.Kind {
	case KindPercentile:
		lo, hi = percentileIndices(cfg.Resamples, cfg.Alpha)
	case KindBCa:
		lo, hi, err = bcaIndices(ctx, sample, estimator, dist, cfg.Alpha)
		if err != nil {
			return estimation.EstimationResult{}, err
		}
	}

	return estimation.EstimationResult{
		Estimate:      dist.Original,
		Lower:         dist.Replicates[lo],
		Upper:         dist.Replicates[hi],
		Method:        cfg.Method(),
		Level:         1 - cfg.Alpha,
		N:             len(sample),
		StandardError: dist.StdError,
	}, nil
}

func clampIndex(i, b int) int {
	if i < 0 {
		return 0
	}
	if i > b-1 {
		return b - 1
	}
	return i
}

// percentileIndices are the ⌊B·α/2⌋-th and ⌊B·(1-α/2)⌋-th order statistics
func percentileIndices(b int, alpha float64) (int, int) {
	lo := int(math.Floor(float64(b) * alpha / 2))
	hi := int(math.Floor(float64(b) * (1 - alpha/2)))
	return clampIndex(lo, b), clampIndex(hi, b)
}
