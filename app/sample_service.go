package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"statlab/domain/core"
	"statlab/domain/estimation"
	"statlab/internal"
	"statlab/internal/bootstrap"
	"statlab/internal/ci"
	"statlab/internal/outlier"
	"statlab/internal/robust"
	"statlab/ports"
)

// SampleService runs interval estimation, robust summaries and outlier
// screening over one sample
type SampleService struct {
	rngPort    ports.RNGPort
	logger     *internal.Logger
	maxWorkers int
}

// NewSampleService creates a sample service. maxWorkers bounds the number of
// intervals computed at once.
func NewSampleService(rngPort ports.RNGPort, logger *internal.Logger, maxWorkers int) *SampleService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &SampleService{
		rngPort:    rngPort,
		logger:     logger.With("sample"),
		maxWorkers: maxWorkers,
	}
}

// Seeding fixes the random streams of a run. Without HasSeed every stream
// is fresh.
type Seeding struct {
	Seed    int64 `json:"seed"`
	HasSeed bool  `json:"has_seed"`
}

// IntervalRequest asks for intervals over one sample
type IntervalRequest struct {
	Values   []float64
	DataType estimation.DataType
	// Methods to compute; empty means every method
	Methods   []estimation.MethodTag
	Level     float64
	Resamples int
	// Statistic is bootstrapped instead of the mean when set
	Statistic string
	Robust    robust.Options
	Seeding   Seeding
}

// IntervalOutcome is one method's interval or the error it raised
type IntervalOutcome struct {
	Method estimation.MethodTag         `json:"method"`
	Result *estimation.EstimationResult `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
	Err    error                        `json:"-"`
}

// IntervalReport collects every requested interval for one sample
type IntervalReport struct {
	RunID       core.RunID        `json:"run_id"`
	Fingerprint core.Hash         `json:"fingerprint"`
	N           int               `json:"n"`
	Level       float64           `json:"level"`
	Intervals   []IntervalOutcome `json:"intervals"`
	RuntimeMs   int64             `json:"runtime_ms"`
}

// Failed returns the outcomes that ended in an error
func (r *IntervalReport) Failed() []IntervalOutcome {
	var out []IntervalOutcome
	for _, o := range r.Intervals {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

func (s *SampleService) stream(ctx context.Context, name string, seeding Seeding) (*rand.Rand, error) {
	if seeding.HasSeed {
		return s.rngPort.SeededStream(ctx, name, seeding.Seed)
	}
	return s.rngPort.FreshStream(ctx, name)
}

// Intervals computes every requested method concurrently. A method that
// cannot handle the sample (too few points for t, say) records its error in
// its outcome; invalid input and cancellation fail the whole call.
func (s *SampleService) Intervals(ctx context.Context, req IntervalRequest) (*IntervalReport, error) {
	start := time.Now()
	sample, err := estimation.NewSample(req.Values)
	if err != nil {
		return nil, err
	}
	statistic, err := ResolveStatistic(req.Statistic, req.Robust)
	if err != nil {
		return nil, err
	}
	methods := req.Methods
	if len(methods) == 0 {
		methods = estimation.AllMethods()
	}

	report := &IntervalReport{
		RunID: core.NewRunID(),
		Fingerprint: core.ComputeSampleHash(sample, map[string]string{
			"data_type": string(req.DataType),
			"level":     strconv.FormatFloat(req.Level, 'g', -1, 64),
			"statistic": req.Statistic,
		}),
		N:         sample.Len(),
		Level:     req.Level,
		Intervals: make([]IntervalOutcome, len(methods)),
	}
	s.logger.Info("run %s: %d intervals over n=%d (sample %s)", report.RunID, len(methods), report.N, report.Fingerprint.Short())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)
	for i, method := range methods {
		g.Go(func() error {
			opts := ci.Options{Resamples: req.Resamples, Statistic: statistic}
			if method.IsBootstrap() {
				src, err := s.stream(gctx, method.String(), req.Seeding)
				if err != nil {
					return err
				}
				opts.Source = src
			}
			res, err := ci.Compute(gctx, sample, req.DataType, method, req.Level, opts)
			outcome := IntervalOutcome{Method: method}
			switch {
			case err == nil:
				outcome.Result = &res
			case isFatal(err):
				return fmt.Errorf("%s interval: %w", method, err)
			default:
				s.logger.Warn("%s interval skipped: %v", method, err)
				outcome.Error = err.Error()
				outcome.Err = err
			}
			report.Intervals[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.RuntimeMs = time.Since(start).Milliseconds()
	s.logger.Debug("run %s finished in %dms", report.RunID, report.RuntimeMs)
	return report, nil
}

// Distribution returns the sorted bootstrap replicates of a statistic so
// callers can inspect its bias and spread. Resamples <= 0 uses the default.
func (s *SampleService) Distribution(ctx context.Context, values []float64, statistic string, resamples int, opts robust.Options, seeding Seeding) (*bootstrap.Distribution, error) {
	sample, err := estimation.NewSample(values)
	if err != nil {
		return nil, err
	}
	estimator, err := ResolveStatistic(statistic, opts)
	if err != nil {
		return nil, err
	}
	if resamples <= 0 {
		resamples = bootstrap.DefaultResamples
	}
	src, err := s.stream(ctx, "distribution", seeding)
	if err != nil {
		return nil, err
	}
	dist, err := bootstrap.Resample(ctx, sample, estimator, resamples, src)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("distribution of %s: B=%d se=%.4g bias=%.4g", statistic, resamples, dist.StdError, dist.Bias)
	return dist, nil
}

// isFatal separates errors about the request from errors about what one
// method can do with the data
func isFatal(err error) bool {
	return core.IsInvalidParameter(err) || core.IsUnsupportedMethod(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// SampleProfile is the robust summary and outlier screen of a sample
type SampleProfile struct {
	Fingerprint core.Hash           `json:"fingerprint"`
	Summary     *robust.Summary     `json:"summary"`
	Outliers    *outlier.Comparison `json:"outliers,omitempty"`
}

// Profile computes every robust estimator and, for n >= 2, all four outlier
// rules. The two halves run concurrently.
func (s *SampleService) Profile(ctx context.Context, values []float64, opts robust.Options, thresholds outlier.Thresholds) (*SampleProfile, error) {
	sample, err := estimation.NewSample(values)
	if err != nil {
		return nil, err
	}
	profile := &SampleProfile{Fingerprint: core.ComputeSampleHash(sample, nil)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := robust.SummarizeContext(gctx, sample, opts)
		if err != nil {
			return err
		}
		mu.Lock()
		profile.Summary = summary
		mu.Unlock()
		return gctx.Err()
	})
	if sample.Len() >= 2 {
		g.Go(func() error {
			cmp, err := outlier.Compare(sample, thresholds)
			if err != nil {
				return err
			}
			mu.Lock()
			profile.Outliers = cmp
			mu.Unlock()
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if profile.Outliers != nil && len(profile.Outliers.Consensus) > 0 {
		s.logger.Info("sample %s: %d consensus outlier(s) at %v", profile.Fingerprint.Short(), len(profile.Outliers.Consensus), profile.Outliers.Consensus)
	}
	return profile, nil
}
