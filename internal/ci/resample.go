package ci

import (
	"context"

	"statlab/domain/estimation"
	"statlab/internal/bootstrap"
	"statlab/internal/robust"
)

func bootstrapInterval(kind bootstrap.Kind) handler {
	return func(ctx context.Context, req request) (estimation.EstimationResult, error) {
		statistic := req.opts.Statistic
		if statistic == nil {
			// the mean is also p̂ for 0/1 proportion data
			statistic = robust.Mean
		}
		resamples := req.opts.Resamples
		if resamples == 0 {
			resamples = bootstrap.DefaultResamples
		}
		cfg := bootstrap.Config{
			Resamples: resamples,
			Alpha:     1 - req.level,
			Kind:      kind,
		}
		res, err := bootstrap.CI(ctx, req.sample, statistic, cfg, req.opts.Source)
		if err != nil {
			return estimation.EstimationResult{}, err
		}
		res.Level = req.level
		return res, nil
	}
}
