package app

import (
	"context"
	"strconv"
	"time"

	"statlab/domain/core"
	"statlab/domain/meta"
	"statlab/internal"
	metaengine "statlab/internal/meta"
)

// MetaService runs complete meta-analyses
type MetaService struct {
	logger *internal.Logger
}

// NewMetaService creates a meta-analysis service
func NewMetaService(logger *internal.Logger) *MetaService {
	return &MetaService{logger: logger.With("meta")}
}

// MetaReport wraps a meta-analysis result with run bookkeeping
type MetaReport struct {
	RunID       core.RunID   `json:"run_id"`
	Fingerprint core.Hash    `json:"fingerprint"`
	Result      *meta.Result `json:"result"`
	RuntimeMs   int64        `json:"runtime_ms"`
}

func studiesFingerprint(studies []meta.StudySummary, cfg metaengine.Config) core.Hash {
	values := make([]float64, 0, 2*len(studies))
	for _, s := range studies {
		values = append(values, s.Effect, s.StandardError)
	}
	return core.ComputeSampleHash(values, map[string]string{
		"model":       string(cfg.Model),
		"level":       strconv.FormatFloat(cfg.Level, 'g', -1, 64),
		"min_quality": strconv.Itoa(cfg.MinQuality),
	})
}

// Analyze pools studies under cfg
func (s *MetaService) Analyze(ctx context.Context, studies []meta.StudySummary, cfg metaengine.Config) (*MetaReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	report := &MetaReport{
		RunID:       core.NewRunID(),
		Fingerprint: studiesFingerprint(studies, cfg),
	}

	result, err := metaengine.Analyze(studies, cfg)
	if err != nil {
		s.logger.Warn("run %s: %v", report.RunID, err)
		return nil, err
	}
	report.Result = result
	report.RuntimeMs = time.Since(start).Milliseconds()

	if n := len(result.Excluded); n > 0 {
		s.logger.Info("run %s: excluded %d of %d studies at positions %v", report.RunID, n, len(studies), result.Excluded)
	}
	if result.Bias == nil {
		s.logger.Debug("run %s: publication bias skipped for k=%d", report.RunID, len(result.Studies))
	}
	if !result.Sensitivity.Robust {
		s.logger.Info("run %s: pooled estimate is sensitive to study %q (%.1f%% change)",
			report.RunID, result.Studies[result.Sensitivity.MostInfluential].Label, result.Sensitivity.MaxPercentChange)
	}
	return report, nil
}
