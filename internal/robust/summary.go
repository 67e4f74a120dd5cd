package robust

import (
	"context"
	"fmt"
)

// Options configures Summarize. Zero values mean the conventional defaults.
type Options struct {
	TrimFraction float64 `json:"trim_fraction"`
	HuberK       float64 `json:"huber_k"`
	BiweightC    float64 `json:"biweight_c"`
	MidvarianceC float64 `json:"midvariance_c"`
	MADScale     float64 `json:"mad_scale"`
}

// DefaultOptions returns a 20% trim and the standard tuning constants
func DefaultOptions() Options {
	return Options{
		TrimFraction: 0.2,
		HuberK:       DefaultHuberK,
		BiweightC:    DefaultBiweightC,
		MidvarianceC: DefaultMidvarianceC,
		MADScale:     MADNormalScale,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HuberK <= 0 {
		o.HuberK = d.HuberK
	}
	if o.BiweightC <= 0 {
		o.BiweightC = d.BiweightC
	}
	if o.MidvarianceC <= 0 {
		o.MidvarianceC = d.MidvarianceC
	}
	if o.MADScale <= 0 {
		o.MADScale = d.MADScale
	}
	return o
}

// Location groups the location estimates of one sample
type Location struct {
	Mean           float64   `json:"mean"`
	Median         float64   `json:"median"`
	TrimmedMean    float64   `json:"trimmed_mean"`
	WinsorizedMean float64   `json:"winsorized_mean"`
	HodgesLehmann  float64   `json:"hodges_lehmann"`
	Huber          MEstimate `json:"huber"`
	TukeyBiweight  MEstimate `json:"tukey_biweight"`
}

// Scale groups the scale estimates of one sample. Fields that need n >= 2
// are zero for a single observation.
type Scale struct {
	StdDev              float64 `json:"std_dev"`
	MAD                 float64 `json:"mad"`
	Sn                  float64 `json:"sn"`
	Qn                  float64 `json:"qn"`
	BiweightMidvariance float64 `json:"biweight_midvariance"`
}

// Summary is every location and scale estimate for one sample
type Summary struct {
	N        int      `json:"n"`
	Location Location `json:"location"`
	Scale    Scale    `json:"scale"`
	Options  Options  `json:"options"`
}

// Summarize computes all estimators on x in one call
func Summarize(x []float64, opts Options) (*Summary, error) {
	return SummarizeContext(context.Background(), x, opts)
}

// SummarizeContext is Summarize with the O(n²) estimators stopping once ctx
// is done
func SummarizeContext(ctx context.Context, x []float64, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	s := &Summary{N: len(x), Options: opts}

	var err error
	loc := &s.Location
	steps := []struct {
		name string
		run  func() error
	}{
		{"mean", func() (e error) { loc.Mean, e = Mean(x); return }},
		{"median", func() (e error) { loc.Median, e = Median(x); return }},
		{"trimmed mean", func() (e error) { loc.TrimmedMean, e = TrimmedMean(x, opts.TrimFraction); return }},
		{"winsorized mean", func() (e error) { loc.WinsorizedMean, e = WinsorizedMean(x, opts.TrimFraction); return }},
		{"hodges-lehmann", func() (e error) { loc.HodgesLehmann, e = HodgesLehmannContext(ctx, x); return }},
		{"huber", func() (e error) { loc.Huber, e = Huber(x, opts.HuberK, MOptions{}); return }},
		{"tukey biweight", func() (e error) { loc.TukeyBiweight, e = TukeyBiweight(x, opts.BiweightC, MOptions{}); return }},
		{"mad", func() (e error) { s.Scale.MAD, e = MAD(x, opts.MADScale); return }},
	}
	for _, step := range steps {
		if err = step.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if len(x) < 2 {
		return s, nil
	}
	pairwise := []struct {
		name string
		run  func() error
	}{
		{"std dev", func() (e error) { s.Scale.StdDev, e = StdDev(x); return }},
		{"sn", func() (e error) { s.Scale.Sn, e = SnContext(ctx, x); return }},
		{"qn", func() (e error) { s.Scale.Qn, e = QnContext(ctx, x); return }},
		{"biweight midvariance", func() (e error) {
			s.Scale.BiweightMidvariance, e = BiweightMidvariance(x, opts.MidvarianceC)
			return
		}},
	}
	for _, step := range pairwise {
		if err = step.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return s, nil
}
