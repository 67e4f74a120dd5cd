package app

import (
	"sort"
	"strings"

	"statlab/domain/core"
	"statlab/internal/bootstrap"
	"statlab/internal/robust"
)

// Statistic names accepted for bootstrapping
const (
	StatMean          = "mean"
	StatMedian        = "median"
	StatTrimmedMean   = "trimmed_mean"
	StatWinsorized    = "winsorized_mean"
	StatHodgesLehmann = "hodges_lehmann"
	StatHuber         = "huber"
	StatBiweight      = "tukey_biweight"
)

// ResolveStatistic maps a statistic name onto a bootstrap estimator using
// opts for trim fraction and tuning constants. Empty selects the mean.
func ResolveStatistic(name string, opts robust.Options) (bootstrap.Estimator, error) {
	def := robust.DefaultOptions()
	huberK, biweightC := opts.HuberK, opts.BiweightC
	if huberK <= 0 {
		huberK = def.HuberK
	}
	if biweightC <= 0 {
		biweightC = def.BiweightC
	}

	table := map[string]bootstrap.Estimator{
		StatMean:          robust.Mean,
		StatMedian:        robust.Median,
		StatHodgesLehmann: robust.HodgesLehmann,
		StatTrimmedMean: func(x []float64) (float64, error) {
			return robust.TrimmedMean(x, opts.TrimFraction)
		},
		StatWinsorized: func(x []float64) (float64, error) {
			return robust.WinsorizedMean(x, opts.TrimFraction)
		},
		StatHuber: func(x []float64) (float64, error) {
			m, err := robust.Huber(x, huberK, robust.MOptions{})
			return m.Location, err
		},
		StatBiweight: func(x []float64) (float64, error) {
			m, err := robust.TukeyBiweight(x, biweightC, robust.MOptions{})
			return m.Location, err
		},
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = StatMean
	}
	est, ok := table[key]
	if !ok {
		return nil, core.NewUnsupportedMethodError("statistic " + name)
	}
	return est, nil
}

// StatisticNames lists the names ResolveStatistic accepts, sorted
func StatisticNames() []string {
	names := []string{StatMean, StatMedian, StatTrimmedMean, StatWinsorized, StatHodgesLehmann, StatHuber, StatBiweight}
	sort.Strings(names)
	return names
}
