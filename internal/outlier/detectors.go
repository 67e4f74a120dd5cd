// Package outlier flags unusual observations with four classic rules:
// Tukey's IQR fences, distance from the median in MAD units, the
// Iglewicz–Hoaglin modified z-score, and the classical z-score (kept for
// comparison, it is not robust).
package outlier

import (
	"math"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
	"statlab/domain/estimation"
	"statlab/internal/robust"
)

// Default thresholds per rule
const (
	DefaultIQRMultiplier   = 1.5
	DefaultMADThreshold    = 3.0
	DefaultModifiedZCutoff = 3.5
	DefaultZScoreThreshold = 3.0

	// modifiedZFactor is Φ⁻¹(0.75), making MAD comparable to a standard deviation
	modifiedZFactor = 0.6745
)

func checkThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold <= 0 || math.IsInf(threshold, 0) {
		return core.NewInvalidParameterError("threshold", threshold, "must be a finite value > 0")
	}
	return nil
}

// flag collects the positions outside [lower, upper]
func flag(x []float64, lower, upper float64) []int {
	out := []int{}
	for i, v := range x {
		if v < lower || v > upper {
			out = append(out, i)
		}
	}
	return out
}

// IQR flags x < Q1 - k·IQR or x > Q3 + k·IQR, with quartiles taken as
// Tukey's hinges. Needs n >= 2.
func IQR(x []float64, k float64) (estimation.OutlierReport, error) {
	if err := checkThreshold(k); err != nil {
		return estimation.OutlierReport{}, err
	}
	if len(x) < 2 {
		return estimation.OutlierReport{}, core.NewInsufficientDataError("iqr outliers", len(x), 2)
	}
	q, err := stats.Quartile(x)
	if err != nil {
		return estimation.OutlierReport{}, err
	}
	spread := q.Q3 - q.Q1
	lower, upper := q.Q1-k*spread, q.Q3+k*spread
	return estimation.NewOutlierReport(estimation.OutlierIQR, k, flag(x, lower, upper), len(x), lower, upper), nil
}

// MAD flags |x - median| > threshold · MAD, MAD normal-scaled.
// With MAD = 0 every value different from the median is flagged.
func MAD(x []float64, threshold float64) (estimation.OutlierReport, error) {
	return madRule(x, threshold, robust.MADNormalScale, 1, estimation.OutlierMAD)
}

// ModifiedZ flags |0.6745·(x - median)/MAD| > threshold with the unscaled
// MAD. With MAD = 0 every value different from the median is flagged.
func ModifiedZ(x []float64, threshold float64) (estimation.OutlierReport, error) {
	return madRule(x, threshold, 1, modifiedZFactor, estimation.OutlierModifiedZ)
}

// madRule flags |factor·(x-median)/(scale·MAD)| > threshold, rewritten as a
// fence around the median so a zero MAD never divides.
func madRule(x []float64, threshold, scale, factor float64, method estimation.OutlierMethod) (estimation.OutlierReport, error) {
	if err := checkThreshold(threshold); err != nil {
		return estimation.OutlierReport{}, err
	}
	if len(x) == 0 {
		return estimation.OutlierReport{}, core.NewInsufficientDataError(string(method)+" outliers", 0, 1)
	}
	med, err := robust.Median(x)
	if err != nil {
		return estimation.OutlierReport{}, err
	}
	mad, err := robust.MAD(x, scale)
	if err != nil {
		return estimation.OutlierReport{}, err
	}
	reach := threshold * mad / factor
	out := []int{}
	for i, v := range x {
		if math.Abs(v-med) > reach {
			out = append(out, i)
		}
	}
	return estimation.NewOutlierReport(method, threshold, out, len(x), med-reach, med+reach), nil
}

// ZScore flags |(x - mean)/sd| > threshold with the sample mean and
// standard deviation. A constant sample flags nothing. Needs n >= 2.
func ZScore(x []float64, threshold float64) (estimation.OutlierReport, error) {
	if err := checkThreshold(threshold); err != nil {
		return estimation.OutlierReport{}, err
	}
	if len(x) < 2 {
		return estimation.OutlierReport{}, core.NewInsufficientDataError("zscore outliers", len(x), 2)
	}
	mean, err := stats.Mean(x)
	if err != nil {
		return estimation.OutlierReport{}, err
	}
	sd, err := stats.StandardDeviationSample(x)
	if err != nil {
		return estimation.OutlierReport{}, err
	}
	if sd == 0 {
		return estimation.NewOutlierReport(estimation.OutlierZScore, threshold, nil, len(x), mean, mean), nil
	}
	lower, upper := mean-threshold*sd, mean+threshold*sd
	return estimation.NewOutlierReport(estimation.OutlierZScore, threshold, flag(x, lower, upper), len(x), lower, upper), nil
}
