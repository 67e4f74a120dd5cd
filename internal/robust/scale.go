package robust

import (
	"context"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
)

// Consistency constants for the normal distribution
const (
	MADNormalScale = 1.4826
	snConstant     = 1.1926
	qnConstant     = 2.2219
)

// Small-sample correction factors (Croux & Rousseeuw 1992), indexed by n for n <= 9
var (
	snSmallSample = [10]float64{0, 0, 0.743, 1.851, 0.954, 1.351, 0.993, 1.198, 1.005, 1.131}
	qnSmallSample = [10]float64{0, 0, 0.399, 0.994, 0.512, 0.844, 0.611, 0.857, 0.669, 0.872}
)

// MAD returns scale · median(|x_i - median(x)|)
func MAD(x []float64, scale float64) (float64, error) {
	if len(x) == 0 {
		return 0, core.NewInsufficientDataError("mad", 0, 1)
	}
	if math.IsNaN(scale) || scale <= 0 {
		return 0, core.NewInvalidParameterError("scale factor", scale, "must be > 0")
	}
	med, err := stats.Median(x)
	if err != nil {
		return 0, err
	}
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	m, err := stats.Median(dev)
	if err != nil {
		return 0, err
	}
	return scale * m, nil
}

// lowMedian is the order statistic floor((n+1)/2) (1-based) of a sorted slice
func lowMedian(sorted []float64) float64 {
	return sorted[(len(sorted)+1)/2-1]
}

// highMedian is the order statistic floor(n/2)+1 (1-based) of a sorted slice
func highMedian(sorted []float64) float64 {
	return sorted[len(sorted)/2]
}

// Sn returns the Rousseeuw–Croux Sn scale estimator,
// c_n · 1.1926 · lomed_i himed_j |x_i - x_j|. O(n²) time.
func Sn(x []float64) (float64, error) {
	return SnContext(context.Background(), x)
}

// SnContext is Sn checking ctx once per row of distances
func SnContext(ctx context.Context, x []float64) (float64, error) {
	n := len(x)
	if n < 2 {
		return 0, core.NewInsufficientDataError("sn", n, 2)
	}
	inner := make([]float64, n)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for j := 0; j < n; j++ {
			row[j] = math.Abs(x[i] - x[j])
		}
		sort.Float64s(row)
		inner[i] = highMedian(row)
	}
	sort.Float64s(inner)
	return snCorrection(n) * snConstant * lowMedian(inner), nil
}

func snCorrection(n int) float64 {
	if n <= 9 {
		return snSmallSample[n]
	}
	if n%2 == 1 {
		return float64(n) / (float64(n) - 0.9)
	}
	return 1
}

// Qn returns the Rousseeuw–Croux Qn scale estimator,
// d_n · 2.2219 · the k-th order statistic of {|x_i - x_j|, i < j} with
// k = C(h,2), h = floor(n/2)+1. O(n²) time and memory.
func Qn(x []float64) (float64, error) {
	return QnContext(context.Background(), x)
}

// QnContext is Qn checking ctx once per row of distances
func QnContext(ctx context.Context, x []float64) (float64, error) {
	n := len(x)
	if n < 2 {
		return 0, core.NewInsufficientDataError("qn", n, 2)
	}
	diffs := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for j := i + 1; j < n; j++ {
			diffs = append(diffs, math.Abs(x[i]-x[j]))
		}
	}
	sort.Float64s(diffs)
	h := n/2 + 1
	k := h * (h - 1) / 2
	return qnCorrection(n) * qnConstant * diffs[k-1], nil
}

func qnCorrection(n int) float64 {
	if n <= 9 {
		return qnSmallSample[n]
	}
	if n%2 == 1 {
		return float64(n) / (float64(n) + 1.4)
	}
	return float64(n) / (float64(n) + 3.8)
}

// BiweightMidvariance returns the biweight midvariance with tuning constant
// c (9 is conventional), using the unscaled MAD about the median.
func BiweightMidvariance(x []float64, c float64) (float64, error) {
	n := len(x)
	if n < 2 {
		return 0, core.NewInsufficientDataError("biweight midvariance", n, 2)
	}
	if math.IsNaN(c) || c <= 0 {
		return 0, core.NewInvalidParameterError("c", c, "must be > 0")
	}
	med, err := stats.Median(x)
	if err != nil {
		return 0, err
	}
	mad, err := MAD(x, 1)
	if err != nil {
		return 0, err
	}
	if mad == 0 {
		return 0, nil
	}

	var num, den float64
	for _, v := range x {
		u := (v - med) / (c * mad)
		if math.Abs(u) >= 1 {
			continue
		}
		u2 := u * u
		d := v - med
		num += d * d * math.Pow(1-u2, 4)
		den += (1 - u2) * (1 - 5*u2)
	}
	if den == 0 {
		return 0, nil
	}
	return float64(n) * num / (den * den), nil
}
