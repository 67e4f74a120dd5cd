package robust

import (
	"context"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"statlab/domain/core"
)

// Mean returns the arithmetic mean
func Mean(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, core.NewInsufficientDataError("mean", 0, 1)
	}
	return stats.Mean(x)
}

// Median returns the order-statistic median, averaging the two middle values
// when n is even.
func Median(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, core.NewInsufficientDataError("median", 0, 1)
	}
	return stats.Median(x)
}

// StdDev returns the sample standard deviation (n-1 denominator)
func StdDev(x []float64) (float64, error) {
	if len(x) < 2 {
		return 0, core.NewInsufficientDataError("standard deviation", len(x), 2)
	}
	return stats.StandardDeviationSample(x)
}

func sortedCopy(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	sort.Float64s(out)
	return out
}

func checkTrimFraction(fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 0.5 {
		return core.NewInvalidParameterError("trim fraction", fraction, "must lie in [0,0.5)")
	}
	return nil
}

// TrimCount is the number of observations cut from each tail: floor(n·fraction)
func TrimCount(n int, fraction float64) int {
	return int(math.Floor(float64(n) * fraction))
}

// TrimmedMean sorts the sample, drops floor(n·fraction) values from each tail
// and averages the rest. fraction 0 gives the arithmetic mean.
func TrimmedMean(x []float64, fraction float64) (float64, error) {
	if err := checkTrimFraction(fraction); err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, core.NewInsufficientDataError("trimmed mean", 0, 1)
	}
	sorted := sortedCopy(x)
	g := TrimCount(len(sorted), fraction)
	return stats.Mean(sorted[g : len(sorted)-g])
}

// WinsorizedMean replaces the floor(n·fraction) most extreme values in each
// tail with the nearest retained value and averages the result.
func WinsorizedMean(x []float64, fraction float64) (float64, error) {
	w, err := Winsorize(x, fraction)
	if err != nil {
		return 0, err
	}
	return stats.Mean(w)
}

// Winsorize returns the sorted, winsorized copy of x
func Winsorize(x []float64, fraction float64) ([]float64, error) {
	if err := checkTrimFraction(fraction); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, core.NewInsufficientDataError("winsorized mean", 0, 1)
	}
	sorted := sortedCopy(x)
	n := len(sorted)
	g := TrimCount(n, fraction)
	lo, hi := sorted[g], sorted[n-1-g]
	for i := 0; i < g; i++ {
		sorted[i] = lo
		sorted[n-1-i] = hi
	}
	return sorted, nil
}

// HodgesLehmann returns the median of the n(n+1)/2 Walsh averages
// (x_i + x_j)/2, i <= j. Time and memory are O(n²).
func HodgesLehmann(x []float64) (float64, error) {
	return HodgesLehmannContext(context.Background(), x)
}

// HodgesLehmannContext is HodgesLehmann checking ctx once per row of Walsh
// averages.
func HodgesLehmannContext(ctx context.Context, x []float64) (float64, error) {
	n := len(x)
	if n == 0 {
		return 0, core.NewInsufficientDataError("hodges-lehmann", 0, 1)
	}
	walsh := make([]float64, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for j := i; j < n; j++ {
			walsh = append(walsh, (x[i]+x[j])/2)
		}
	}
	return stats.Median(walsh)
}
