package estimation

import (
	"fmt"
	"math"
	"strings"

	"statlab/domain/core"
)

// ============================================================================
// INPUTS
// ============================================================================

// Sample is an ordered sequence of finite reals. Positions matter: outlier
// reports refer back to them.
type Sample []float64

// NewSample validates that every value is finite and returns an owned copy.
func NewSample(values []float64) (Sample, error) {
	if len(values) == 0 {
		return nil, core.NewInsufficientDataError("sample", 0, 1)
	}
	out := make(Sample, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, core.NewInvalidParameterError(fmt.Sprintf("sample[%d]", i), v, "must be finite")
		}
		out[i] = v
	}
	return out, nil
}

// Len returns the sample size
func (s Sample) Len() int { return len(s) }

// Values returns a copy of the underlying values
func (s Sample) Values() []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

// DataType tells the orchestrator which statistic a sample carries
type DataType string

const (
	DataContinuous DataType = "continuous" // point estimate is the mean
	DataProportion DataType = "proportion" // 0/1 indicators, point estimate is the success rate
)

// ParseDataType parses a data type name
func ParseDataType(s string) (DataType, error) {
	switch DataType(strings.ToLower(strings.TrimSpace(s))) {
	case DataContinuous:
		return DataContinuous, nil
	case DataProportion:
		return DataProportion, nil
	}
	return "", core.NewUnsupportedMethodError("data type " + s)
}

// ============================================================================
// METHOD TAGS
// ============================================================================

// MethodTag identifies how an interval was produced. The set is closed.
type MethodTag int

const (
	MethodNormal MethodTag = iota
	MethodT
	MethodWilson
	MethodAgrestiCoull
	MethodBootPercentile
	MethodBootBCa
	methodCount
)

var methodNames = [methodCount]string{
	MethodNormal:         "normal",
	MethodT:              "t",
	MethodWilson:         "wilson",
	MethodAgrestiCoull:   "agresti_coull",
	MethodBootPercentile: "boot_percentile",
	MethodBootBCa:        "boot_bca",
}

// AllMethods lists every method tag in declaration order
func AllMethods() []MethodTag {
	out := make([]MethodTag, 0, methodCount)
	for m := MethodTag(0); m < methodCount; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is one of the declared tags
func (m MethodTag) Valid() bool {
	return m >= 0 && m < methodCount
}

func (m MethodTag) String() string {
	if !m.Valid() {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methodNames[m]
}

// IsBootstrap reports whether the method consumes random numbers
func (m MethodTag) IsBootstrap() bool {
	return m == MethodBootPercentile || m == MethodBootBCa
}

// ParseMethod maps a method name onto its tag. Names are case-insensitive;
// unknown names fail with ErrUnsupportedMethod.
func ParseMethod(name string) (MethodTag, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for m, n := range methodNames {
		if n == key {
			return MethodTag(m), nil
		}
	}
	return 0, core.NewUnsupportedMethodError(name)
}

// MarshalText implements encoding.TextMarshaler
func (m MethodTag) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, core.NewUnsupportedMethodError(m.String())
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *MethodTag) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ============================================================================
// RESULTS
// ============================================================================

// EstimationResult is a point estimate with its interval.
// INVARIANT: Lower <= Estimate <= Upper except for pathological inputs.
type EstimationResult struct {
	Estimate float64   `json:"estimate"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
	Method   MethodTag `json:"method"`
	Level    float64   `json:"level"`
	N        int       `json:"n"`
	// StandardError is set for the analytic methods and for bootstrap (replicate SD)
	StandardError float64 `json:"standard_error,omitempty"`
}

// Width returns Upper - Lower
func (r EstimationResult) Width() float64 {
	return r.Upper - r.Lower
}

// Contains reports whether v lies inside the closed interval
func (r EstimationResult) Contains(v float64) bool {
	return v >= r.Lower && v <= r.Upper
}

// OutlierMethod names one of the outlier rules
type OutlierMethod string

const (
	OutlierIQR       OutlierMethod = "iqr"
	OutlierMAD       OutlierMethod = "mad"
	OutlierZScore    OutlierMethod = "zscore"
	OutlierModifiedZ OutlierMethod = "modified_z"
)

// OutlierReport lists flagged positions of the originating sample.
// Indices are sorted ascending and unique.
type OutlierReport struct {
	Method     OutlierMethod `json:"method"`
	Threshold  float64       `json:"threshold"`
	Indices    []int         `json:"indices"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"` // 0..100
	// Lower and Upper are the value fences implied by the rule
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// NewOutlierReport fills Count and Percentage from the flagged indices
func NewOutlierReport(method OutlierMethod, threshold float64, indices []int, n int, lower, upper float64) OutlierReport {
	if indices == nil {
		indices = []int{}
	}
	pct := 0.0
	if n > 0 {
		pct = float64(len(indices)) / float64(n) * 100
	}
	return OutlierReport{
		Method:     method,
		Threshold:  threshold,
		Indices:    indices,
		Count:      len(indices),
		Percentage: pct,
		Lower:      lower,
		Upper:      upper,
	}
}

// IsFlagged reports whether position i was flagged
func (r OutlierReport) IsFlagged(i int) bool {
	for _, idx := range r.Indices {
		if idx == i {
			return true
		}
	}
	return false
}
