package ingest

import (
	"fmt"
	"math"
	"strings"

	"statlab/domain/meta"
	"statlab/internal/errors"
)

// StudyColumns names the table columns that carry study fields. Only Effect
// and SE are required.
type StudyColumns struct {
	Label   string `json:"label"`
	Effect  string `json:"effect"`
	SE      string `json:"se"`
	N1      string `json:"n1"`
	N2      string `json:"n2"`
	Quality string `json:"quality"`
}

// DefaultStudyColumns matches headers label, effect, se, n1, n2, quality
func DefaultStudyColumns() StudyColumns {
	return StudyColumns{Label: "label", Effect: "effect", SE: "se", N1: "n1", N2: "n2", Quality: "quality"}
}

func numberOrNaN(s string) float64 {
	if v, ok := ParseNumber(s); ok {
		return v
	}
	return math.NaN()
}

func intOrZero(s string) int {
	if v, ok := ParseNumber(s); ok && v >= 0 {
		return int(math.Round(v))
	}
	return 0
}

// Studies builds one study per row. A row whose effect or SE is not numeric
// keeps a NaN there, so the meta-analysis reports it as excluded instead of
// shifting row positions.
func (t *Table) Studies(cols StudyColumns) ([]meta.StudySummary, error) {
	effect := t.ColumnIndex(cols.Effect)
	se := t.ColumnIndex(cols.SE)
	var missing []string
	if effect < 0 {
		missing = append(missing, cols.Effect)
	}
	if se < 0 {
		missing = append(missing, cols.SE)
	}
	if len(missing) > 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("study table lacks column(s) %s", strings.Join(missing, ", ")))
	}
	label := t.ColumnIndex(cols.Label)
	n1 := t.ColumnIndex(cols.N1)
	n2 := t.ColumnIndex(cols.N2)
	quality := t.ColumnIndex(cols.Quality)

	out := make([]meta.StudySummary, 0, len(t.Rows))
	for i, row := range t.Rows {
		name := t.cell(row, label)
		if name == "" {
			name = fmt.Sprintf("row_%d", i+1)
		}
		out = append(out, meta.StudySummary{
			Label:         name,
			Effect:        numberOrNaN(t.cell(row, effect)),
			StandardError: numberOrNaN(t.cell(row, se)),
			N1:            intOrZero(t.cell(row, n1)),
			N2:            intOrZero(t.cell(row, n2)),
			Quality:       intOrZero(t.cell(row, quality)),
		})
	}
	return out, nil
}
