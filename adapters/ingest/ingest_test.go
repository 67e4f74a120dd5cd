package ingest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"statlab/internal/errors"
)

func TestParseTokens(t *testing.T) {
	p := ParseTokens("1, 2.5;3 n/a\t-4e1 | NaN  inf 7")
	assert.Equal(t, []float64{1, 2.5, 3, -40, 7}, p.Values)
	assert.Equal(t, []string{"n/a", "NaN", "inf"}, p.Dropped)

	empty := ParseTokens("  ")
	assert.NotNil(t, empty.Values)
	assert.Empty(t, empty.Values)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_CSVColumn(t *testing.T) {
	path := writeCSV(t, "id,Score\n1, 10\n2,missing\n3,12.5\n4\n")
	table, err := NewReader(path).ReadTable()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Score"}, table.Headers)

	col, err := table.Column("score")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 12.5}, col.Values)
	assert.Equal(t, []string{"missing"}, col.Dropped)

	_, err = table.Column("weight")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studies.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"label", "effect", "se", "quality"},
		{"alpha", 0.3, 0.1, 8},
		{"beta", 0.45, 0.15, 6},
		{"gamma", "n/a", 0.2, 5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewReader(path).ReadTable()
	require.NoError(t, err)
	studies, err := table.Studies(DefaultStudyColumns())
	require.NoError(t, err)
	require.Len(t, studies, 3)
	assert.Equal(t, "alpha", studies[0].Label)
	assert.InDelta(t, 0.3, studies[0].Effect, 1e-12)
	assert.InDelta(t, 0.1, studies[0].StandardError, 1e-12)
	assert.Equal(t, 8, studies[0].Quality)
	assert.True(t, math.IsNaN(studies[2].Effect))
	assert.False(t, studies[2].Usable())

	_, err = NewReader(path).WithSheet("Missing").ReadTable()
	assert.Error(t, err)
}

func TestReader_Errors(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv")).ReadTable()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = NewReader(writeCSV(t, "only,header\n")).ReadTable()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	table, err := NewReader(writeCSV(t, "label,effect\na,0.1\n")).ReadTable()
	require.NoError(t, err)
	_, err = table.Studies(DefaultStudyColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "se")
}

func TestSampleFromJSON(t *testing.T) {
	doc := []byte(`{"run": {"values": [1, "2.5", null, "x", 4, {"a": 1}]}}`)
	p, err := SampleFromJSON(doc, "run.values")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 4}, p.Values)
	assert.Len(t, p.Dropped, 3)

	p, err = SampleFromJSON([]byte(`[3, 1, 2]`), "")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, p.Values)

	_, err = SampleFromJSON(doc, "run.missing")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	_, err = SampleFromJSON(doc, "run")
	assert.Error(t, err)
	_, err = SampleFromJSON([]byte(`{broken`), "")
	assert.Error(t, err)
}

func TestStudiesFromJSON(t *testing.T) {
	doc := []byte(`{"studies": [
		{"label": "a", "effect": 0.3, "se": 0.1, "n1": 40, "n2": 42, "quality": 7},
		{"effect": "0.5", "standard_error": 0.2},
		{"label": "c", "effect": null, "se": 0.2}
	]}`)
	studies, err := StudiesFromJSON(doc, "studies")
	require.NoError(t, err)
	require.Len(t, studies, 3)
	assert.Equal(t, 40, studies[0].N1)
	assert.Equal(t, 7, studies[0].Quality)
	assert.Equal(t, "study_2", studies[1].Label)
	assert.InDelta(t, 0.5, studies[1].Effect, 1e-12)
	assert.InDelta(t, 0.2, studies[1].StandardError, 1e-12)
	assert.True(t, math.IsNaN(studies[2].Effect))

	_, err = StudiesFromJSON([]byte(`[1, 2]`), "")
	assert.Error(t, err)
}
