package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"statlab/internal"
	"statlab/internal/errors"
)

// Table is a header row plus string cells, as read from a sheet
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex finds a header case-insensitively; -1 when absent
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(h, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func (t *Table) cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Column returns the numeric cells of one column
func (t *Table) Column(name string) (Parsed, error) {
	col := t.ColumnIndex(name)
	if col < 0 {
		return Parsed{}, errors.InvalidInput(fmt.Sprintf("column %q not found (have %s)", name, strings.Join(t.Headers, ", ")))
	}
	p := Parsed{Values: make([]float64, 0, len(t.Rows))}
	for _, row := range t.Rows {
		p.add(t.cell(row, col))
	}
	return p, nil
}

// Reader reads CSV and XLSX files into a Table
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewReader creates a reader; the extension selects CSV or XLSX
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// WithSheet selects the worksheet of an XLSX file. The first sheet is used
// by default.
func (r *Reader) WithSheet(sheet string) *Reader {
	r.sheet = sheet
	return r
}

// WithLogger enables debug timing output
func (r *Reader) WithLogger(logger *internal.Logger) *Reader {
	r.logger = logger
	return r
}

func (r *Reader) debugf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(format, args...)
	}
}

// ReadTable reads the whole file. It needs a header row and at least one
// data row.
func (r *Reader) ReadTable() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	start := time.Now()
	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	r.debugf("%s file %s read in %.2fms (%d rows)", strings.ToUpper(r.fileType), r.filePath,
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file must have a header row and at least one data row", strings.ToUpper(r.fileType)))
	}
	return processRows(rows), nil
}

func (r *Reader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("Excel file has no worksheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), fmt.Sprintf("failed to read sheet %s", sheet))
	}
	return rows, nil
}

func (r *Reader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to read CSV file")
	}
	return rows, nil
}

func processRows(rows [][]string) *Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = strings.TrimSpace(c)
		}
		data = append(data, cells)
	}
	return &Table{Headers: headers, Rows: data}
}
