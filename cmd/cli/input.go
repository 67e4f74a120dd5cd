package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"statlab/adapters/ingest"
	"statlab/domain/meta"
	"statlab/internal/errors"
)

// inputFlags selects where a command reads its data from. Positional
// arguments win, then --file, then stdin.
type inputFlags struct {
	file     string
	column   string
	sheet    string
	jsonPath string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read data from a .csv, .xlsx, .json or text file")
	cmd.Flags().StringVar(&f.column, "column", "", "Column holding the values in a CSV/XLSX file (default: first column)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet of an XLSX file (default: first sheet)")
	cmd.Flags().StringVar(&f.jsonPath, "json-path", "", "gjson path to the array inside a JSON file (default: document root)")
}

func fileKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xlsm":
		return "table"
	case ".json":
		return "json"
	}
	return "text"
}

// readSample parses numbers from args, the input file or stdin
func (e *env) readSample(cmd *cobra.Command, f *inputFlags, args []string) ([]float64, error) {
	var parsed ingest.Parsed
	switch {
	case len(args) > 0:
		parsed = ingest.ParseTokens(strings.Join(args, " "))
	case f.file != "":
		var err error
		parsed, err = e.readSampleFile(f)
		if err != nil {
			return nil, err
		}
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "reading stdin")
		}
		parsed = ingest.ParseTokens(string(data))
	}

	if n := len(parsed.Dropped); n > 0 {
		e.logger.Warn("dropped %d non-numeric token(s): %s", n, preview(parsed.Dropped, 5))
	}
	if len(parsed.Values) == 0 {
		return nil, errors.InvalidInput("no numeric values in input")
	}
	return parsed.Values, nil
}

func (e *env) readSampleFile(f *inputFlags) (ingest.Parsed, error) {
	switch fileKind(f.file) {
	case "table":
		table, err := ingest.NewReader(f.file).WithSheet(f.sheet).WithLogger(e.logger).ReadTable()
		if err != nil {
			return ingest.Parsed{}, err
		}
		column := f.column
		if column == "" {
			if column, err = firstColumn(table, f.file); err != nil {
				return ingest.Parsed{}, err
			}
		}
		return table.Column(column)
	case "json":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return ingest.Parsed{}, errors.Wrap(errors.InvalidInput(err.Error()), "reading JSON file")
		}
		return ingest.SampleFromJSON(data, f.jsonPath)
	}
	data, err := os.ReadFile(f.file)
	if err != nil {
		return ingest.Parsed{}, errors.Wrap(errors.InvalidInput(err.Error()), "reading text file")
	}
	return ingest.ParseTokens(string(data)), nil
}

// readStudies loads a study list from a CSV/XLSX table or a JSON array
func (e *env) readStudies(f *inputFlags, cols ingest.StudyColumns) ([]meta.StudySummary, error) {
	if f.file == "" {
		return nil, errors.InvalidInput("meta-analysis needs --file with one study per row")
	}
	switch fileKind(f.file) {
	case "table":
		table, err := ingest.NewReader(f.file).WithSheet(f.sheet).WithLogger(e.logger).ReadTable()
		if err != nil {
			return nil, err
		}
		return table.Studies(cols)
	case "json":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, errors.Wrap(errors.InvalidInput(err.Error()), "reading JSON file")
		}
		return ingest.StudiesFromJSON(data, f.jsonPath)
	}
	return nil, errors.InvalidInput(fmt.Sprintf("cannot read studies from %s: use .csv, .xlsx or .json", f.file))
}

// firstColumn names the default value column. A blank first worksheet row
// parses to no headers at all.
func firstColumn(table *ingest.Table, file string) (string, error) {
	if len(table.Headers) == 0 || table.Headers[0] == "" {
		return "", errors.InvalidInput(fmt.Sprintf("%s has an empty header row; pass --column", file))
	}
	return table.Headers[0], nil
}

func preview(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:limit], ", ") + fmt.Sprintf(" (+%d more)", len(items)-limit)
}
