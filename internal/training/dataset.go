// Package training orchestrates dataset validation, the train/test split,
// model fitting, and evaluation, producing a ready-to-serve trained model.
package training

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Required dataset columns.
const (
	ColumnText  = "text"
	ColumnLabel = "label"
)

// RawExample is one dataset row before label validation.
type RawExample struct {
	Text  string
	Label string
}

// RawDataset is a loaded but not yet validated dataset. Columns preserves
// the source header so validation can report exactly what is missing.
type RawDataset struct {
	Columns  []string
	Examples []RawExample
}

// LoadCSV reads a dataset from a CSV file. The file content is taken as-is;
// column and label validation happen in the pipeline's Validate step.
func LoadCSV(path string) (RawDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawDataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f)
}

// ReadCSV parses CSV dataset content from a reader. The first row is the
// header; unknown columns are ignored.
func ReadCSV(r io.Reader) (RawDataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return RawDataset{}, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns := make([]string, len(header))
	textIdx, labelIdx := -1, -1
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		columns[i] = col
		switch col {
		case ColumnText:
			textIdx = i
		case ColumnLabel:
			labelIdx = i
		}
	}

	var examples []RawExample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawDataset{}, fmt.Errorf("failed to read dataset row: %w", err)
		}

		var ex RawExample
		if textIdx >= 0 && textIdx < len(record) {
			ex.Text = record[textIdx]
		}
		if labelIdx >= 0 && labelIdx < len(record) {
			ex.Label = record[labelIdx]
		}
		examples = append(examples, ex)
	}

	return RawDataset{Columns: columns, Examples: examples}, nil
}

// HasColumn reports whether the dataset header contains the named column.
func (d RawDataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}
