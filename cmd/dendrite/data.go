package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/dendrite-ml/dendrite/ndarray"
	"github.com/dendrite-ml/dendrite/regression"
)

// dataset is a feature matrix with its targets.
type dataset struct {
	X ndarray.Array // [samples, features]
	Y ndarray.Array // [samples, 1], or one-hot [samples, classes] for softmax
}

// loadCSV loads a dataset from a CSV file.
//
// CSV Format:
//
//	x1,x2,...,target
//	0.5,1.2,...,1
//
// The last column is the target. A first row that does not parse as numbers
// is treated as a header and skipped. For softmax models the target is a
// class label in [0, k) and is expanded to a one-hot row; k is taken from
// the largest label unless classes > 0.
func loadCSV(filename string, kind regression.Kind, classes int) (*dataset, error) {
	rows, err := loadRows(filename)
	if err != nil {
		return nil, err
	}
	return split(rows, kind, classes)
}

// loadFeatures loads a CSV file whose columns are all features.
func loadFeatures(filename string) (ndarray.Array, error) {
	rows, err := loadRows(filename)
	if err != nil {
		return ndarray.Array{}, err
	}
	return ndarray.FromRows(rows)
}

func loadRows(filename string) ([][]float64, error) {
	//nolint:gosec // G304: path comes from the command line
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open data")
	}
	defer func() { _ = file.Close() }()

	return readRows(file)
}

// readRows parses numeric CSV rows, skipping a header row.
func readRows(r io.Reader) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read CSV")
	}

	if len(records) > 0 && !numeric(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.New("CSV file has no data rows")
	}

	rows := make([][]float64, len(records))
	for i, record := range records {
		row, err := parseRow(record)
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", i+1)
		}
		rows[i] = row
	}
	return rows, nil
}

// split separates the last column as the target.
func split(rows [][]float64, kind regression.Kind, classes int) (*dataset, error) {
	cols := len(rows[0])
	if cols < 2 {
		return nil, errors.Errorf("need at least one feature and a target column, got %d columns", cols)
	}

	features := make([][]float64, len(rows))
	targets := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Errorf("row %d: got %d columns, want %d", i+1, len(row), cols)
		}
		features[i] = row[:cols-1]
		targets[i] = row[cols-1]
	}

	x, err := ndarray.FromRows(features)
	if err != nil {
		return nil, err
	}

	if kind != regression.KindSoftmax {
		return &dataset{X: x, Y: ndarray.Column(targets...)}, nil
	}
	y, err := oneHot(targets, classes)
	if err != nil {
		return nil, err
	}
	return &dataset{X: x, Y: y}, nil
}

func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", j+1)
		}
		row[j] = v
	}
	return row, nil
}

func numeric(record []string) bool {
	for _, field := range record {
		if _, err := strconv.ParseFloat(field, 64); err != nil {
			return false
		}
	}
	return true
}

// oneHot expands integer class labels into one-hot rows.
func oneHot(labels []float64, classes int) (ndarray.Array, error) {
	k := classes
	for i, l := range labels {
		if l < 0 || l != float64(int(l)) {
			return ndarray.Array{}, errors.Errorf("row %d: class label %g is not a non-negative integer", i+1, l)
		}
		if classes <= 0 && int(l)+1 > k {
			k = int(l) + 1
		}
		if classes > 0 && int(l) >= classes {
			return ndarray.Array{}, errors.Errorf("row %d: class label %d out of range [0, %d)", i+1, int(l), classes)
		}
	}

	rows := make([][]float64, len(labels))
	for i, l := range labels {
		rows[i] = make([]float64, k)
		rows[i][int(l)] = 1
	}
	return ndarray.FromRows(rows)
}
