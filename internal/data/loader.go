package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Loader is a configurable CSV data loader.
//
// The default configuration treats the first row as a header, skipping
// it, and uses ',' as the field delimiter.
type Loader struct {
	hasHeaders bool
	delimiter  rune
}

// NewLoader creates a loader with the default configuration.
func NewLoader() *Loader {
	return &Loader{hasHeaders: true, delimiter: ','}
}

// WithoutHeaders configures the loader to parse the first row as data.
func (l *Loader) WithoutHeaders() *Loader {
	l.hasHeaders = false
	return l
}

// WithDelimiter specifies the field delimiter character.
func (l *Loader) WithDelimiter(delimiter rune) *Loader {
	l.delimiter = delimiter
	return l
}

// WithLabels specifies the columns holding the labels, turning the
// loader into a labeled one. Panics if cols is empty or contains
// duplicates.
func (l *Loader) WithLabels(cols ...int) *LabeledLoader {
	if len(cols) == 0 {
		panic("data: no label columns provided")
	}
	sorted := append([]int(nil), cols...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			panic(fmt.Sprintf("data: duplicate label column %d", sorted[i]))
		}
	}
	return &LabeledLoader{loader: *l, labels: sorted}
}

// FromCSV loads a dataset from a CSV file. recordShape is the shape of
// one record; the resulting dataset is shaped [rows, recordShape...].
func (l *Loader) FromCSV(path string, recordShape tensor.Shape) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return l.FromReader(f, recordShape)
}

// FromReader loads a dataset from a CSV stream.
func (l *Loader) FromReader(r io.Reader, recordShape tensor.Shape) (*Dataset, error) {
	size := recordShape.NumElements()
	if size == 0 {
		return nil, fmt.Errorf("cannot handle empty records: shape %v", recordShape)
	}

	rows, values, err := l.parse(r, size)
	if err != nil {
		return nil, err
	}

	shape := append(tensor.Shape{rows}, recordShape...)
	buf, err := tensor.FromSlice(values, shape)
	if err != nil {
		return nil, err
	}
	return newDataset(buf), nil
}

// parse reads every row, converting each field to float32. Each row must
// hold exactly rowSize fields.
func (l *Loader) parse(r io.Reader, rowSize int) (int, []float32, error) {
	cr := csv.NewReader(r)
	cr.Comma = l.delimiter
	cr.FieldsPerRecord = rowSize

	rows := 0
	var values []float32
	skip := l.hasHeaders
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, fmt.Errorf("read record %d: %w", rows, err)
		}
		if skip {
			skip = false
			continue
		}
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return 0, nil, fmt.Errorf("record %d: %w", rows, err)
			}
			values = append(values, float32(v))
		}
		rows++
	}
	return rows, values, nil
}
