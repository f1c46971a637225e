package data

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// LabeledLoader is a CSV loader that routes a fixed set of columns into
// a label buffer and the rest into the record buffer.
type LabeledLoader struct {
	loader Loader
	labels []int // sorted
}

// WithoutHeaders configures the loader to parse the first row as data.
func (l *LabeledLoader) WithoutHeaders() *LabeledLoader {
	l.loader.WithoutHeaders()
	return l
}

// WithDelimiter specifies the field delimiter character.
func (l *LabeledLoader) WithDelimiter(delimiter rune) *LabeledLoader {
	l.loader.WithDelimiter(delimiter)
	return l
}

// FromCSV loads a labeled dataset from a CSV file. recordShape is the
// shape of one record, not counting the label columns.
func (l *LabeledLoader) FromCSV(path string, recordShape tensor.Shape) (*LabeledDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return l.FromReader(f, recordShape)
}

// FromReader loads a labeled dataset from a CSV stream. Each row must
// hold the record fields plus one field per label column.
func (l *LabeledLoader) FromReader(r io.Reader, recordShape tensor.Shape) (*LabeledDataset, error) {
	size := recordShape.NumElements()
	if size == 0 {
		return nil, fmt.Errorf("cannot handle empty records: shape %v", recordShape)
	}
	if max := l.labels[len(l.labels)-1]; max >= size+len(l.labels) {
		return nil, fmt.Errorf("label column %d out of range for %d-field rows", max, size+len(l.labels))
	}

	rows, values, err := l.loader.parse(r, size+len(l.labels))
	if err != nil {
		return nil, err
	}

	records := make([]float32, 0, rows*size)
	labels := make([]float32, 0, rows*len(l.labels))
	width := size + len(l.labels)
	for row := 0; row < rows; row++ {
		for col, v := range values[row*width : (row+1)*width] {
			idx := sort.SearchInts(l.labels, col)
			if idx < len(l.labels) && l.labels[idx] == col {
				labels = append(labels, v)
			} else {
				records = append(records, v)
			}
		}
	}

	recordBuf, err := tensor.FromSlice(records, append(tensor.Shape{rows}, recordShape...))
	if err != nil {
		return nil, err
	}
	labelBuf, err := tensor.FromSlice(labels, tensor.Shape{rows, len(l.labels)})
	if err != nil {
		return nil, err
	}
	return NewLabeledDataset(recordBuf, labelBuf), nil
}

// LabeledDataset pairs a record buffer with a label buffer. Row i of
// the labels belongs to row i of the records, and every operation keeps
// the two in lockstep.
type LabeledDataset struct {
	records *Dataset
	labels  *Dataset
}

// NewLabeledDataset pairs records with labels. Panics unless the two
// buffers agree on the number of rows.
func NewLabeledDataset(records, labels *tensor.Buffer) *LabeledDataset {
	r, l := FromBuffer(records), FromBuffer(labels)
	if r.Len() != l.Len() {
		panic(fmt.Sprintf("data: %d records but %d labels", r.Len(), l.Len()))
	}
	return &LabeledDataset{records: r, labels: l}
}

// Records returns the record buffer, shaped [n, record...].
func (d *LabeledDataset) Records() *tensor.Buffer {
	return d.records.Records()
}

// Labels returns the label buffer, shaped [n, labels...].
func (d *LabeledDataset) Labels() *tensor.Buffer {
	return d.labels.Records()
}

// Len returns the number of record/label pairs.
func (d *LabeledDataset) Len() int {
	return d.records.Len()
}

// IsEmpty reports whether the dataset holds no pairs.
func (d *LabeledDataset) IsEmpty() bool {
	return d.Len() == 0
}

// Shuffle permutes the pairs in place, applying the identical
// permutation to records and labels, and returns the dataset for
// chaining.
func (d *LabeledDataset) Shuffle(rng *rand.Rand) *LabeledDataset {
	perm := shuffleRows(d.records.Records().Data(), d.Len(), d.records.recordSize(), rng)
	permuteRows(d.labels.Records().Data(), d.labels.recordSize(), perm)
	return d
}

// permuteRows reorders rows so that destination row i holds source row
// perm[i].
func permuteRows(data []float32, rowSize int, perm []int) {
	src := append([]float32(nil), data...)
	for i, p := range perm {
		copy(data[i*rowSize:(i+1)*rowSize], src[p*rowSize:(p+1)*rowSize])
	}
}

// Split partitions the dataset into non-overlapping labeled datasets of
// the given lengths. Panics unless the lengths cover the whole dataset.
func (d *LabeledDataset) Split(lengths ...int) []*LabeledDataset {
	records := d.records.Split(lengths...)
	labels := d.labels.Split(lengths...)
	out := make([]*LabeledDataset, len(lengths))
	for i := range out {
		out[i] = &LabeledDataset{records: records[i], labels: labels[i]}
	}
	return out
}

// KFold constructs a k-fold iterator over the pairs. Panics if k < 2.
func (d *LabeledDataset) KFold(k int) *LabeledKFold {
	return &LabeledKFold{records: d.records.KFold(k), labels: d.labels.KFold(k)}
}

// Batch divides the dataset into batches of the given size. The last
// batch may be smaller unless DropLast is set.
func (d *LabeledDataset) Batch(size int) *LabeledBatch {
	return &LabeledBatch{records: d.records.Batch(size), labels: d.labels.Batch(size)}
}

// LabeledKFold iterates over the (train, validation) splits of a
// labeled dataset.
type LabeledKFold struct {
	records *KFold
	labels  *KFold
}

// Next returns the next split. ok is false after the k-th fold.
func (f *LabeledKFold) Next() (train, validation *LabeledDataset, ok bool) {
	rt, rv, ok := f.records.Next()
	if !ok {
		return nil, nil, false
	}
	lt, lv, _ := f.labels.Next()
	return &LabeledDataset{records: rt, labels: lt}, &LabeledDataset{records: rv, labels: lv}, true
}

// LabeledBatch iterates over fixed-size chunks of record/label pairs.
type LabeledBatch struct {
	records *Batch
	labels  *Batch
}

// DropLast discards a trailing batch smaller than the batch size.
func (b *LabeledBatch) DropLast() *LabeledBatch {
	b.records.DropLast()
	b.labels.DropLast()
	return b
}

// Next returns the next record and label batches. ok is false once the
// pairs are exhausted.
func (b *LabeledBatch) Next() (records, labels *tensor.Buffer, ok bool) {
	r, ok := b.records.Next()
	if !ok {
		return nil, nil, false
	}
	l, _ := b.labels.Next()
	return r, l, true
}
