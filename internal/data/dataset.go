// Package data implements dataset loading and partitioning utilities for
// training: CSV ingestion, shuffling, train/validation splits, k-fold
// cross validation and mini-batching.
//
// Records are stored stacked along the leading axis of a single dense
// buffer, one record per row, ready to be wrapped into graph leaves.
package data

import (
	"fmt"
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Dataset is a collection of uniquely owned unlabeled records, stacked
// along the leading axis of its buffer.
type Dataset struct {
	records *tensor.Buffer
}

func newDataset(records *tensor.Buffer) *Dataset {
	return &Dataset{records: records}
}

// FromBuffer wraps an existing buffer as a dataset. The leading axis
// indexes records.
func FromBuffer(records *tensor.Buffer) *Dataset {
	if len(records.Shape()) < 1 {
		panic("data: dataset records need at least a record axis")
	}
	return newDataset(records)
}

// Records returns the underlying buffer, shaped [n, record...].
func (d *Dataset) Records() *tensor.Buffer {
	return d.records
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return d.records.Shape()[0]
}

// IsEmpty reports whether the dataset holds no records.
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// recordSize is the flat element count of one record.
func (d *Dataset) recordSize() int {
	return tensor.Shape(d.records.Shape()[1:]).NumElements()
}

// Shuffle permutes the records in place with a Fisher-Yates pass over the
// injected generator and returns the dataset for chaining.
func (d *Dataset) Shuffle(rng *rand.Rand) *Dataset {
	shuffleRows(d.records.Data(), d.Len(), d.recordSize(), rng)
	return d
}

// Split partitions the dataset into non-overlapping datasets of the
// given lengths. Panics unless the lengths cover the whole dataset.
func (d *Dataset) Split(lengths ...int) []*Dataset {
	total := 0
	for _, l := range lengths {
		total += l
	}
	if total != d.Len() {
		panic(fmt.Sprintf("data: split lengths sum to %d, dataset has %d records", total, d.Len()))
	}

	out := make([]*Dataset, len(lengths))
	offset := 0
	for i, l := range lengths {
		out[i] = newDataset(d.sliceRows(offset, offset+l))
		offset += l
	}
	return out
}

// KFold constructs a k-fold iterator over the dataset. The records are
// split without shuffling into k consecutive folds; each fold serves
// once as the validation set while the remaining k-1 form the training
// set. Panics if k < 2.
func (d *Dataset) KFold(k int) *KFold {
	if k < 2 {
		panic(fmt.Sprintf("data: k-fold needs k >= 2, got %d", k))
	}
	return &KFold{d: d, k: k}
}

// Batch divides the dataset into batches of the given size. The last
// batch may be smaller unless DropLast is set.
func (d *Dataset) Batch(size int) *Batch {
	if size < 1 {
		panic(fmt.Sprintf("data: batch size must be positive, got %d", size))
	}
	return &Batch{d: d, size: size}
}

// sliceRows copies rows [from, to) into a fresh buffer.
func (d *Dataset) sliceRows(from, to int) *tensor.Buffer {
	shape := d.records.Shape().Clone()
	shape[0] = to - from
	out := tensor.Zeros(shape)
	rs := d.recordSize()
	copy(out.Data(), d.records.Data()[from*rs:to*rs])
	return out
}

// concatRows copies the rows outside [skipFrom, skipTo) into a fresh
// buffer; the k-fold training side.
func (d *Dataset) concatRows(skipFrom, skipTo int) *tensor.Buffer {
	shape := d.records.Shape().Clone()
	shape[0] = d.Len() - (skipTo - skipFrom)
	out := tensor.Zeros(shape)
	rs := d.recordSize()
	n := copy(out.Data(), d.records.Data()[:skipFrom*rs])
	copy(out.Data()[n:], d.records.Data()[skipTo*rs:])
	return out
}

// shuffleRows applies the same Fisher-Yates permutation used by both
// dataset kinds. rowSize is the flat element count of one row.
func shuffleRows(data []float32, rows, rowSize int, rng *rand.Rand) []int {
	perm := make([]int, rows)
	for i := range perm {
		perm[i] = i
	}
	tmp := make([]float32, rowSize)
	for i := rows - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		if i == j {
			continue
		}
		perm[i], perm[j] = perm[j], perm[i]
		a, b := data[i*rowSize:(i+1)*rowSize], data[j*rowSize:(j+1)*rowSize]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
	return perm
}

// KFold iterates over the (train, validation) splits of a dataset.
type KFold struct {
	d    *Dataset
	k    int
	fold int
}

// Next returns the next split. ok is false after the k-th fold.
func (f *KFold) Next() (train, validation *Dataset, ok bool) {
	if f.fold >= f.k {
		return nil, nil, false
	}
	from := f.fold * f.d.Len() / f.k
	to := (f.fold + 1) * f.d.Len() / f.k
	f.fold++
	return newDataset(f.d.concatRows(from, to)), newDataset(f.d.sliceRows(from, to)), true
}

// Batch iterates over fixed-size chunks of a dataset's records.
type Batch struct {
	d        *Dataset
	size     int
	pos      int
	dropLast bool
}

// DropLast discards a trailing batch smaller than the batch size.
func (b *Batch) DropLast() *Batch {
	b.dropLast = true
	return b
}

// Next returns the next batch buffer, shaped [size, record...]. ok is
// false once the records are exhausted.
func (b *Batch) Next() (*tensor.Buffer, bool) {
	remaining := b.d.Len() - b.pos
	if remaining <= 0 || (b.dropLast && remaining < b.size) {
		return nil, false
	}
	n := b.size
	if remaining < n {
		n = remaining
	}
	out := b.d.sliceRows(b.pos, b.pos+n)
	b.pos += n
	return out, true
}
