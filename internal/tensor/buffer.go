// Package tensor implements the dense float32 array substrate the autograd
// engine is built on.
//
// A Buffer owns a contiguous row-major slice of float32 values together with
// an immutable Shape. Buffers are plain storage: they carry no graph
// bookkeeping and no device abstraction. Sharing and aliasing of buffers
// between graph nodes is handled one level up, in internal/variable.
package tensor

import "fmt"

// Buffer is a dense N-dimensional float32 array with an immutable shape and
// mutable contents.
type Buffer struct {
	data   []float32
	shape  Shape
	stride []int
}

// New creates a zero-filled buffer with the given shape.
func New(shape Shape) (*Buffer, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Buffer{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.Strides(),
	}, nil
}

// Shape returns the buffer's shape. The returned slice must not be mutated.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Strides returns the buffer's row-major memory strides.
func (b *Buffer) Strides() []int {
	return b.stride
}

// NumElements returns the total number of elements.
func (b *Buffer) NumElements() int {
	return len(b.data)
}

// Data returns the backing slice in row-major order.
func (b *Buffer) Data() []float32 {
	return b.data
}

// At returns the element at the given multi-index.
func (b *Buffer) At(index ...int) float32 {
	return b.data[b.flatIndex(index)]
}

// Set stores v at the given multi-index.
func (b *Buffer) Set(v float32, index ...int) {
	b.data[b.flatIndex(index)] = v
}

func (b *Buffer) flatIndex(index []int) int {
	if len(index) != len(b.shape) {
		panic(fmt.Sprintf("index rank %d does not match shape %v", len(index), b.shape))
	}
	flat := 0
	for i, idx := range index {
		if idx < 0 || idx >= b.shape[i] {
			panic(fmt.Sprintf("index %v out of range for shape %v", index, b.shape))
		}
		flat += idx * b.stride[i]
	}
	return flat
}

// Fill sets every element to v.
func (b *Buffer) Fill(v float32) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Zero sets every element to 0.
func (b *Buffer) Zero() {
	b.Fill(0)
}

// CopyFrom overwrites the buffer's contents with src's contents.
// The two buffers must hold the same number of elements.
func (b *Buffer) CopyFrom(src *Buffer) {
	if len(b.data) != len(src.data) {
		panic(fmt.Sprintf("copy between buffers of %d and %d elements", len(src.data), len(b.data)))
	}
	copy(b.data, src.data)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	clone := &Buffer{
		data:   make([]float32, len(b.data)),
		shape:  b.shape.Clone(),
		stride: append([]int(nil), b.stride...),
	}
	copy(clone.data, b.data)
	return clone
}

// Equal reports whether two buffers have identical shapes and bit-identical
// contents.
func (b *Buffer) Equal(other *Buffer) bool {
	if !b.shape.Equal(other.shape) {
		return false
	}
	for i, v := range b.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}
