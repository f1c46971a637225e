package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a buffer filled with zeros.
// Panics on an invalid shape; use New when the shape is untrusted.
func Zeros(shape Shape) *Buffer {
	b, err := New(shape)
	if err != nil {
		panic(err)
	}
	return b
}

// Ones creates a buffer filled with ones.
func Ones(shape Shape) *Buffer {
	return Full(shape, 1)
}

// Full creates a buffer filled with a specific value.
func Full(shape Shape, value float32) *Buffer {
	b := Zeros(shape)
	b.Fill(value)
	return b
}

// FromSlice creates a buffer from existing data in row-major order.
// The data is copied.
func FromSlice(data []float32, shape Shape) (*Buffer, error) {
	b, err := New(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != b.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, b.NumElements())
	}
	copy(b.data, data)
	return b, nil
}

// Rand creates a buffer with values drawn uniformly from [0, 1).
// The generator is injected; the package never reads process-global entropy.
func Rand(shape Shape, rng *rand.Rand) *Buffer {
	b := Zeros(shape)
	for i := range b.data {
		b.data[i] = rng.Float32()
	}
	return b
}

// Randn creates a buffer with values drawn from the standard normal
// distribution N(0, 1).
func Randn(shape Shape, rng *rand.Rand) *Buffer {
	b := Zeros(shape)
	for i := range b.data {
		b.data[i] = float32(rng.NormFloat64())
	}
	return b
}

// Eye creates an n×n identity matrix.
func Eye(n int) *Buffer {
	b := Zeros(Shape{n, n})
	for i := 0; i < n; i++ {
		b.data[i*n+i] = 1
	}
	return b
}

// Scalar creates a rank-0 buffer holding a single value.
func Scalar(value float32) *Buffer {
	b := Zeros(Shape{})
	b.data[0] = value
	return b
}

// Linspace creates a 1D buffer of n evenly spaced values in [start, end].
func Linspace(start, end float32, n int) *Buffer {
	if n < 2 {
		panic(fmt.Sprintf("linspace needs at least 2 points, got %d", n))
	}
	b := Zeros(Shape{n})
	step := float64(end-start) / float64(n-1)
	for i := range b.data {
		b.data[i] = start + float32(float64(i)*step)
	}
	return b
}
