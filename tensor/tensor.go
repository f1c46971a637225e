// Copyright 2025 Tactics ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for dense tensor storage in the
// Tactics ML framework.
//
// A Buffer is a contiguous row-major block of float32 values described by
// a Shape. Buffers carry no gradient machinery of their own; wrap one in a
// variable.Var to participate in differentiation.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 3})
//	y, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	x.CopyFrom(y)
package tensor

import (
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// An empty Shape is a rank-0 scalar holding a single element.
type Shape = tensor.Shape

// Buffer is a dense row-major block of float32 values.
type Buffer = tensor.Buffer

// New creates a zero-filled buffer, validating the shape.
func New(shape Shape) (*Buffer, error) {
	return tensor.New(shape)
}

// Zeros creates a zero-filled buffer. Panics on an invalid shape.
func Zeros(shape Shape) *Buffer {
	return tensor.Zeros(shape)
}

// Ones creates a buffer filled with ones.
func Ones(shape Shape) *Buffer {
	return tensor.Ones(shape)
}

// Full creates a buffer filled with the given value.
func Full(shape Shape, value float32) *Buffer {
	return tensor.Full(shape, value)
}

// FromSlice creates a buffer from existing data in row-major order.
// The data is copied.
func FromSlice(data []float32, shape Shape) (*Buffer, error) {
	return tensor.FromSlice(data, shape)
}

// Rand creates a buffer with values drawn uniformly from [0, 1).
func Rand(shape Shape, rng *rand.Rand) *Buffer {
	return tensor.Rand(shape, rng)
}

// Randn creates a buffer with values drawn from the standard normal
// distribution.
func Randn(shape Shape, rng *rand.Rand) *Buffer {
	return tensor.Randn(shape, rng)
}

// Eye creates an n by n identity matrix.
func Eye(n int) *Buffer {
	return tensor.Eye(n)
}

// Scalar creates a rank-0 buffer holding a single value.
func Scalar(value float32) *Buffer {
	return tensor.Scalar(value)
}

// Linspace creates a vector of n values evenly spaced from start to end
// inclusive.
func Linspace(start, end float32, n int) *Buffer {
	return tensor.Linspace(start, end, n)
}

// BroadcastShapes computes the common shape two operand shapes broadcast
// to, or an error when the shapes are incompatible.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
