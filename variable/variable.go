// Copyright 2025 Tactics ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package variable provides the public API for reverse-mode automatic
// differentiation in the Tactics ML framework.
//
// A Var is a node of a differentiation graph. Operations on variables
// record forward and backward passes on a tape; Forward recomputes the
// graph below a node and Backward propagates gradients back to every
// differentiable ancestor, accumulating into their gradient buffers.
//
// Example:
//
//	x := variable.Full(tensor.Shape{3}, 2).RequiresGrad()
//	y := x.Mul(x).Sum() // y = sum(x^2)
//	y.Backward(1)
//	_ = x.Grad()        // [4, 4, 4]
package variable

import (
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
	"github.com/tactics-ml/tactics/internal/variable"
)

// Var is a node in the differentiation graph. A plain Var is a constant;
// RequiresGrad attaches a gradient accumulator and makes it a leaf
// parameter.
type Var = variable.Var

// Gradient accumulates contributions flowing into a differentiable node.
type Gradient = variable.Gradient

// Leaf wraps a buffer as a constant graph input.
func Leaf(buf *tensor.Buffer) *Var {
	return variable.Leaf(buf)
}

// Zeros creates a zero-filled constant.
func Zeros(shape tensor.Shape) *Var {
	return variable.Zeros(shape)
}

// Ones creates a constant filled with ones.
func Ones(shape tensor.Shape) *Var {
	return variable.Ones(shape)
}

// Full creates a constant filled with the given value.
func Full(shape tensor.Shape, value float32) *Var {
	return variable.Full(shape, value)
}

// FromSlice creates a constant from existing data in row-major order.
func FromSlice(data []float32, shape tensor.Shape) (*Var, error) {
	return variable.FromSlice(data, shape)
}

// Rand creates a constant with values drawn uniformly from [0, 1).
func Rand(shape tensor.Shape, rng *rand.Rand) *Var {
	return variable.Rand(shape, rng)
}

// Randn creates a constant with values drawn from the standard normal
// distribution.
func Randn(shape tensor.Shape, rng *rand.Rand) *Var {
	return variable.Randn(shape, rng)
}

// Eye creates an n by n identity matrix constant.
func Eye(n int) *Var {
	return variable.Eye(n)
}

// Scalar creates a rank-0 constant holding a single value.
func Scalar(value float32) *Var {
	return variable.Scalar(value)
}

// Reduction selects how a loss collapses its per-element values.
type Reduction = variable.Reduction

// Reduction modes.
const (
	Mean Reduction = variable.Mean
	Sum  Reduction = variable.Sum
)

// PaddingMode decides what a padded position outside the source tensor
// holds.
type PaddingMode = variable.PaddingMode

// Zero pads with zeros.
type Zero = variable.Zero

// Constant pads with a fixed value.
type Constant = variable.Constant

// Reflective pads by mirroring the source around its border, border
// excluded.
type Reflective = variable.Reflective

// Replicative pads by repeating the border value.
type Replicative = variable.Replicative

// DropoutStatus toggles every dropout sharing it between training and
// evaluation behaviour.
type DropoutStatus = variable.DropoutStatus

// NewDropoutStatus creates a status set to training.
func NewDropoutStatus() *DropoutStatus {
	return variable.NewDropoutStatus()
}
