package variable

import (
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Leaf constructors. They all wrap a fresh tensor buffer as a
// non-differentiable constant; promote with RequiresGrad.

// Zeros creates a leaf variable filled with zeros.
func Zeros(shape tensor.Shape) *Var {
	return Leaf(tensor.Zeros(shape))
}

// Ones creates a leaf variable filled with ones.
func Ones(shape tensor.Shape) *Var {
	return Leaf(tensor.Ones(shape))
}

// Full creates a leaf variable filled with value.
func Full(shape tensor.Shape, value float32) *Var {
	return Leaf(tensor.Full(shape, value))
}

// FromSlice creates a leaf variable from row-major data.
func FromSlice(data []float32, shape tensor.Shape) (*Var, error) {
	buf, err := tensor.FromSlice(data, shape)
	if err != nil {
		return nil, err
	}
	return Leaf(buf), nil
}

// Rand creates a leaf variable with values drawn uniformly from [0, 1).
func Rand(shape tensor.Shape, rng *rand.Rand) *Var {
	return Leaf(tensor.Rand(shape, rng))
}

// Randn creates a leaf variable with values drawn from N(0, 1).
func Randn(shape tensor.Shape, rng *rand.Rand) *Var {
	return Leaf(tensor.Randn(shape, rng))
}

// Eye creates an n×n identity-matrix leaf variable.
func Eye(n int) *Var {
	return Leaf(tensor.Eye(n))
}

// Scalar creates a rank-0 leaf variable.
func Scalar(value float32) *Var {
	return Leaf(tensor.Scalar(value))
}
