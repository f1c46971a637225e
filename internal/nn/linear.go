package nn

import (
	"math"
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
	"github.com/tactics-ml/tactics/internal/variable"
)

// Linear implements a fully connected layer.
//
// Performs the transformation y = x·Wᵀ + b where:
//   - x is the input with shape [batch, in]
//   - W is the weight matrix with shape [out, in]
//   - b is the bias vector with shape [out]
//
// Weight and bias are initialized from U(-k, k) with k = √(1/in).
type Linear struct {
	Weight *variable.Var
	Bias   *variable.Var
}

// NewLinear creates a linear layer mapping in features to out features.
func NewLinear(in, out int, rng *rand.Rand) *Linear {
	l := &Linear{
		Weight: variable.Zeros(tensor.Shape{out, in}).RequiresGrad(),
		Bias:   variable.Zeros(tensor.Shape{out}).RequiresGrad(),
	}
	k := float32(math.Sqrt(1 / float64(in)))
	InitUniform(l.Weight, -k, k, rng)
	InitUniform(l.Bias, -k, k, rng)
	return l
}

// Forward applies y = x·Wᵀ + b. Input shape [batch, in], output shape
// [batch, out].
func (l *Linear) Forward(input *variable.Var) *variable.Var {
	return input.MmT(l.Weight).Add(l.Bias)
}

// Parameters returns the weight and bias.
func (l *Linear) Parameters() []*variable.Var {
	return []*variable.Var{l.Weight, l.Bias}
}
