// Copyright 2025 Tactics ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network building blocks
// in the Tactics ML framework.
//
// Modules compose differentiable operations into layers with learnable
// parameters. Every layer satisfies the Module interface, so models can
// be assembled from layers and trained with the optim package.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1))
//	layer := nn.NewLinear(784, 10, rng)
//	out := layer.Forward(input)
//	loss := out.SquaredError(target, variable.Mean)
//	loss.Backward(1)
package nn

import (
	"math/rand"

	"github.com/tactics-ml/tactics/internal/nn"
	"github.com/tactics-ml/tactics/internal/variable"
)

// Module is a differentiable unit with learnable parameters.
type Module = nn.Module

// Linear applies an affine transformation y = x W^T + b.
type Linear = nn.Linear

// NewLinear creates a linear layer mapping in features to out features.
func NewLinear(in, out int, rng *rand.Rand) *Linear {
	return nn.NewLinear(in, out, rng)
}

// LSTMCell is a long short-term memory recurrence step.
type LSTMCell = nn.LSTMCell

// NewLSTMCell creates an LSTM cell for the given input and hidden sizes.
func NewLSTMCell(inputSize, hiddenSize int, rng *rand.Rand) *LSTMCell {
	return nn.NewLSTMCell(inputSize, hiddenSize, rng)
}

// GRUCell is a gated recurrent unit recurrence step.
type GRUCell = nn.GRUCell

// NewGRUCell creates a GRU cell for the given input and hidden sizes.
func NewGRUCell(inputSize, hiddenSize int, rng *rand.Rand) *GRUCell {
	return nn.NewGRUCell(inputSize, hiddenSize, rng)
}

// Conv2d applies a two dimensional cross correlation over NCHW input.
type Conv2d = nn.Conv2d

// Conv2dConfig configures kernel size, stride, dilation and padding of a
// convolution layer. Zero values fall back to sensible defaults.
type Conv2dConfig = nn.Conv2dConfig

// NewConv2d creates a convolution layer from in channels to out channels.
func NewConv2d(in, out int, cfg Conv2dConfig, rng *rand.Rand) *Conv2d {
	return nn.NewConv2d(in, out, cfg, rng)
}

// Dropout randomly zeroes activations during training.
type Dropout = nn.Dropout

// NewDropout creates a dropout layer zeroing activations with
// probability p.
func NewDropout(p float64, rng *rand.Rand) *Dropout {
	return nn.NewDropout(p, rng)
}

// Parameter initializers.

// InitConstant fills a parameter with a constant value.
func InitConstant(v *variable.Var, value float32) { nn.InitConstant(v, value) }

// InitZeros fills a parameter with zeros.
func InitZeros(v *variable.Var) { nn.InitZeros(v) }

// InitOnes fills a parameter with ones.
func InitOnes(v *variable.Var) { nn.InitOnes(v) }

// InitEye fills a square matrix parameter with the identity.
func InitEye(v *variable.Var) { nn.InitEye(v) }

// InitUniform fills a parameter with samples from U(low, high).
func InitUniform(v *variable.Var, low, high float32, rng *rand.Rand) {
	nn.InitUniform(v, low, high, rng)
}

// InitNormal fills a parameter with samples from N(mean, std^2).
func InitNormal(v *variable.Var, mean, std float32, rng *rand.Rand) {
	nn.InitNormal(v, mean, std, rng)
}

// InitXavierUniform fills a parameter with Xavier-Glorot uniform samples.
func InitXavierUniform(v *variable.Var, gain float32, rng *rand.Rand) {
	nn.InitXavierUniform(v, gain, rng)
}

// InitXavierNormal fills a parameter with Xavier-Glorot normal samples.
func InitXavierNormal(v *variable.Var, gain float32, rng *rand.Rand) {
	nn.InitXavierNormal(v, gain, rng)
}
