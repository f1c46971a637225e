// Package optim implements optimization algorithms over the gradient
// accumulators the autograd engine exposes.
//
// Optimizers are pure consumers: a training loop runs Forward and
// Backward on the loss, then calls Step to fold the accumulated
// gradients into the parameters and ZeroGrad to reset the accumulators
// for the next iteration.
//
//	loss.Forward()
//	loss.Backward(1)
//	optimizer.Step()
//	optimizer.ZeroGrad()
package optim

import "github.com/tactics-ml/tactics/internal/variable"

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step folds the parameters' accumulated gradients into their
	// values per the algorithm's update rule.
	Step()

	// ZeroGrad resets every parameter's gradient accumulator. The
	// engine never zeroes implicitly, so a training loop calls this
	// once per iteration.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float32

	// SetLR replaces the learning rate; used by the schedulers in
	// this package.
	SetLR(lr float32)
}

// checkParams panics on non-differentiable parameters, which would
// otherwise fail at the first Step.
func checkParams(params []*variable.Var) {
	for _, p := range params {
		if !p.IsDifferentiable() {
			panic("optim: parameter without gradient accumulator")
		}
	}
}

func zeroGrads(params []*variable.Var) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
