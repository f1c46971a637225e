// Copyright 2025 Tactics ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for gradient descent optimizers
// in the Tactics ML framework.
//
// An Optimizer owns a set of differentiable parameters and mutates their
// data in place on Step, consuming the gradients accumulated by a
// preceding Backward call.
//
// Example:
//
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    loss := model.Forward(x).SquaredError(y, variable.Mean)
//	    loss.Backward(1)
//	    opt.Step()
//	    opt.ZeroGrad()
//	}
package optim

import (
	"github.com/tactics-ml/tactics/internal/optim"
	"github.com/tactics-ml/tactics/internal/variable"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig configures an SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*variable.Var, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam is the adaptive moment estimation optimizer.
type Adam = optim.Adam

// AdamConfig configures an Adam or AMSGrad optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam(params []*variable.Var, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// AMSGrad is Adam with a non-decreasing second moment estimate.
type AMSGrad = optim.AMSGrad

// NewAMSGrad creates an AMSGrad optimizer over the given parameters.
func NewAMSGrad(params []*variable.Var, config AdamConfig) *AMSGrad {
	return optim.NewAMSGrad(params, config)
}

// AdaGrad adapts the learning rate per parameter from the sum of squared
// gradients.
type AdaGrad = optim.AdaGrad

// AdaGradConfig configures an AdaGrad optimizer.
type AdaGradConfig = optim.AdaGradConfig

// NewAdaGrad creates an AdaGrad optimizer over the given parameters.
func NewAdaGrad(params []*variable.Var, config AdaGradConfig) *AdaGrad {
	return optim.NewAdaGrad(params, config)
}

// RMSProp adapts the learning rate from an exponential moving average of
// squared gradients.
type RMSProp = optim.RMSProp

// RMSPropConfig configures an RMSProp optimizer.
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates an RMSProp optimizer over the given parameters.
func NewRMSProp(params []*variable.Var, config RMSPropConfig) *RMSProp {
	return optim.NewRMSProp(params, config)
}

// Penalty adds a regularization term to every gradient before the
// update.
type Penalty = optim.Penalty

// L2 is ridge regularization.
type L2 = optim.L2

// L1 is lasso regularization.
type L1 = optim.L1

// ElasticNet interpolates between L1 and L2 regularization.
type ElasticNet = optim.ElasticNet

// Scheduler adjusts an optimizer's learning rate between epochs.
type Scheduler = optim.Scheduler

// StepLR decays the learning rate by gamma every stepSize epochs.
type StepLR = optim.StepLR

// NewStepLR creates a step decay scheduler for the optimizer.
func NewStepLR(opt Optimizer, stepSize int, gamma float32) *StepLR {
	return optim.NewStepLR(opt, stepSize, gamma)
}

// ExponentialLR decays the learning rate by gamma every epoch.
type ExponentialLR = optim.ExponentialLR

// NewExponentialLR creates an exponential decay scheduler for the
// optimizer.
func NewExponentialLR(opt Optimizer, gamma float32) *ExponentialLR {
	return optim.NewExponentialLR(opt, gamma)
}

// LambdaLR scales the base learning rate by a caller supplied factor of
// the epoch.
type LambdaLR = optim.LambdaLR

// NewLambdaLR creates a scheduler multiplying the base learning rate by
// fn(epoch).
func NewLambdaLR(opt Optimizer, fn func(epoch int) float32) *LambdaLR {
	return optim.NewLambdaLR(opt, fn)
}
