package optim

import "github.com/tactics-ml/tactics/internal/variable"

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param -= lr * grad
//
// With momentum:
//
//	velocity = momentum * velocity + grad
//	param -= lr * velocity
type SGD struct {
	params     []*variable.Var
	lr         float32
	momentum   float32
	penalty    Penalty
	velocities [][]float32
}

// SGDConfig holds the configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // learning rate (default 0.01)
	Momentum float32 // momentum factor in [0, 1) (default 0)
	Penalty  Penalty // optional regularization
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*variable.Var, config SGDConfig) *SGD {
	checkParams(params)
	if config.LR == 0 {
		config.LR = 0.01
	}

	s := &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
		penalty:  config.Penalty,
	}
	if config.Momentum != 0 {
		s.velocities = make([][]float32, len(params))
		for i, p := range params {
			s.velocities[i] = make([]float32, p.Shape().NumElements())
		}
	}
	return s
}

// Step applies one gradient descent update to every parameter.
func (s *SGD) Step() {
	for i, p := range s.params {
		w := p.Data().Data()
		g := p.Grad().Data()
		if s.velocities == nil {
			for j := range w {
				w[j] -= s.lr * applyPenalty(s.penalty, w[j], g[j])
			}
			continue
		}
		v := s.velocities[i]
		for j := range w {
			v[j] = s.momentum*v[j] + applyPenalty(s.penalty, w[j], g[j])
			w[j] -= s.lr * v[j]
		}
	}
}

// ZeroGrad resets every parameter's gradient accumulator.
func (s *SGD) ZeroGrad() { zeroGrads(s.params) }

// LR returns the current learning rate.
func (s *SGD) LR() float32 { return s.lr }

// SetLR replaces the learning rate.
func (s *SGD) SetLR(lr float32) { s.lr = lr }
