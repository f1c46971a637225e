package optim

import (
	"math"

	"github.com/tactics-ml/tactics/internal/variable"
)

// AdaGrad accumulates squared gradients per weight and divides the
// learning rate by their square root, so frequently updated weights get
// progressively smaller steps.
type AdaGrad struct {
	params  []*variable.Var
	lr      float32
	eps     float32
	penalty Penalty
	sumSq   [][]float32
}

// AdaGradConfig holds the configuration for the AdaGrad optimizer.
type AdaGradConfig struct {
	LR      float32 // default 0.01
	Eps     float32 // default 1e-10
	Penalty Penalty
}

// NewAdaGrad creates an AdaGrad optimizer over the given parameters.
func NewAdaGrad(params []*variable.Var, config AdaGradConfig) *AdaGrad {
	checkParams(params)
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Eps == 0 {
		config.Eps = 1e-10
	}

	a := &AdaGrad{
		params:  params,
		lr:      config.LR,
		eps:     config.Eps,
		penalty: config.Penalty,
		sumSq:   make([][]float32, len(params)),
	}
	for i, p := range params {
		a.sumSq[i] = make([]float32, p.Shape().NumElements())
	}
	return a
}

// Step applies one AdaGrad update to every parameter.
func (a *AdaGrad) Step() {
	for i, p := range a.params {
		w := p.Data().Data()
		g := p.Grad().Data()
		sumSq := a.sumSq[i]
		for j := range w {
			gj := applyPenalty(a.penalty, w[j], g[j])
			sumSq[j] += gj * gj
			w[j] -= a.lr * gj / (float32(math.Sqrt(float64(sumSq[j]))) + a.eps)
		}
	}
}

// ZeroGrad resets every parameter's gradient accumulator.
func (a *AdaGrad) ZeroGrad() { zeroGrads(a.params) }

// LR returns the current learning rate.
func (a *AdaGrad) LR() float32 { return a.lr }

// SetLR replaces the learning rate.
func (a *AdaGrad) SetLR(lr float32) { a.lr = lr }
