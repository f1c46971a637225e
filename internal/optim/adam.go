package optim

import (
	"math"

	"github.com/tactics-ml/tactics/internal/variable"
)

// Adam implements the adaptive moment estimation optimizer.
//
// It keeps exponential moving averages of the gradient and its square,
// with bias correction for the early steps:
//
//	m = β1·m + (1-β1)·g
//	v = β2·v + (1-β2)·g²
//	param -= lr · m̂ / (√v̂ + ε)
type Adam struct {
	params  []*variable.Var
	lr      float32
	beta1   float32
	beta2   float32
	eps     float32
	penalty Penalty
	step    int
	m, v    [][]float32
}

// AdamConfig holds the configuration for the Adam optimizer.
// Zero values fall back to the customary defaults.
type AdamConfig struct {
	LR      float32 // default 0.001
	Beta1   float32 // default 0.9
	Beta2   float32 // default 0.999
	Eps     float32 // default 1e-8
	Penalty Penalty
}

func (c *AdamConfig) defaults() {
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Beta1 == 0 {
		c.Beta1 = 0.9
	}
	if c.Beta2 == 0 {
		c.Beta2 = 0.999
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam(params []*variable.Var, config AdamConfig) *Adam {
	checkParams(params)
	config.defaults()

	a := &Adam{
		params:  params,
		lr:      config.LR,
		beta1:   config.Beta1,
		beta2:   config.Beta2,
		eps:     config.Eps,
		penalty: config.Penalty,
		m:       make([][]float32, len(params)),
		v:       make([][]float32, len(params)),
	}
	for i, p := range params {
		n := p.Shape().NumElements()
		a.m[i] = make([]float32, n)
		a.v[i] = make([]float32, n)
	}
	return a
}

// Step applies one Adam update to every parameter.
func (a *Adam) Step() {
	a.step++
	c1 := 1 - float32(math.Pow(float64(a.beta1), float64(a.step)))
	c2 := 1 - float32(math.Pow(float64(a.beta2), float64(a.step)))

	for i, p := range a.params {
		w := p.Data().Data()
		g := p.Grad().Data()
		m, v := a.m[i], a.v[i]
		for j := range w {
			gj := applyPenalty(a.penalty, w[j], g[j])
			m[j] = a.beta1*m[j] + (1-a.beta1)*gj
			v[j] = a.beta2*v[j] + (1-a.beta2)*gj*gj
			mHat := m[j] / c1
			vHat := v[j] / c2
			w[j] -= a.lr * mHat / (float32(math.Sqrt(float64(vHat))) + a.eps)
		}
	}
}

// ZeroGrad resets every parameter's gradient accumulator.
func (a *Adam) ZeroGrad() { zeroGrads(a.params) }

// LR returns the current learning rate.
func (a *Adam) LR() float32 { return a.lr }

// SetLR replaces the learning rate.
func (a *Adam) SetLR(lr float32) { a.lr = lr }
