package optim

import (
	"math"

	"github.com/tactics-ml/tactics/internal/variable"
)

// AMSGrad is the Adam variant that keeps the running maximum of the
// second-moment estimate, preventing the effective learning rate from
// growing back after large gradients.
type AMSGrad struct {
	params  []*variable.Var
	lr      float32
	beta1   float32
	beta2   float32
	eps     float32
	penalty Penalty
	step    int
	m, v    [][]float32
	vMax    [][]float32
}

// NewAMSGrad creates an AMSGrad optimizer over the given parameters.
// It reuses AdamConfig; the defaults are the same.
func NewAMSGrad(params []*variable.Var, config AdamConfig) *AMSGrad {
	checkParams(params)
	config.defaults()

	a := &AMSGrad{
		params:  params,
		lr:      config.LR,
		beta1:   config.Beta1,
		beta2:   config.Beta2,
		eps:     config.Eps,
		penalty: config.Penalty,
		m:       make([][]float32, len(params)),
		v:       make([][]float32, len(params)),
		vMax:    make([][]float32, len(params)),
	}
	for i, p := range params {
		n := p.Shape().NumElements()
		a.m[i] = make([]float32, n)
		a.v[i] = make([]float32, n)
		a.vMax[i] = make([]float32, n)
	}
	return a
}

// Step applies one AMSGrad update to every parameter.
func (a *AMSGrad) Step() {
	a.step++
	c1 := 1 - float32(math.Pow(float64(a.beta1), float64(a.step)))
	c2 := 1 - float32(math.Pow(float64(a.beta2), float64(a.step)))

	for i, p := range a.params {
		w := p.Data().Data()
		g := p.Grad().Data()
		m, v, vMax := a.m[i], a.v[i], a.vMax[i]
		for j := range w {
			gj := applyPenalty(a.penalty, w[j], g[j])
			m[j] = a.beta1*m[j] + (1-a.beta1)*gj
			v[j] = a.beta2*v[j] + (1-a.beta2)*gj*gj
			if vHat := v[j] / c2; vHat > vMax[j] {
				vMax[j] = vHat
			}
			mHat := m[j] / c1
			w[j] -= a.lr * mHat / (float32(math.Sqrt(float64(vMax[j]))) + a.eps)
		}
	}
}

// ZeroGrad resets every parameter's gradient accumulator.
func (a *AMSGrad) ZeroGrad() { zeroGrads(a.params) }

// LR returns the current learning rate.
func (a *AMSGrad) LR() float32 { return a.lr }

// SetLR replaces the learning rate.
func (a *AMSGrad) SetLR(lr float32) { a.lr = lr }
