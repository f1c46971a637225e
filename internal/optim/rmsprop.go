package optim

import (
	"math"

	"github.com/tactics-ml/tactics/internal/variable"
)

// RMSProp keeps an exponential moving average of squared gradients and
// normalizes each update by its square root.
type RMSProp struct {
	params  []*variable.Var
	lr      float32
	alpha   float32
	eps     float32
	penalty Penalty
	sq      [][]float32
}

// RMSPropConfig holds the configuration for the RMSProp optimizer.
type RMSPropConfig struct {
	LR      float32 // default 0.01
	Alpha   float32 // smoothing constant (default 0.99)
	Eps     float32 // default 1e-8
	Penalty Penalty
}

// NewRMSProp creates an RMSProp optimizer over the given parameters.
func NewRMSProp(params []*variable.Var, config RMSPropConfig) *RMSProp {
	checkParams(params)
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Alpha == 0 {
		config.Alpha = 0.99
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	r := &RMSProp{
		params:  params,
		lr:      config.LR,
		alpha:   config.Alpha,
		eps:     config.Eps,
		penalty: config.Penalty,
		sq:      make([][]float32, len(params)),
	}
	for i, p := range params {
		r.sq[i] = make([]float32, p.Shape().NumElements())
	}
	return r
}

// Step applies one RMSProp update to every parameter.
func (r *RMSProp) Step() {
	for i, p := range r.params {
		w := p.Data().Data()
		g := p.Grad().Data()
		sq := r.sq[i]
		for j := range w {
			gj := applyPenalty(r.penalty, w[j], g[j])
			sq[j] = r.alpha*sq[j] + (1-r.alpha)*gj*gj
			w[j] -= r.lr * gj / (float32(math.Sqrt(float64(sq[j]))) + r.eps)
		}
	}
}

// ZeroGrad resets every parameter's gradient accumulator.
func (r *RMSProp) ZeroGrad() { zeroGrads(r.params) }

// LR returns the current learning rate.
func (r *RMSProp) LR() float32 { return r.lr }

// SetLR replaces the learning rate.
func (r *RMSProp) SetLR(lr float32) { r.lr = lr }
