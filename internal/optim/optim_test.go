package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactics-ml/tactics/internal/tensor"
	"github.com/tactics-ml/tactics/internal/variable"
)

var (
	_ Optimizer = (*SGD)(nil)
	_ Optimizer = (*Adam)(nil)
	_ Optimizer = (*AMSGrad)(nil)
	_ Optimizer = (*AdaGrad)(nil)
	_ Optimizer = (*RMSProp)(nil)
)

// quadratic builds the loss (w - target)² summed over w's elements.
func quadratic(w *variable.Var, target float32) *variable.Var {
	t := variable.Full(w.Shape(), target)
	return w.SquaredError(t, variable.Sum)
}

func train(opt Optimizer, loss *variable.Var, steps int) {
	for i := 0; i < steps; i++ {
		loss.Forward()
		loss.Backward(1)
		opt.Step()
		opt.ZeroGrad()
	}
}

func TestSGDSingleStep(t *testing.T) {
	w, _ := variable.FromSlice([]float32{1, -2}, tensor.Shape{2})
	w = w.RequiresGrad()
	opt := NewSGD([]*variable.Var{w}, SGDConfig{LR: 0.1})

	loss := w.Sum()
	loss.Forward()
	loss.Backward(1)
	opt.Step()

	// grad of sum is 1 everywhere; w -= 0.1
	assert.InDelta(t, 0.9, float64(w.Data().Data()[0]), 1e-6)
	assert.InDelta(t, -2.1, float64(w.Data().Data()[1]), 1e-6)
}

func TestSGDConvergesOnQuadratic(t *testing.T) {
	w := variable.Full(tensor.Shape{3}, 5).RequiresGrad()
	opt := NewSGD([]*variable.Var{w}, SGDConfig{LR: 0.1})

	loss := quadratic(w, 2)
	train(opt, loss, 50)
	for _, v := range w.Data().Data() {
		assert.InDelta(t, 2, float64(v), 1e-2)
	}
}

func TestSGDMomentumAcceleratesFirstSteps(t *testing.T) {
	plain := variable.Full(tensor.Shape{1}, 5).RequiresGrad()
	heavy := variable.Full(tensor.Shape{1}, 5).RequiresGrad()

	plainOpt := NewSGD([]*variable.Var{plain}, SGDConfig{LR: 0.05})
	heavyOpt := NewSGD([]*variable.Var{heavy}, SGDConfig{LR: 0.05, Momentum: 0.9})

	train(plainOpt, quadratic(plain, 0), 5)
	train(heavyOpt, quadratic(heavy, 0), 5)

	assert.Less(t, math.Abs(float64(heavy.Data().Data()[0])),
		math.Abs(float64(plain.Data().Data()[0])))
}

func TestZeroGrad(t *testing.T) {
	w := variable.Ones(tensor.Shape{2}).RequiresGrad()
	opt := NewSGD([]*variable.Var{w}, SGDConfig{})

	loss := w.Sum()
	loss.Forward()
	loss.Backward(1)
	assert.Equal(t, []float32{1, 1}, w.Grad().Data())

	opt.ZeroGrad()
	assert.Equal(t, []float32{0, 0}, w.Grad().Data())
}

func TestOptimizerRejectsConstants(t *testing.T) {
	c := variable.Ones(tensor.Shape{2})
	assert.Panics(t, func() { NewSGD([]*variable.Var{c}, SGDConfig{}) })
	assert.Panics(t, func() { NewAdam([]*variable.Var{c}, AdamConfig{}) })
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	w := variable.Full(tensor.Shape{4}, -3).RequiresGrad()
	opt := NewAdam([]*variable.Var{w}, AdamConfig{LR: 0.1})

	train(opt, quadratic(w, 1), 200)
	for _, v := range w.Data().Data() {
		assert.InDelta(t, 1, float64(v), 5e-2)
	}
}

func TestAdamFirstStepIsBounded(t *testing.T) {
	// bias correction keeps the very first update near lr in magnitude
	w := variable.Full(tensor.Shape{1}, 10).RequiresGrad()
	opt := NewAdam([]*variable.Var{w}, AdamConfig{LR: 0.001})

	loss := quadratic(w, 0)
	loss.Forward()
	loss.Backward(1)
	opt.Step()
	assert.InDelta(t, 10-0.001, float64(w.Data().Data()[0]), 1e-4)
}

func TestAMSGradConvergesOnQuadratic(t *testing.T) {
	w := variable.Full(tensor.Shape{2}, 4).RequiresGrad()
	opt := NewAMSGrad([]*variable.Var{w}, AdamConfig{LR: 0.1})

	train(opt, quadratic(w, -1), 200)
	for _, v := range w.Data().Data() {
		assert.InDelta(t, -1, float64(v), 5e-2)
	}
}

func TestAdaGradShrinksEffectiveRate(t *testing.T) {
	w := variable.Full(tensor.Shape{1}, 1).RequiresGrad()
	opt := NewAdaGrad([]*variable.Var{w}, AdaGradConfig{LR: 0.5})

	loss := w.Sum()
	loss.Forward()
	loss.Backward(1)
	opt.Step()
	first := 1 - w.Data().Data()[0]

	opt.ZeroGrad()
	loss.Forward()
	loss.Backward(1)
	before := w.Data().Data()[0]
	opt.Step()
	second := before - w.Data().Data()[0]

	assert.Less(t, float64(second), float64(first))
}

func TestRMSPropConvergesOnQuadratic(t *testing.T) {
	w := variable.Full(tensor.Shape{2}, 3).RequiresGrad()
	opt := NewRMSProp([]*variable.Var{w}, RMSPropConfig{LR: 0.01})

	train(opt, quadratic(w, 0), 300)
	for _, v := range w.Data().Data() {
		assert.InDelta(t, 0, float64(v), 5e-2)
	}
}

func TestL2PenaltyPullsWeightsDown(t *testing.T) {
	free := variable.Full(tensor.Shape{1}, 2).RequiresGrad()
	reg := variable.Full(tensor.Shape{1}, 2).RequiresGrad()

	freeOpt := NewSGD([]*variable.Var{free}, SGDConfig{LR: 0.05})
	regOpt := NewSGD([]*variable.Var{reg}, SGDConfig{LR: 0.05, Penalty: L2{Lambda: 0.5}})

	train(freeOpt, quadratic(free, 2), 20)
	train(regOpt, quadratic(reg, 2), 20)

	assert.InDelta(t, 2, float64(free.Data().Data()[0]), 1e-3)
	assert.Less(t, float64(reg.Data().Data()[0]), 2.0)
}

func TestL1PenaltyDerivative(t *testing.T) {
	p := L1{Lambda: 0.3}
	assert.Equal(t, float32(0.3), p.Derivative(5))
	assert.Equal(t, float32(-0.3), p.Derivative(-0.1))
	assert.Equal(t, float32(0), p.Derivative(0))
}

func TestElasticNetInterpolates(t *testing.T) {
	p := ElasticNet{Lambda: 1, Alpha: 0.5}
	// 0.5·sign(2) + 0.5·2 = 1.5
	assert.InDelta(t, 1.5, float64(p.Derivative(2)), 1e-6)
}

func TestStepLR(t *testing.T) {
	w := variable.Ones(tensor.Shape{1}).RequiresGrad()
	opt := NewSGD([]*variable.Var{w}, SGDConfig{LR: 1})
	sched := NewStepLR(opt, 2, 0.1)

	sched.Step()
	assert.InDelta(t, 1, float64(opt.LR()), 1e-6)
	sched.Step()
	assert.InDelta(t, 0.1, float64(opt.LR()), 1e-6)
	sched.Step()
	sched.Step()
	assert.InDelta(t, 0.01, float64(opt.LR()), 1e-6)
	assert.Equal(t, 4, sched.Epoch())

	assert.Panics(t, func() { NewStepLR(opt, 0, 0.1) })
}

func TestExponentialLR(t *testing.T) {
	w := variable.Ones(tensor.Shape{1}).RequiresGrad()
	opt := NewSGD([]*variable.Var{w}, SGDConfig{LR: 1})
	sched := NewExponentialLR(opt, 0.5)

	sched.Step()
	sched.Step()
	sched.Step()
	assert.InDelta(t, 0.125, float64(opt.LR()), 1e-6)
}

func TestLambdaLR(t *testing.T) {
	w := variable.Ones(tensor.Shape{1}).RequiresGrad()
	opt := NewSGD([]*variable.Var{w}, SGDConfig{LR: 2})
	sched := NewLambdaLR(opt, func(epoch int) float32 {
		return 1 / float32(epoch+1)
	})

	sched.Step()
	assert.InDelta(t, 1, float64(opt.LR()), 1e-6)
	sched.Step()
	assert.InDelta(t, 2.0/3, float64(opt.LR()), 1e-6)
}

func TestTrainingLoopEndToEnd(t *testing.T) {
	// fit y = 2x with a single linear weight
	w := variable.Full(tensor.Shape{1}, 0).RequiresGrad()
	x, _ := variable.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3})
	target, _ := variable.FromSlice([]float32{2, 4, 6}, tensor.Shape{1, 3})

	pred := w.Unsqueeze(0).Mm(x)
	loss := pred.SquaredError(target, variable.Mean)

	opt := NewSGD([]*variable.Var{w}, SGDConfig{LR: 0.05})
	train(opt, loss, 100)
	assert.InDelta(t, 2, float64(w.Data().Data()[0]), 1e-2)
}
