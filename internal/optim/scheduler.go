package optim

import "math"

// Scheduler adjusts an optimizer's learning rate between epochs. A
// training loop calls Step once per epoch after the optimization steps
// of that epoch.
type Scheduler interface {
	Step()
	Epoch() int
}

// StepLR decays the learning rate by gamma every stepSize epochs.
type StepLR struct {
	opt      Optimizer
	stepSize int
	gamma    float32
	epoch    int
}

// NewStepLR creates a StepLR scheduler. Panics if stepSize < 1.
func NewStepLR(opt Optimizer, stepSize int, gamma float32) *StepLR {
	if stepSize < 1 {
		panic("optim: StepLR step size must be at least 1")
	}
	return &StepLR{opt: opt, stepSize: stepSize, gamma: gamma}
}

func (s *StepLR) Step() {
	s.epoch++
	if s.epoch%s.stepSize == 0 {
		s.opt.SetLR(s.opt.LR() * s.gamma)
	}
}

func (s *StepLR) Epoch() int { return s.epoch }

// ExponentialLR decays the learning rate by gamma every epoch.
type ExponentialLR struct {
	opt   Optimizer
	gamma float32
	epoch int
}

// NewExponentialLR creates an ExponentialLR scheduler.
func NewExponentialLR(opt Optimizer, gamma float32) *ExponentialLR {
	return &ExponentialLR{opt: opt, gamma: gamma}
}

func (s *ExponentialLR) Step() {
	s.epoch++
	s.opt.SetLR(s.opt.LR() * s.gamma)
}

func (s *ExponentialLR) Epoch() int { return s.epoch }

// LambdaLR sets the learning rate to the base rate times a caller
// supplied factor of the epoch number.
type LambdaLR struct {
	opt    Optimizer
	baseLR float32
	fn     func(epoch int) float32
	epoch  int
}

// NewLambdaLR creates a LambdaLR scheduler. The optimizer's learning
// rate at construction time is the base rate.
func NewLambdaLR(opt Optimizer, fn func(epoch int) float32) *LambdaLR {
	return &LambdaLR{opt: opt, baseLR: opt.LR(), fn: fn}
}

func (s *LambdaLR) Step() {
	s.epoch++
	factor := s.fn(s.epoch)
	if math.IsNaN(float64(factor)) || math.IsInf(float64(factor), 0) {
		panic("optim: LambdaLR factor is not finite")
	}
	s.opt.SetLR(s.baseLR * factor)
}

func (s *LambdaLR) Epoch() int { return s.epoch }
