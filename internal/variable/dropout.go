package variable

import (
	"fmt"
	"math/rand"
)

// DropoutStatus switches every dropout node that shares it between
// training and evaluation behavior.
type DropoutStatus struct {
	train bool
}

// NewDropoutStatus returns a status in training mode.
func NewDropoutStatus() *DropoutStatus {
	return &DropoutStatus{train: true}
}

// Train enables stochastic masking.
func (s *DropoutStatus) Train() { s.train = true }

// Eval makes dropout an identity map.
func (s *DropoutStatus) Eval() { s.train = false }

// Training reports whether stochastic masking is active.
func (s *DropoutStatus) Training() bool { return s.train }

// dropoutForward zeroes each element with probability p and scales the
// survivors by 1/(1-p), resampling the mask on every pass. The mask is
// kept for the matching backward.
type dropoutForward struct {
	operand, data *cell
	mask          []float32
	p             float64
	rng           *rand.Rand
	status        *DropoutStatus
}

func (n *dropoutForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od, id := out.Data(), in.Data()
	if !n.status.train || n.p == 0 {
		for i := range n.mask {
			n.mask[i] = 1
		}
		copy(od, id)
		return
	}
	if n.p == 1 {
		for i := range n.mask {
			n.mask[i] = 0
		}
		out.Zero()
		return
	}

	scale := float32(1 / (1 - n.p))
	for i, v := range id {
		if n.rng.Float64() < n.p {
			n.mask[i] = 0
			od[i] = 0
		} else {
			n.mask[i] = scale
			od[i] = v * scale
		}
	}
}

// dropoutBackward replays the forward mask onto the incoming gradient.
type dropoutBackward struct {
	operandGrad *Gradient
	mask        []float32
	grad        *Gradient
}

func (n *dropoutBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd := og.Data()
	for i, gv := range g.Data() {
		ogd[i] += gv * n.mask[i]
	}
}

// Dropout zeroes each element of v with probability p while status is in
// training mode, scaling the rest by 1/(1-p) so the expectation is
// unchanged. In evaluation mode it is the identity.
func (v *Var) Dropout(p float64, status *DropoutStatus, rng *rand.Rand) *Var {
	if p < 0 || p > 1 {
		panic(fmt.Sprintf("variable: Dropout probability %v outside [0, 1]", p))
	}

	out := newResult(v.Shape(), v.grad != nil, v)
	mask := make([]float32, v.Shape().NumElements())
	rec := record{forward: &dropoutForward{
		operand: v.data, data: out.data,
		mask: mask, p: p, rng: rng, status: status,
	}}
	if out.grad != nil {
		rec.backward = &dropoutBackward{operandGrad: v.grad, mask: mask, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
