package variable

import "math"

type sigmoidForward struct {
	operand, data *cell
}

func (n *sigmoidForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(1 / (1 + math.Exp(float64(-v))))
	}
}

// sigmoidBackward: dσ/dx = σ·(1-σ), taken from the node's own output so the
// exponential is not recomputed.
type sigmoidBackward struct {
	operandGrad *Gradient
	data        *cell
	grad        *Gradient
}

func (n *sigmoidBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	d := n.data.borrow()
	defer n.data.release()

	ogd, gd, dd := og.Data(), g.Data(), d.Data()
	for i := range ogd {
		ogd[i] += gd[i] * dd[i] * (1 - dd[i])
	}
}

// Sigmoid returns 1/(1+e⁻ˣ) element-wise.
func (v *Var) Sigmoid() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &sigmoidForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &sigmoidBackward{operandGrad: v.grad, data: out.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
