package variable

import "math"

type expForward struct {
	operand, data *cell
}

func (n *expForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(math.Exp(float64(v)))
	}
}

// expBackward: d(eˣ)/dx = eˣ, the node's own output.
type expBackward struct {
	operandGrad *Gradient
	data        *cell
	grad        *Gradient
}

func (n *expBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	d := n.data.borrow()
	defer n.data.release()

	ogd, gd, dd := og.Data(), g.Data(), d.Data()
	for i := range ogd {
		ogd[i] += gd[i] * dd[i]
	}
}

// Exp returns the element-wise natural exponential of v.
func (v *Var) Exp() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &expForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &expBackward{operandGrad: v.grad, data: out.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
