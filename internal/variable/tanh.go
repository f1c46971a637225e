package variable

import "math"

type tanhForward struct {
	operand, data *cell
}

func (n *tanhForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(math.Tanh(float64(v)))
	}
}

// tanhBackward: d(tanh x)/dx = 1 - tanh²x, from the node's own output.
type tanhBackward struct {
	operandGrad *Gradient
	data        *cell
	grad        *Gradient
}

func (n *tanhBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	d := n.data.borrow()
	defer n.data.release()

	ogd, gd, dd := og.Data(), g.Data(), d.Data()
	for i := range ogd {
		ogd[i] += gd[i] * (1 - dd[i]*dd[i])
	}
}

// Tanh returns the element-wise hyperbolic tangent of v.
func (v *Var) Tanh() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &tanhForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &tanhBackward{operandGrad: v.grad, data: out.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
