package variable

import "math"

type sqrtForward struct {
	operand, data *cell
}

func (n *sqrtForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(math.Sqrt(float64(v)))
	}
}

// sqrtBackward: d(√x)/dx = 1/(2·√x), reusing the node's own forward output
// instead of recomputing the root.
type sqrtBackward struct {
	operandGrad *Gradient
	data        *cell
	grad        *Gradient
}

func (n *sqrtBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	d := n.data.borrow()
	defer n.data.release()

	ogd, gd, dd := og.Data(), g.Data(), d.Data()
	for i := range ogd {
		ogd[i] += gd[i] / (2 * dd[i])
	}
}

// Sqrt returns the element-wise square root of v.
func (v *Var) Sqrt() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &sqrtForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &sqrtBackward{operandGrad: v.grad, data: out.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
