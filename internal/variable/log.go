package variable

import "math"

type lnForward struct {
	operand, data *cell
}

func (n *lnForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(math.Log(float64(v)))
	}
}

// lnBackward: d(ln x)/dx = 1/x, using the operand's forward value.
type lnBackward struct {
	operandGrad *Gradient
	operandData *cell
	grad        *Gradient
}

func (n *lnBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	in := n.operandData.borrow()
	defer n.operandData.release()

	ogd, gd, id := og.Data(), g.Data(), in.Data()
	for i := range ogd {
		ogd[i] += gd[i] / id[i]
	}
}

// Ln returns the element-wise natural logarithm of v.
// Operand values must be positive.
func (v *Var) Ln() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &lnForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &lnBackward{operandGrad: v.grad, operandData: v.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
