package variable

import "math"

type powForward struct {
	operand, data *cell
	exp           int
}

func (n *powForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(math.Pow(float64(v), float64(n.exp)))
	}
}

// powBackward: d(xⁿ)/dx = n·xⁿ⁻¹, using the operand's forward value.
type powBackward struct {
	operandGrad *Gradient
	operandData *cell
	grad        *Gradient
	exp         int
}

func (n *powBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	in := n.operandData.borrow()
	defer n.operandData.release()

	ogd, gd, id := og.Data(), g.Data(), in.Data()
	for i := range ogd {
		ogd[i] += gd[i] * float32(n.exp) * float32(math.Pow(float64(id[i]), float64(n.exp-1)))
	}
}

// Pow raises every element of v to the integer power exp.
func (v *Var) Pow(exp int) *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &powForward{operand: v.data, data: out.data, exp: exp}}
	if out.grad != nil {
		rec.backward = &powBackward{operandGrad: v.grad, operandData: v.data, grad: out.grad, exp: exp}
	}
	out.insertRecord(rec)
	return out
}
