package variable

import "math"

type softPlusForward struct {
	operand, data *cell
}

func (n *softPlusForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = float32(math.Log1p(math.Exp(float64(v))))
	}
}

// softPlusBackward: d(ln(1+eˣ))/dx = σ(x), from the operand's forward value.
type softPlusBackward struct {
	operandGrad *Gradient
	operandData *cell
	grad        *Gradient
}

func (n *softPlusBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	in := n.operandData.borrow()
	defer n.operandData.release()

	ogd, gd, id := og.Data(), g.Data(), in.Data()
	for i := range ogd {
		ogd[i] += gd[i] * float32(1/(1+math.Exp(float64(-id[i]))))
	}
}

// SoftPlus returns ln(1+eˣ) element-wise.
func (v *Var) SoftPlus() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &softPlusForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &softPlusBackward{operandGrad: v.grad, operandData: v.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
