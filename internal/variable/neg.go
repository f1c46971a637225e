package variable

type negForward struct {
	operand, data *cell
}

func (n *negForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		od[i] = -v
	}
}

type negBackward struct {
	operandGrad *Gradient
	grad        *Gradient
}

func (n *negBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd := og.Data()
	for i, gv := range g.Data() {
		ogd[i] -= gv
	}
}

// Neg returns the element-wise negation of v.
func (v *Var) Neg() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &negForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &negBackward{operandGrad: v.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
