package variable

type reluForward struct {
	operand, data *cell
}

func (n *reluForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		if v > 0 {
			od[i] = v
		} else {
			od[i] = 0
		}
	}
}

// reluBackward gates the gradient on the operand's pre-activation value,
// not on the output.
type reluBackward struct {
	operandGrad *Gradient
	operandData *cell
	grad        *Gradient
}

func (n *reluBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	in := n.operandData.borrow()
	defer n.operandData.release()

	ogd, gd, id := og.Data(), g.Data(), in.Data()
	for i := range ogd {
		if id[i] > 0 {
			ogd[i] += gd[i]
		}
	}
}

// ReLU returns max(0, x) element-wise.
func (v *Var) ReLU() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &reluForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &reluBackward{operandGrad: v.grad, operandData: v.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
