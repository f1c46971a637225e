package variable

// leakyReLUSlope is the fixed negative-half slope.
const leakyReLUSlope = 0.01

type leakyReLUForward struct {
	operand, data *cell
}

func (n *leakyReLUForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od := out.Data()
	for i, v := range in.Data() {
		if v > 0 {
			od[i] = v
		} else {
			od[i] = leakyReLUSlope * v
		}
	}
}

type leakyReLUBackward struct {
	operandGrad *Gradient
	operandData *cell
	grad        *Gradient
}

func (n *leakyReLUBackward) Backward() {
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
		} else {
			ogd[i] += gd[i] * leakyReLUSlope
		}
	}
}

// LeakyReLU returns x for x > 0 and 0.01·x otherwise.
func (v *Var) LeakyReLU() *Var {
	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &leakyReLUForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &leakyReLUBackward{operandGrad: v.grad, operandData: v.data, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
