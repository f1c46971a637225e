package variable

import "github.com/tactics-ml/tactics/internal/tensor"

// meanForward reduces every element of the operand into its arithmetic
// mean, a rank-0 output.
type meanForward struct {
	operand, data *cell
}

func (n *meanForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	var acc float32
	id := in.Data()
	for _, v := range id {
		acc += v
	}
	out.Data()[0] = acc / float32(len(id))
}

// meanBackward spreads the scalar incoming gradient uniformly, scaled by
// one over the operand's element count.
type meanBackward struct {
	operandGrad *Gradient
	grad        *Gradient
}

func (n *meanBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd := og.Data()
	gv := g.Data()[0] / float32(len(ogd))
	for i := range ogd {
		ogd[i] += gv
	}
}

// Mean reduces v to a rank-0 scalar holding the mean of all its elements.
func (v *Var) Mean() *Var {
	out := newResult(tensor.Shape{}, v.grad != nil, v)
	rec := record{forward: &meanForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &meanBackward{operandGrad: v.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
