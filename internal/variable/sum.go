package variable

import "github.com/tactics-ml/tactics/internal/tensor"

// sumForward reduces every element of the operand into a rank-0 output.
type sumForward struct {
	operand, data *cell
}

func (n *sumForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	var acc float32
	for _, v := range in.Data() {
		acc += v
	}
	out.Data()[0] = acc
}

// sumBackward broadcasts the scalar incoming gradient back over the
// operand's full shape.
type sumBackward struct {
	operandGrad *Gradient
	grad        *Gradient
}

func (n *sumBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	gv := g.Data()[0]
	ogd := og.Data()
	for i := range ogd {
		ogd[i] += gv
	}
}

// Sum reduces v to a rank-0 scalar holding the sum of all its elements.
func (v *Var) Sum() *Var {
	out := newResult(tensor.Shape{}, v.grad != nil, v)
	rec := record{forward: &sumForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &sumBackward{operandGrad: v.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
