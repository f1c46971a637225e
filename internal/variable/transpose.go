package variable

import "github.com/tactics-ml/tactics/internal/tensor"

// transposeForward writes the transpose of a rank-2 operand into the
// output.
type transposeForward struct {
	operand, data *cell
}

func (n *transposeForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od, id := out.Data(), in.Data()
	rows, cols := in.Shape()[0], in.Shape()[1]
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			od[j*rows+i] = id[i*cols+j]
		}
	}
}

// transposeBackward transposes the incoming gradient back onto the
// operand's layout.
type transposeBackward struct {
	operandGrad *Gradient
	grad        *Gradient
}

func (n *transposeBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd, gd := og.Data(), g.Data()
	rows, cols := g.Shape()[0], g.Shape()[1]
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			ogd[j*rows+i] += gd[i*cols+j]
		}
	}
}

// T returns the transpose of a rank-2 variable.
func (v *Var) T() *Var {
	checkMatrix(v.Shape(), "T")

	shape := tensor.Shape{v.Shape()[1], v.Shape()[0]}
	out := newResult(shape, v.grad != nil, v)
	rec := record{forward: &transposeForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &transposeBackward{operandGrad: v.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
