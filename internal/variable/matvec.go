package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

func checkVector(shape tensor.Shape, op string) {
	if len(shape) != 1 {
		panic(fmt.Sprintf("variable: %s requires a vector operand, got shape %v", op, shape))
	}
}

// mvForward computes the matrix-vector product of a rank-2 left operand
// and a rank-1 right operand.
type mvForward struct {
	left, right, data *cell
}

func (n *mvForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	m, k := l.Shape()[0], l.Shape()[1]
	matMul(out.Data(), l.Data(), r.Data(), m, k, 1, false, false, false)
}

// mvBackward deposits the outer product grad⊗vector into the matrix
// gradient and matrixᵀ·grad into the vector gradient.
type mvBackward struct {
	leftGrad, rightGrad *Gradient
	left, right         *cell
	grad                *Gradient
}

func (n *mvBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	gd := g.Data()

	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		r := n.right.borrow()
		ogd, rd := og.Data(), r.Data()
		k := len(rd)
		for i, gv := range gd {
			for j, rv := range rd {
				ogd[i*k+j] += gv * rv
			}
		}
		n.right.release()
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		l := n.left.borrow()
		matMul(og.Data(), l.Data(), gd, l.Shape()[1], len(gd), 1, true, false, true)
		n.left.release()
		n.rightGrad.cell.releaseMut()
	}
}

// Mv computes the matrix-vector product v·other. v must be [m, n] and
// other [n]; the result is [m].
func (v *Var) Mv(other *Var) *Var {
	checkMatrix(v.Shape(), "Mv")
	checkVector(other.Shape(), "Mv")
	if v.Shape()[1] != other.Shape()[0] {
		panic(fmt.Sprintf("variable: Mv dimensions disagree: %v x %v", v.Shape(), other.Shape()))
	}

	out := newResult(tensor.Shape{v.Shape()[0]}, anyDiff(v, other), v, other)
	rec := record{forward: &mvForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &mvBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			left: v.data, right: other.data, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
