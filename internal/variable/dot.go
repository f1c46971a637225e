package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// dotForward computes the inner product of two rank-1 operands into a
// rank-0 output.
type dotForward struct {
	left, right, data *cell
}

func (n *dotForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	ld, rd := l.Data(), r.Data()
	var acc float32
	for i, lv := range ld {
		acc += lv * rd[i]
	}
	out.Data()[0] = acc
}

// dotBackward scales each operand by the incoming scalar gradient and
// deposits it into the other operand's gradient.
type dotBackward struct {
	leftGrad, rightGrad *Gradient
	left, right         *cell
	grad                *Gradient
}

func (n *dotBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	gv := g.Data()[0]

	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		r := n.right.borrow()
		ogd := og.Data()
		for i, rv := range r.Data() {
			ogd[i] += gv * rv
		}
		n.right.release()
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		l := n.left.borrow()
		ogd := og.Data()
		for i, lv := range l.Data() {
			ogd[i] += gv * lv
		}
		n.left.release()
		n.rightGrad.cell.releaseMut()
	}
}

// Dot computes the inner product of two vectors of equal length as a
// rank-0 scalar.
func (v *Var) Dot(other *Var) *Var {
	checkVector(v.Shape(), "Dot")
	checkVector(other.Shape(), "Dot")
	if v.Shape()[0] != other.Shape()[0] {
		panic(fmt.Sprintf("variable: Dot lengths disagree: %v x %v", v.Shape(), other.Shape()))
	}

	out := newResult(tensor.Shape{}, anyDiff(v, other), v, other)
	rec := record{forward: &dotForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &dotBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			left: v.data, right: other.data, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
