package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// vmForward computes the vector-matrix product of a rank-1 left operand
// and a rank-2 right operand.
type vmForward struct {
	left, right, data *cell
}

func (n *vmForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	k := l.Shape()[0]
	matMul(out.Data(), l.Data(), r.Data(), 1, k, r.Shape()[1], false, false, false)
}

// vmBackward deposits matrix·grad into the vector gradient and the outer
// product vector⊗grad into the matrix gradient.
type vmBackward struct {
	leftGrad, rightGrad *Gradient
	left, right         *cell
	grad                *Gradient
}

func (n *vmBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	gd := g.Data()

	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		r := n.right.borrow()
		matMul(og.Data(), r.Data(), gd, r.Shape()[0], len(gd), 1, false, false, true)
		n.right.release()
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		l := n.left.borrow()
		ogd, ld := og.Data(), l.Data()
		nn := len(gd)
		for i, lv := range ld {
			for j, gv := range gd {
				ogd[i*nn+j] += lv * gv
			}
		}
		n.left.release()
		n.rightGrad.cell.releaseMut()
	}
}

// Vm computes the vector-matrix product v·other. v must be [m] and other
// [m, n]; the result is [n].
func (v *Var) Vm(other *Var) *Var {
	checkVector(v.Shape(), "Vm")
	checkMatrix(other.Shape(), "Vm")
	if v.Shape()[0] != other.Shape()[0] {
		panic(fmt.Sprintf("variable: Vm dimensions disagree: %v x %v", v.Shape(), other.Shape()))
	}

	out := newResult(tensor.Shape{other.Shape()[1]}, anyDiff(v, other), v, other)
	rec := record{forward: &vmForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &vmBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			left: v.data, right: other.data, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
