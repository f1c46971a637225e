package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// addForward computes left + right with NumPy broadcasting.
type addForward struct {
	left, right, data *cell
}

func (n *addForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	ld, rd, od := l.Data(), r.Data(), out.Data()
	tensor.ZipBroadcast(out.Shape(), l.Shape(), r.Shape(), func(i, il, ir int) {
		od[i] = ld[il] + rd[ir]
	})
}

// addBackward passes the gradient through unchanged to each differentiable
// operand, reduced over broadcast axes as needed.
type addBackward struct {
	leftGrad, rightGrad *Gradient
	grad                *Gradient
}

func (n *addBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	if n.leftGrad != nil {
		n.leftGrad.Accumulate(g)
	}
	if n.rightGrad != nil {
		n.rightGrad.Accumulate(g)
	}
}

// Add returns the element-wise, broadcasting sum of v and other.
func (v *Var) Add(other *Var) *Var {
	shape, err := tensor.BroadcastShapes(v.Shape(), other.Shape())
	if err != nil {
		panic(fmt.Sprintf("variable: add: %v", err))
	}

	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &addForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &addBackward{leftGrad: v.grad, rightGrad: other.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
