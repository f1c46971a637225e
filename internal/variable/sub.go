package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

type subForward struct {
	left, right, data *cell
}

func (n *subForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	ld, rd, od := l.Data(), r.Data(), out.Data()
	tensor.ZipBroadcast(out.Shape(), l.Shape(), r.Shape(), func(i, il, ir int) {
		od[i] = ld[il] - rd[ir]
	})
}

// subBackward passes the gradient through with a sign flip for the right
// operand.
type subBackward struct {
	leftGrad, rightGrad *Gradient
	grad                *Gradient
}

func (n *subBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	if n.leftGrad != nil {
		n.leftGrad.Accumulate(g)
	}
	if n.rightGrad != nil {
		neg := tensor.Zeros(g.Shape())
		nd := neg.Data()
		for i, gv := range g.Data() {
			nd[i] = -gv
		}
		n.rightGrad.Accumulate(neg)
	}
}

// Sub returns the element-wise, broadcasting difference of v and other.
func (v *Var) Sub(other *Var) *Var {
	shape, err := tensor.BroadcastShapes(v.Shape(), other.Shape())
	if err != nil {
		panic(fmt.Sprintf("variable: sub: %v", err))
	}

	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &subForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &subBackward{leftGrad: v.grad, rightGrad: other.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
