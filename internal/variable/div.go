package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

type divForward struct {
	left, right, data *cell
}

func (n *divForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	ld, rd, od := l.Data(), r.Data(), out.Data()
	tensor.ZipBroadcast(out.Shape(), l.Shape(), r.Shape(), func(i, il, ir int) {
		od[i] = ld[il] / rd[ir]
	})
}

// divBackward: d(l/r)/dl = 1/r, d(l/r)/dr = -l/r².
type divBackward struct {
	leftData, rightData *cell
	leftGrad, rightGrad *Gradient
	grad                *Gradient
}

func (n *divBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	l := n.leftData.borrow()
	defer n.leftData.release()
	r := n.rightData.borrow()
	defer n.rightData.release()

	gd, ld, rd := g.Data(), l.Data(), r.Data()

	if n.leftGrad != nil {
		contrib := tensor.Zeros(g.Shape())
		cd := contrib.Data()
		tensor.ZipBroadcast(g.Shape(), l.Shape(), r.Shape(), func(i, _, ir int) {
			cd[i] = gd[i] / rd[ir]
		})
		n.leftGrad.Accumulate(contrib)
	}
	if n.rightGrad != nil {
		contrib := tensor.Zeros(g.Shape())
		cd := contrib.Data()
		tensor.ZipBroadcast(g.Shape(), l.Shape(), r.Shape(), func(i, il, ir int) {
			cd[i] = -gd[i] * ld[il] / (rd[ir] * rd[ir])
		})
		n.rightGrad.Accumulate(contrib)
	}
}

// Div returns the element-wise, broadcasting quotient of v and other.
func (v *Var) Div(other *Var) *Var {
	shape, err := tensor.BroadcastShapes(v.Shape(), other.Shape())
	if err != nil {
		panic(fmt.Sprintf("variable: div: %v", err))
	}

	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &divForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &divBackward{
			leftData: v.data, rightData: other.data,
			leftGrad: v.grad, rightGrad: other.grad,
			grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
