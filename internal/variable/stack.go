package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// stackForward alternates contiguous blocks of the two equally shaped
// operands along a freshly inserted axis.
type stackForward struct {
	left, right, data *cell
	block             int
}

func (n *stackForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	od, ld, rd := out.Data(), l.Data(), r.Data()
	outer := len(ld) / n.block
	for o := 0; o < outer; o++ {
		dst := o * 2 * n.block
		copy(od[dst:dst+n.block], ld[o*n.block:])
		copy(od[dst+n.block:dst+2*n.block], rd[o*n.block:])
	}
}

// stackBackward routes alternating gradient blocks back to their operand.
type stackBackward struct {
	leftGrad, rightGrad *Gradient
	block               int
	grad                *Gradient
}

func (n *stackBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	gd := g.Data()
	outer := len(gd) / (2 * n.block)
	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		ogd := og.Data()
		for o := 0; o < outer; o++ {
			src := o * 2 * n.block
			for i := 0; i < n.block; i++ {
				ogd[o*n.block+i] += gd[src+i]
			}
		}
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		ogd := og.Data()
		for o := 0; o < outer; o++ {
			src := o*2*n.block + n.block
			for i := 0; i < n.block; i++ {
				ogd[o*n.block+i] += gd[src+i]
			}
		}
		n.rightGrad.cell.releaseMut()
	}
}

// Stack joins v and other along a new axis inserted at position axis.
// The operands must have identical shapes; the new axis has size two.
func (v *Var) Stack(other *Var, axis int) *Var {
	if !v.Shape().Equal(other.Shape()) {
		panic(fmt.Sprintf("variable: Stack shapes disagree: %v vs %v", v.Shape(), other.Shape()))
	}
	if axis < 0 || axis > len(v.Shape()) {
		panic(fmt.Sprintf("variable: Stack axis %d out of range for shape %v", axis, v.Shape()))
	}

	shape := make(tensor.Shape, 0, len(v.Shape())+1)
	shape = append(shape, v.Shape()[:axis]...)
	shape = append(shape, 2)
	shape = append(shape, v.Shape()[axis:]...)

	block := 1
	for _, d := range v.Shape()[axis:] {
		block *= d
	}

	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &stackForward{left: v.data, right: other.data, data: out.data, block: block}}
	if out.grad != nil {
		rec.backward = &stackBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			block: block, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
