package variable

import "fmt"

// catForward interleaves contiguous blocks of the two operands along the
// concatenation axis.
type catForward struct {
	left, right, data *cell
	axis              int
}

func (n *catForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	od, ld, rd := out.Data(), l.Data(), r.Data()
	outer, _, inner := axisDims(l.Shape(), n.axis)
	lBlock := l.Shape()[n.axis] * inner
	rBlock := r.Shape()[n.axis] * inner
	for o := 0; o < outer; o++ {
		dst := o * (lBlock + rBlock)
		copy(od[dst:dst+lBlock], ld[o*lBlock:])
		copy(od[dst+lBlock:dst+lBlock+rBlock], rd[o*rBlock:])
	}
}

// catBackward splits the incoming gradient back into the operands' blocks.
type catBackward struct {
	leftGrad, rightGrad *Gradient
	lBlock, rBlock      int
	grad                *Gradient
}

func (n *catBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	gd := g.Data()
	block := n.lBlock + n.rBlock
	outer := len(gd) / block
	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		ogd := og.Data()
		for o := 0; o < outer; o++ {
			src := o * block
			for i := 0; i < n.lBlock; i++ {
				ogd[o*n.lBlock+i] += gd[src+i]
			}
		}
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		ogd := og.Data()
		for o := 0; o < outer; o++ {
			src := o*block + n.lBlock
			for i := 0; i < n.rBlock; i++ {
				ogd[o*n.rBlock+i] += gd[src+i]
			}
		}
		n.rightGrad.cell.releaseMut()
	}
}

// Cat concatenates v and other along axis. The operands must agree on
// every other dimension.
func (v *Var) Cat(other *Var, axis int) *Var {
	checkAxis(v.Shape(), axis)
	if len(v.Shape()) != len(other.Shape()) {
		panic(fmt.Sprintf("variable: Cat rank mismatch: %v vs %v", v.Shape(), other.Shape()))
	}
	for d, size := range v.Shape() {
		if d != axis && other.Shape()[d] != size {
			panic(fmt.Sprintf("variable: Cat shapes %v and %v differ outside axis %d", v.Shape(), other.Shape(), axis))
		}
	}

	shape := v.Shape().Clone()
	shape[axis] += other.Shape()[axis]
	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &catForward{left: v.data, right: other.data, data: out.data, axis: axis}}
	if out.grad != nil {
		_, _, inner := axisDims(v.Shape(), axis)
		rec.backward = &catBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			lBlock: v.Shape()[axis] * inner, rBlock: other.Shape()[axis] * inner,
			grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
