package variable

import "fmt"

// chunkForward copies one equally sized slice of the operand along the
// chunked axis. Each chunk is its own graph node.
type chunkForward struct {
	operand, data *cell
	offset, block int
}

func (n *chunkForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od, id := out.Data(), in.Data()
	outer := len(od) / n.block
	srcBlock := len(id) / outer
	for o := 0; o < outer; o++ {
		src := o*srcBlock + n.offset
		copy(od[o*n.block:(o+1)*n.block], id[src:src+n.block])
	}
}

// chunkBackward deposits the incoming gradient into its slice of the
// operand's gradient.
type chunkBackward struct {
	operandGrad   *Gradient
	offset, block int
	grad          *Gradient
}

func (n *chunkBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd, gd := og.Data(), g.Data()
	outer := len(gd) / n.block
	dstBlock := len(ogd) / outer
	for o := 0; o < outer; o++ {
		dst := o*dstBlock + n.offset
		for i := 0; i < n.block; i++ {
			ogd[dst+i] += gd[o*n.block+i]
		}
	}
}

// Chunk splits v into n equally sized variables along axis. The axis
// size must be divisible by n.
func (v *Var) Chunk(axis, n int) []*Var {
	checkAxis(v.Shape(), axis)
	if n < 1 || v.Shape()[axis]%n != 0 {
		panic(fmt.Sprintf("variable: Chunk cannot split axis %d of shape %v into %d parts", axis, v.Shape(), n))
	}

	_, _, inner := axisDims(v.Shape(), axis)
	size := v.Shape()[axis] / n
	block := size * inner

	shape := v.Shape().Clone()
	shape[axis] = size

	chunks := make([]*Var, n)
	for c := range chunks {
		out := newResult(shape, v.grad != nil, v)
		rec := record{forward: &chunkForward{
			operand: v.data, data: out.data,
			offset: c * block, block: block,
		}}
		if out.grad != nil {
			rec.backward = &chunkBackward{
				operandGrad: v.grad,
				offset:      c * block, block: block,
				grad: out.grad,
			}
		}
		out.insertRecord(rec)
		chunks[c] = out
	}
	return chunks
}
