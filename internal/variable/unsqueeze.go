package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// unsqueezeForward copies the operand verbatim; only the shape changes.
type unsqueezeForward struct {
	operand, data *cell
}

func (n *unsqueezeForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	copy(out.Data(), in.Data())
}

// unsqueezeBackward adds the incoming gradient element for element; the
// inserted axis has size one so the layouts coincide.
type unsqueezeBackward struct {
	operandGrad *Gradient
	grad        *Gradient
}

func (n *unsqueezeBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd := og.Data()
	for i, gv := range g.Data() {
		ogd[i] += gv
	}
}

// Unsqueeze inserts a size-one axis at position axis. axis may equal the
// rank, which appends a trailing axis.
func (v *Var) Unsqueeze(axis int) *Var {
	if axis < 0 || axis > len(v.Shape()) {
		panic(fmt.Sprintf("variable: Unsqueeze axis %d out of range for shape %v", axis, v.Shape()))
	}

	shape := make(tensor.Shape, 0, len(v.Shape())+1)
	shape = append(shape, v.Shape()[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, v.Shape()[axis:]...)

	out := newResult(shape, v.grad != nil, v)
	rec := record{forward: &unsqueezeForward{operand: v.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &unsqueezeBackward{operandGrad: v.grad, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
