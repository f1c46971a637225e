package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Gradient is a node's gradient accumulator: a shared buffer, shaped like
// the node's output, into which every consumer of that node adds its
// contribution.
//
// Within a backward pass contributions accumulate, they never overwrite.
// Across passes the engine resets the accumulators of recorded nodes before
// propagating again, while leaf accumulators keep their running sum;
// zeroing those between optimizer steps is the optimizer's job.
type Gradient struct {
	cell *cell
}

func newGradient(shape tensor.Shape) *Gradient {
	return &Gradient{cell: newCell(tensor.Zeros(shape))}
}

// Shape returns the accumulator's shape.
func (g *Gradient) Shape() tensor.Shape {
	return g.cell.buf.Shape()
}

// Buffer returns the live accumulator buffer. Callers must not hold it
// across a Backward pass.
func (g *Gradient) Buffer() *tensor.Buffer {
	return g.cell.buf
}

// Accumulate adds delta element-wise into the accumulator. If delta carries
// a broadcast shape (larger than the accumulator's), it is reduced by
// summation along the broadcast axes first, restoring the operand's
// original shape.
func (g *Gradient) Accumulate(delta *tensor.Buffer) {
	dst := g.cell.borrowMut()
	defer g.cell.releaseMut()

	if _, err := tensor.BroadcastShapes(dst.Shape(), delta.Shape()); err != nil {
		panic(fmt.Sprintf("variable: gradient contribution shape %v incompatible with accumulator shape %v",
			delta.Shape(), dst.Shape()))
	}
	tensor.ReduceInto(dst, delta)
}

// AccumulateScalar adds seed to every element of the accumulator. Used to
// seed the root of a backward pass from an upstream scalar.
func (g *Gradient) AccumulateScalar(seed float32) {
	dst := g.cell.borrowMut()
	defer g.cell.releaseMut()

	data := dst.Data()
	for i := range data {
		data[i] += seed
	}
}

// Zero resets the accumulator. Only external callers (optimizers) invoke
// it; the engine never zeroes implicitly.
func (g *Gradient) Zero() {
	dst := g.cell.borrowMut()
	defer g.cell.releaseMut()
	dst.Zero()
}
