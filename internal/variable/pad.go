package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// PaddingMode decides what a border position of a padded tensor holds.
// sourceIndex maps an out-of-range coordinate back into [0, size); ok is
// false when the position is filled with fillValue instead.
type PaddingMode interface {
	sourceIndex(j, size int) (int, bool)
	fillValue() float32
}

// Zero fills the border with zeros.
type Zero struct{}

func (Zero) sourceIndex(int, int) (int, bool) { return 0, false }
func (Zero) fillValue() float32               { return 0 }

// Constant fills the border with a fixed value.
type Constant struct {
	Value float32
}

func (Constant) sourceIndex(int, int) (int, bool) { return 0, false }
func (c Constant) fillValue() float32             { return c.Value }

// Reflective mirrors the input across its edges, excluding the edge
// element itself. Padding must be smaller than the padded axis.
type Reflective struct{}

func (Reflective) sourceIndex(j, size int) (int, bool) {
	if j < 0 {
		return -j, true
	}
	return 2*(size-1) - j, true
}

func (Reflective) fillValue() float32 { return 0 }

// Replicative repeats the edge element of the input across the border.
type Replicative struct{}

func (Replicative) sourceIndex(j, size int) (int, bool) {
	if j < 0 {
		return 0, true
	}
	return size - 1, true
}

func (Replicative) fillValue() float32 { return 0 }

// padMap resolves an output coordinate vector to a flat source index.
// ok is false when the position is a filled border element.
func padMap(coords []int, inShape tensor.Shape, inStrides, pad []int, mode PaddingMode) (int, bool) {
	lead := len(inShape) - len(pad)
	src := 0
	for d, j := range coords {
		if d >= lead {
			j -= pad[d-lead]
			if j < 0 || j >= inShape[d] {
				mapped, ok := mode.sourceIndex(j, inShape[d])
				if !ok {
					return 0, false
				}
				j = mapped
			}
		}
		src += j * inStrides[d]
	}
	return src, true
}

func advance(coords []int, shape tensor.Shape) {
	for d := len(coords) - 1; d >= 0; d-- {
		coords[d]++
		if coords[d] < shape[d] {
			return
		}
		coords[d] = 0
	}
}

// padForward copies the interior and resolves every border position per
// the padding mode.
type padForward struct {
	operand, data *cell
	pad           []int
	mode          PaddingMode
}

func (n *padForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od, id := out.Data(), in.Data()
	coords := make([]int, len(out.Shape()))
	for i := range od {
		if src, ok := padMap(coords, in.Shape(), in.Strides(), n.pad, n.mode); ok {
			od[i] = id[src]
		} else {
			od[i] = n.mode.fillValue()
		}
		advance(coords, out.Shape())
	}
}

// padBackward routes each border gradient back to the source position it
// mirrored or replicated; filled positions contribute nothing.
type padBackward struct {
	operandGrad *Gradient
	pad         []int
	mode        PaddingMode
	grad        *Gradient
}

func (n *padBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()

	ogd, gd := og.Data(), g.Data()
	coords := make([]int, len(g.Shape()))
	for i := range gd {
		if src, ok := padMap(coords, og.Shape(), og.Strides(), n.pad, n.mode); ok {
			ogd[src] += gd[i]
		}
		advance(coords, g.Shape())
	}
}

// Pad pads the last len(padding) axes of v symmetrically, padding[i]
// elements on each side, resolving the border per mode.
func (v *Var) Pad(padding []int, mode PaddingMode) *Var {
	if len(padding) == 0 || len(padding) > len(v.Shape()) {
		panic(fmt.Sprintf("variable: Pad with %d amounts over shape %v", len(padding), v.Shape()))
	}
	lead := len(v.Shape()) - len(padding)
	for i, p := range padding {
		if p < 0 {
			panic(fmt.Sprintf("variable: Pad amount %d is negative", p))
		}
		if _, reflective := mode.(Reflective); reflective && p >= v.Shape()[lead+i] {
			panic(fmt.Sprintf("variable: reflective padding %d too large for axis of size %d", p, v.Shape()[lead+i]))
		}
	}

	shape := v.Shape().Clone()
	for i, p := range padding {
		shape[lead+i] += 2 * p
	}
	pad := append([]int(nil), padding...)

	out := newResult(shape, v.grad != nil, v)
	rec := record{forward: &padForward{operand: v.data, data: out.data, pad: pad, mode: mode}}
	if out.grad != nil {
		rec.backward = &padBackward{operandGrad: v.grad, pad: pad, mode: mode, grad: out.grad}
	}
	out.insertRecord(rec)
	return out
}
