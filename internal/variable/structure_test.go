package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactics-ml/tactics/internal/tensor"
)

func TestUnsqueeze(t *testing.T) {
	x := leafFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}).RequiresGrad()

	front := x.Unsqueeze(0)
	mid := x.Unsqueeze(1)
	back := x.Unsqueeze(2)
	assert.Equal(t, tensor.Shape{1, 2, 3}, front.Shape())
	assert.Equal(t, tensor.Shape{2, 1, 3}, mid.Shape())
	assert.Equal(t, tensor.Shape{2, 3, 1}, back.Shape())
	assert.Panics(t, func() { x.Unsqueeze(3) })

	back.Forward()
	assert.Equal(t, x.Data().Data(), back.Data().Data())

	back.BackwardWith(tensor.Ones(tensor.Shape{2, 3, 1}))
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1}, x.Grad().Data())
}

func TestCatForwardBackward(t *testing.T) {
	a := leafFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}).RequiresGrad()
	b := leafFrom(t, []float32{5, 6}, tensor.Shape{2, 1}).RequiresGrad()

	y := a.Cat(b, 1)
	assert.Equal(t, tensor.Shape{2, 3}, y.Shape())

	y.Forward()
	assert.Equal(t, []float32{1, 2, 5, 3, 4, 6}, y.Data().Data())

	seed, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y.BackwardWith(seed)
	assert.Equal(t, []float32{1, 2, 4, 5}, a.Grad().Data())
	assert.Equal(t, []float32{3, 6}, b.Grad().Data())
}

func TestCatAlongLeadingAxis(t *testing.T) {
	a := leafFrom(t, []float32{1, 2}, tensor.Shape{1, 2})
	b := leafFrom(t, []float32{3, 4, 5, 6}, tensor.Shape{2, 2})
	y := a.Cat(b, 0)
	y.Forward()
	assert.Equal(t, tensor.Shape{3, 2}, y.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, y.Data().Data())
}

func TestStackForwardBackward(t *testing.T) {
	a := leafFrom(t, []float32{1, 2}, tensor.Shape{2}).RequiresGrad()
	b := leafFrom(t, []float32{3, 4}, tensor.Shape{2}).RequiresGrad()

	y := a.Stack(b, 0)
	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	y.Forward()
	assert.Equal(t, []float32{1, 2, 3, 4}, y.Data().Data())

	z := a.Stack(b, 1)
	assert.Equal(t, tensor.Shape{2, 2}, z.Shape())
	z.Forward()
	assert.Equal(t, []float32{1, 3, 2, 4}, z.Data().Data())

	seed, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	z.BackwardWith(seed)
	assert.Equal(t, []float32{1, 3}, a.Grad().Data())
	assert.Equal(t, []float32{2, 4}, b.Grad().Data())
}

func TestChunkSplitsEvenly(t *testing.T) {
	x := leafFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}).RequiresGrad()

	parts := x.Chunk(1, 3)
	assert.Len(t, parts, 3)
	for _, p := range parts {
		assert.Equal(t, tensor.Shape{2, 1}, p.Shape())
	}

	parts[1].Forward()
	assert.Equal(t, []float32{2, 5}, parts[1].Data().Data())

	parts[1].BackwardWith(tensor.Ones(tensor.Shape{2, 1}))
	assert.Equal(t, []float32{0, 1, 0, 0, 1, 0}, x.Grad().Data())

	assert.Panics(t, func() { x.Chunk(1, 2) })
}

func TestPadConstantAndZero(t *testing.T) {
	x := leafFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}).RequiresGrad()

	y := x.Pad([]int{1, 1}, Constant{Value: 9})
	assert.Equal(t, tensor.Shape{4, 4}, y.Shape())
	y.Forward()
	assert.Equal(t, []float32{
		9, 9, 9, 9,
		9, 1, 2, 9,
		9, 3, 4, 9,
		9, 9, 9, 9,
	}, y.Data().Data())

	y.BackwardWith(tensor.Ones(tensor.Shape{4, 4}))
	assert.Equal(t, []float32{1, 1, 1, 1}, x.Grad().Data())

	z := x.Pad([]int{0, 1}, Zero{})
	z.Forward()
	assert.Equal(t, []float32{0, 1, 2, 0, 0, 3, 4, 0}, z.Data().Data())
}

func TestPadReflective(t *testing.T) {
	x := leafFrom(t, []float32{1, 2, 3}, tensor.Shape{3}).RequiresGrad()
	y := x.Pad([]int{2}, Reflective{})
	y.Forward()
	assert.Equal(t, []float32{3, 2, 1, 2, 3, 2, 1}, y.Data().Data())

	y.BackwardWith(tensor.Ones(tensor.Shape{7}))
	// mirrored border positions accumulate onto their sources
	assert.Equal(t, []float32{2, 3, 2}, x.Grad().Data())

	assert.Panics(t, func() { x.Pad([]int{3}, Reflective{}) })
}

func TestPadReplicative(t *testing.T) {
	x := leafFrom(t, []float32{1, 2, 3}, tensor.Shape{3}).RequiresGrad()
	y := x.Pad([]int{2}, Replicative{})
	y.Forward()
	assert.Equal(t, []float32{1, 1, 1, 2, 3, 3, 3}, y.Data().Data())

	y.BackwardWith(tensor.Ones(tensor.Shape{7}))
	assert.Equal(t, []float32{3, 1, 3}, x.Grad().Data())
}

func TestPadTrailingAxesOnly(t *testing.T) {
	x := leafFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := x.Pad([]int{1}, Zero{})
	assert.Equal(t, tensor.Shape{2, 4}, y.Shape())
	y.Forward()
	assert.Equal(t, []float32{0, 1, 2, 0, 0, 3, 4, 0}, y.Data().Data())
}

func TestConvolveIdentityKernel(t *testing.T) {
	x := leafFrom(t, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, tensor.Shape{1, 1, 3, 3}).RequiresGrad()
	k := leafFrom(t, []float32{1}, tensor.Shape{1, 1, 1, 1}).RequiresGrad()

	y := x.Convolve(k, [2]int{1, 1}, [2]int{1, 1})
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, y.Shape())
	y.Forward()
	assert.Equal(t, x.Data().Data(), y.Data().Data())

	y.BackwardWith(tensor.Ones(tensor.Shape{1, 1, 3, 3}))
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}, x.Grad().Data())
	assert.Equal(t, []float32{45}, k.Grad().Data())
}

func TestConvolveSumKernelStride(t *testing.T) {
	x := leafFrom(t, []float32{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}, tensor.Shape{1, 1, 4, 4})
	k := leafFrom(t, []float32{1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2})

	y := x.Convolve(k, [2]int{2, 2}, [2]int{1, 1})
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, y.Shape())
	y.Forward()
	assert.Equal(t, []float32{4, 8, 12, 16}, y.Data().Data())
}

func TestConvolveDilation(t *testing.T) {
	x := leafFrom(t, []float32{
		1, 0, 2,
		0, 0, 0,
		3, 0, 4,
	}, tensor.Shape{1, 1, 3, 3})
	k := leafFrom(t, []float32{1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2})

	y := x.Convolve(k, [2]int{1, 1}, [2]int{2, 2})
	assert.Equal(t, tensor.Shape{1, 1, 1, 1}, y.Shape())
	y.Forward()
	assert.Equal(t, []float32{10}, y.Data().Data())
}

func TestConvolveShapeValidation(t *testing.T) {
	x := Ones(tensor.Shape{1, 2, 3, 3})
	wrongChannels := Ones(tensor.Shape{1, 3, 2, 2})
	tooBig := Ones(tensor.Shape{1, 2, 4, 4})
	assert.Panics(t, func() { x.Convolve(wrongChannels, [2]int{1, 1}, [2]int{1, 1}) })
	assert.Panics(t, func() { x.Convolve(tooBig, [2]int{1, 1}, [2]int{1, 1}) })
	assert.Panics(t, func() { x.Convolve(Ones(tensor.Shape{1, 2, 2, 2}), [2]int{0, 1}, [2]int{1, 1}) })
}
