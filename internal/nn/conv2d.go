package nn

import (
	"math"
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
	"github.com/tactics-ml/tactics/internal/variable"
)

// Conv2d applies a spatial convolution over NCHW input.
//
// Weight is [out, in, Kh, Kw] and bias [out, 1, 1]; the bias shape
// broadcasts over the output's spatial axes. Both are initialized from
// U(-k, k) with k = √(1/(in·Kh·Kw)). Padding is applied to the input
// with the configured mode before the convolution proper.
type Conv2d struct {
	Padding     [2]int
	PaddingMode variable.PaddingMode
	Stride      [2]int
	Dilation    [2]int
	Weight      *variable.Var
	Bias        *variable.Var
}

// Conv2dConfig collects the shape bookkeeping of a Conv2d layer.
// Zero-valued stride or dilation entries default to 1.
type Conv2dConfig struct {
	KernelSize  [2]int
	Padding     [2]int
	PaddingMode variable.PaddingMode
	Stride      [2]int
	Dilation    [2]int
}

// NewConv2d creates a convolution layer from in channels to out channels.
func NewConv2d(in, out int, cfg Conv2dConfig, rng *rand.Rand) *Conv2d {
	for i := 0; i < 2; i++ {
		if cfg.Stride[i] == 0 {
			cfg.Stride[i] = 1
		}
		if cfg.Dilation[i] == 0 {
			cfg.Dilation[i] = 1
		}
	}
	if cfg.PaddingMode == nil {
		cfg.PaddingMode = variable.Zero{}
	}

	kh, kw := cfg.KernelSize[0], cfg.KernelSize[1]
	c := &Conv2d{
		Padding:     cfg.Padding,
		PaddingMode: cfg.PaddingMode,
		Stride:      cfg.Stride,
		Dilation:    cfg.Dilation,
		Weight:      variable.Zeros(tensor.Shape{out, in, kh, kw}).RequiresGrad(),
		Bias:        variable.Zeros(tensor.Shape{out, 1, 1}).RequiresGrad(),
	}
	k := float32(math.Sqrt(1 / float64(in*kh*kw)))
	InitUniform(c.Weight, -k, k, rng)
	InitUniform(c.Bias, -k, k, rng)
	return c
}

// Forward convolves the input. Input shape [N, in, H, W], output shape
// [N, out, Hout, Wout].
func (c *Conv2d) Forward(input *variable.Var) *variable.Var {
	if c.Padding[0] > 0 || c.Padding[1] > 0 {
		input = input.Pad([]int{c.Padding[0], c.Padding[1]}, c.PaddingMode)
	}
	return input.Convolve(c.Weight, c.Stride, c.Dilation).Add(c.Bias)
}

// Parameters returns the kernel weight and bias.
func (c *Conv2d) Parameters() []*variable.Var {
	return []*variable.Var{c.Weight, c.Bias}
}
