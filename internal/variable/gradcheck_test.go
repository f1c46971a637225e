package variable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// checkGradient compares the analytic gradient of a scalar-valued graph
// against central finite differences over the leaf's entries.
//
// build must construct a fresh scalar root from the given differentiable
// leaf. float32 arithmetic is noisy, so the tolerance is loose but tight
// enough to catch a wrong sign, a missing factor, or a misrouted index.
func checkGradient(t *testing.T, name string, leafData []float32, shape tensor.Shape, build func(x *Var) *Var) {
	t.Helper()

	x := leafFrom(t, leafData, shape).RequiresGrad()
	root := build(x)
	require := assert.New(t)
	require.Equal(0, len(root.Shape()), "%s: gradient check root must be rank-0", name)

	root.Forward()
	root.Backward(1)
	analytic := append([]float32(nil), x.Grad().Data()...)

	const eps = 1e-2
	for i := range leafData {
		orig := x.Data().Data()[i]

		x.Data().Data()[i] = orig + eps
		root.Forward()
		plus := float64(root.Data().At())

		x.Data().Data()[i] = orig - eps
		root.Forward()
		minus := float64(root.Data().At())

		x.Data().Data()[i] = orig
		numeric := (plus - minus) / (2 * eps)

		tol := 1e-2 + 2e-2*absf(numeric)
		require.InDelta(numeric, float64(analytic[i]), tol, "%s: d/dx[%d]", name, i)
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestGradientsElementwise(t *testing.T) {
	data := []float32{0.3, -0.7, 1.2, 0.9}
	shape := tensor.Shape{4}
	other := leafFrom(t, []float32{0.5, 1.5, -0.4, 2.0}, shape)

	cases := map[string]func(x *Var) *Var{
		"add":       func(x *Var) *Var { return x.Add(other).Sum() },
		"sub":       func(x *Var) *Var { return x.Sub(other).Sum() },
		"mul":       func(x *Var) *Var { return x.Mul(other).Sum() },
		"div":       func(x *Var) *Var { return x.Div(other).Sum() },
		"neg":       func(x *Var) *Var { return x.Neg().Sum() },
		"pow":       func(x *Var) *Var { return x.Pow(3).Sum() },
		"exp":       func(x *Var) *Var { return x.Exp().Sum() },
		"sigmoid":   func(x *Var) *Var { return x.Sigmoid().Sum() },
		"tanh":      func(x *Var) *Var { return x.Tanh().Sum() },
		"softplus":  func(x *Var) *Var { return x.SoftPlus().Sum() },
		"leakyrelu": func(x *Var) *Var { return x.LeakyReLU().Sum() },
		"mean":      func(x *Var) *Var { return x.Mean() },
	}
	for name, build := range cases {
		checkGradient(t, name, data, shape, build)
	}
}

func TestGradientsPositiveDomain(t *testing.T) {
	data := []float32{0.4, 1.3, 2.1, 0.8}
	shape := tensor.Shape{4}

	checkGradient(t, "sqrt", data, shape, func(x *Var) *Var { return x.Sqrt().Sum() })
	checkGradient(t, "ln", data, shape, func(x *Var) *Var { return x.Ln().Sum() })
}

func TestGradientsLanewise(t *testing.T) {
	data := []float32{0.2, -0.5, 1.1, 0.7, -1.3, 0.4}
	shape := tensor.Shape{2, 3}

	checkGradient(t, "softmax", data, shape, func(x *Var) *Var {
		weights := leafFrom(t, []float32{1, 2, 3, 4, 5, 6}, shape)
		return x.Softmax(1).Mul(weights).Sum()
	})
	checkGradient(t, "logsoftmax", data, shape, func(x *Var) *Var {
		weights := leafFrom(t, []float32{1, 2, 3, 4, 5, 6}, shape)
		return x.LogSoftmax(1).Mul(weights).Sum()
	})
}

func TestGradientsLinearAlgebra(t *testing.T) {
	data := []float32{0.3, -0.9, 1.4, 0.2, -0.6, 0.8}
	shape := tensor.Shape{2, 3}

	checkGradient(t, "mm", data, shape, func(x *Var) *Var {
		other := leafFrom(t, []float32{0.5, -1, 2, 0.1, 1.5, -0.7}, tensor.Shape{3, 2})
		return x.Mm(other).Sum()
	})
	checkGradient(t, "mmT", data, shape, func(x *Var) *Var {
		other := leafFrom(t, []float32{0.5, -1, 2, 0.1, 1.5, -0.7}, tensor.Shape{2, 3})
		return x.MmT(other).Sum()
	})
	checkGradient(t, "mv", data, shape, func(x *Var) *Var {
		vec := leafFrom(t, []float32{0.4, -0.8, 1.2}, tensor.Shape{3})
		return x.Mv(vec).Sum()
	})
	checkGradient(t, "transpose", data, shape, func(x *Var) *Var {
		weights := leafFrom(t, []float32{1, -2, 3, -4, 5, -6}, tensor.Shape{3, 2})
		return x.T().Mul(weights).Sum()
	})

	vecData := []float32{0.7, -0.3, 1.1}
	checkGradient(t, "vm", vecData, tensor.Shape{3}, func(x *Var) *Var {
		m := leafFrom(t, []float32{0.5, -1, 2, 0.1, 1.5, -0.7}, tensor.Shape{3, 2})
		return x.Vm(m).Sum()
	})
	checkGradient(t, "dot", vecData, tensor.Shape{3}, func(x *Var) *Var {
		other := leafFrom(t, []float32{0.9, 0.2, -1.4}, tensor.Shape{3})
		return x.Dot(other)
	})
}

func TestGradientsStructural(t *testing.T) {
	data := []float32{0.3, -0.9, 1.4, 0.2}
	shape := tensor.Shape{2, 2}
	weights := leafFrom(t, []float32{1, -2, 3, -4, 5, -6, 7, -8}, tensor.Shape{2, 4})

	checkGradient(t, "cat", data, shape, func(x *Var) *Var {
		other := leafFrom(t, []float32{1, 2, 3, 4}, shape)
		return x.Cat(other, 1).Mul(weights).Sum()
	})
	checkGradient(t, "chunk", data, shape, func(x *Var) *Var {
		parts := x.Chunk(1, 2)
		return parts[0].Mul(parts[1]).Sum()
	})
	checkGradient(t, "unsqueeze", data, shape, func(x *Var) *Var {
		return x.Unsqueeze(0).Sum()
	})
	checkGradient(t, "pad-reflective", data, shape, func(x *Var) *Var {
		w := leafFrom(t, []float32{
			1, -2, 3, -4,
			5, -6, 7, -8,
			-1, 2, -3, 4,
			-5, 6, -7, 8,
		}, tensor.Shape{4, 4})
		return x.Pad([]int{1, 1}, Reflective{}).Mul(w).Sum()
	})
}

func TestGradientsConvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	input := make([]float32, 1*2*4*4)
	for i := range input {
		input[i] = rng.Float32()*2 - 1
	}
	kernelData := make([]float32, 3*2*2*2)
	for i := range kernelData {
		kernelData[i] = rng.Float32()*2 - 1
	}

	checkGradient(t, "conv-input", input, tensor.Shape{1, 2, 4, 4}, func(x *Var) *Var {
		k, err := FromSlice(kernelData, tensor.Shape{3, 2, 2, 2})
		assert.NoError(t, err)
		return x.Convolve(k, [2]int{1, 1}, [2]int{1, 1}).Sum()
	})
	checkGradient(t, "conv-kernel", kernelData, tensor.Shape{3, 2, 2, 2}, func(k *Var) *Var {
		x, err := FromSlice(input, tensor.Shape{1, 2, 4, 4})
		assert.NoError(t, err)
		return x.Convolve(k, [2]int{2, 2}, [2]int{1, 1}).Sum()
	})
}

func TestGradientsLosses(t *testing.T) {
	pred := []float32{0.3, -0.9, 1.4, 0.2}
	shape := tensor.Shape{4}
	target := leafFrom(t, []float32{0.1, 0.9, 0.4, 0.6}, shape)

	checkGradient(t, "squared-error", pred, shape, func(x *Var) *Var {
		return x.SquaredError(target, Mean)
	})
	checkGradient(t, "bce-logits", pred, shape, func(x *Var) *Var {
		return x.BCEWithLogits(target, Mean)
	})

	probs := []float32{0.3, 0.6, 0.45, 0.7}
	checkGradient(t, "bce", probs, shape, func(x *Var) *Var {
		return x.BinaryCrossEntropy(target, Mean)
	})

	logProbs := []float32{-1.2, -0.8, -2.1, -0.3}
	klTarget := leafFrom(t, []float32{0.3, 0.2, 0.1, 0.4}, tensor.Shape{2, 2})
	checkGradient(t, "kldiv", logProbs, tensor.Shape{2, 2}, func(x *Var) *Var {
		return x.KLDiv(klTarget, Mean)
	})

	nllTarget := leafFrom(t, []float32{1, 0}, tensor.Shape{2})
	checkGradient(t, "nll", logProbs, tensor.Shape{2, 2}, func(x *Var) *Var {
		return x.NLL(nllTarget, Mean)
	})
}
