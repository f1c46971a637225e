package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// convOutSize computes the output extent of one spatial axis for a given
// kernel extent, stride and dilation, without padding.
func convOutSize(in, kernel, stride, dilation int) int {
	return (in-(kernel-1)*dilation-1)/stride + 1
}

// convForward cross-correlates an NCHW input with an OIHW kernel. Padding
// is not applied here; compose with Pad first when a border is wanted.
type convForward struct {
	input, kernel, data *cell
	stride, dilation    [2]int
}

func (n *convForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.input.borrow()
	defer n.input.release()
	k := n.kernel.borrow()
	defer n.kernel.release()

	od, id, kd := out.Data(), in.Data(), k.Data()
	batch, cIn, h, w := in.Shape()[0], in.Shape()[1], in.Shape()[2], in.Shape()[3]
	cOut, kh, kw := k.Shape()[0], k.Shape()[2], k.Shape()[3]
	hOut, wOut := out.Shape()[2], out.Shape()[3]
	sh, sw := n.stride[0], n.stride[1]
	dh, dw := n.dilation[0], n.dilation[1]

	for b := 0; b < batch; b++ {
		for co := 0; co < cOut; co++ {
			for oh := 0; oh < hOut; oh++ {
				for ow := 0; ow < wOut; ow++ {
					var acc float32
					for ci := 0; ci < cIn; ci++ {
						for i := 0; i < kh; i++ {
							for j := 0; j < kw; j++ {
								iv := id[((b*cIn+ci)*h+oh*sh+i*dh)*w+ow*sw+j*dw]
								kv := kd[((co*cIn+ci)*kh+i)*kw+j]
								acc += iv * kv
							}
						}
					}
					od[((b*cOut+co)*hOut+oh)*wOut+ow] = acc
				}
			}
		}
	}
}

// convBackward scatters the incoming gradient back through the receptive
// fields into the input gradient and accumulates the kernel gradient from
// the input patches.
type convBackward struct {
	inputGrad, kernelGrad *Gradient
	input, kernel         *cell
	stride, dilation      [2]int
	grad                  *Gradient
}

func (n *convBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	in := n.input.borrow()
	defer n.input.release()
	k := n.kernel.borrow()
	defer n.kernel.release()

	gd, id, kd := g.Data(), in.Data(), k.Data()
	batch, cIn, h, w := in.Shape()[0], in.Shape()[1], in.Shape()[2], in.Shape()[3]
	cOut, kh, kw := k.Shape()[0], k.Shape()[2], k.Shape()[3]
	hOut, wOut := g.Shape()[2], g.Shape()[3]
	sh, sw := n.stride[0], n.stride[1]
	dh, dw := n.dilation[0], n.dilation[1]

	var igd, kgd []float32
	if n.inputGrad != nil {
		igd = n.inputGrad.cell.borrowMut().Data()
		defer n.inputGrad.cell.releaseMut()
	}
	if n.kernelGrad != nil {
		kgd = n.kernelGrad.cell.borrowMut().Data()
		defer n.kernelGrad.cell.releaseMut()
	}

	for b := 0; b < batch; b++ {
		for co := 0; co < cOut; co++ {
			for oh := 0; oh < hOut; oh++ {
				for ow := 0; ow < wOut; ow++ {
					gv := gd[((b*cOut+co)*hOut+oh)*wOut+ow]
					for ci := 0; ci < cIn; ci++ {
						for i := 0; i < kh; i++ {
							for j := 0; j < kw; j++ {
								src := ((b*cIn+ci)*h+oh*sh+i*dh)*w + ow*sw + j*dw
								kidx := ((co*cIn+ci)*kh+i)*kw + j
								if igd != nil {
									igd[src] += gv * kd[kidx]
								}
								if kgd != nil {
									kgd[kidx] += gv * id[src]
								}
							}
						}
					}
				}
			}
		}
	}
}

// Convolve cross-correlates v with kernel. v must be [N, Cin, H, W] and
// kernel [Cout, Cin, Kh, Kw]; the result is [N, Cout, Hout, Wout]. There
// is no implicit padding; apply Pad beforehand if needed.
func (v *Var) Convolve(kernel *Var, stride, dilation [2]int) *Var {
	if len(v.Shape()) != 4 || len(kernel.Shape()) != 4 {
		panic(fmt.Sprintf("variable: Convolve requires rank-4 operands, got %v and %v", v.Shape(), kernel.Shape()))
	}
	if v.Shape()[1] != kernel.Shape()[1] {
		panic(fmt.Sprintf("variable: Convolve channel mismatch: input %v, kernel %v", v.Shape(), kernel.Shape()))
	}
	for i := 0; i < 2; i++ {
		if stride[i] < 1 || dilation[i] < 1 {
			panic(fmt.Sprintf("variable: Convolve stride %v and dilation %v must be positive", stride, dilation))
		}
	}
	hOut := convOutSize(v.Shape()[2], kernel.Shape()[2], stride[0], dilation[0])
	wOut := convOutSize(v.Shape()[3], kernel.Shape()[3], stride[1], dilation[1])
	if hOut < 1 || wOut < 1 {
		panic(fmt.Sprintf("variable: Convolve kernel %v does not fit input %v", kernel.Shape(), v.Shape()))
	}

	shape := tensor.Shape{v.Shape()[0], kernel.Shape()[0], hOut, wOut}
	out := newResult(shape, anyDiff(v, kernel), v, kernel)
	rec := record{forward: &convForward{
		input: v.data, kernel: kernel.data, data: out.data,
		stride: stride, dilation: dilation,
	}}
	if out.grad != nil {
		rec.backward = &convBackward{
			inputGrad: v.grad, kernelGrad: kernel.grad,
			input: v.data, kernel: kernel.data,
			stride: stride, dilation: dilation,
			grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
