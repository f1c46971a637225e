package variable

import "math"

// softmaxForward normalizes exponentials lane-wise along an axis, shifting
// by the lane maximum for numerical stability.
type softmaxForward struct {
	operand, data *cell
	axis          int
}

func (n *softmaxForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	in := n.operand.borrow()
	defer n.operand.release()

	od, id := out.Data(), in.Data()
	forEachLane(in.Shape(), n.axis, func(base, stride, lane int) {
		maxV := float32(math.Inf(-1))
		for j := 0; j < lane; j++ {
			if v := id[base+j*stride]; v > maxV {
				maxV = v
			}
		}
		var den float32
		for j := 0; j < lane; j++ {
			e := float32(math.Exp(float64(id[base+j*stride] - maxV)))
			od[base+j*stride] = e
			den += e
		}
		for j := 0; j < lane; j++ {
			od[base+j*stride] /= den
		}
	})
}

// softmaxBackward applies the lane-wise Jacobian-vector product
//
//	grad_out_j = s_j · (grad_in_j - Σ_k grad_in_k · s_k)
//
// without materializing the Jacobian.
type softmaxBackward struct {
	operandGrad *Gradient
	data        *cell
	grad        *Gradient
	axis        int
}

func (n *softmaxBackward) Backward() {
	og := n.operandGrad.cell.borrowMut()
	defer n.operandGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	d := n.data.borrow()
	defer n.data.release()

	ogd, gd, dd := og.Data(), g.Data(), d.Data()
	forEachLane(d.Shape(), n.axis, func(base, stride, lane int) {
		var sum float32
		for j := 0; j < lane; j++ {
			idx := base + j*stride
			sum += gd[idx] * dd[idx]
		}
		for j := 0; j < lane; j++ {
			idx := base + j*stride
			ogd[idx] += dd[idx] * (gd[idx] - sum)
		}
	})
}

// Softmax normalizes v into a probability distribution along axis.
func (v *Var) Softmax(axis int) *Var {
	checkAxis(v.Shape(), axis)

	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &softmaxForward{operand: v.data, data: out.data, axis: axis}}
	if out.grad != nil {
		rec.backward = &softmaxBackward{operandGrad: v.grad, data: out.data, grad: out.grad, axis: axis}
	}
	out.insertRecord(rec)
	return out
}
