package variable

import "math"

// logSoftmaxForward computes log(softmax(x)) lane-wise with the usual
// max-shift, keeping the computation in log space end to end.
type logSoftmaxForward struct {
	operand, data *cell
	axis          int
}

func (n *logSoftmaxForward) Forward() {
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
		var den float64
		for j := 0; j < lane; j++ {
			den += math.Exp(float64(id[base+j*stride] - maxV))
		}
		logDen := float32(math.Log(den))
		for j := 0; j < lane; j++ {
			idx := base + j*stride
			od[idx] = id[idx] - maxV - logDen
		}
	})
}

// logSoftmaxBackward applies
//
//	grad_out_j = grad_in_j - exp(y_j) · Σ_k grad_in_k
//
// where y is the node's own log-softmax output.
type logSoftmaxBackward struct {
	operandGrad *Gradient
	data        *cell
	grad        *Gradient
	axis        int
}

func (n *logSoftmaxBackward) Backward() {
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
			sum += gd[base+j*stride]
		}
		for j := 0; j < lane; j++ {
			idx := base + j*stride
			ogd[idx] += gd[idx] - float32(math.Exp(float64(dd[idx])))*sum
		}
	})
}

// LogSoftmax computes the logarithm of the softmax of v along axis. It is
// more numerically stable than composing Softmax with Ln.
func (v *Var) LogSoftmax(axis int) *Var {
	checkAxis(v.Shape(), axis)

	out := newResult(v.Shape(), v.grad != nil, v)
	rec := record{forward: &logSoftmaxForward{operand: v.data, data: out.data, axis: axis}}
	if out.grad != nil {
		rec.backward = &logSoftmaxBackward{operandGrad: v.grad, data: out.data, grad: out.grad, axis: axis}
	}
	out.insertRecord(rec)
	return out
}
