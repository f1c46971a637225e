package variable

import (
	"math"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// bceLogFloor bounds the logarithms in the binary cross-entropy so a
// saturated probability yields a large but finite loss.
const bceLogFloor = -100

func clampedLog(x float32) float32 {
	l := float32(math.Log(float64(x)))
	if l < bceLogFloor || math.IsNaN(float64(l)) {
		return bceLogFloor
	}
	return l
}

// bceForward reduces -(t·ln p + (1-t)·ln(1-p)) into a rank-0 loss.
// Predictions are expected to be probabilities in [0, 1].
type bceForward struct {
	pred, target, data *cell
	reduction          Reduction
}

func (n *bceForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	p := n.pred.borrow()
	defer n.pred.release()
	t := n.target.borrow()
	defer n.target.release()

	pd, td := p.Data(), t.Data()
	var total float32
	for i, pv := range pd {
		tv := td[i]
		total -= tv*clampedLog(pv) + (1-tv)*clampedLog(1-pv)
	}
	out.Data()[0] = n.reduction.reduce(total, len(pd))
}

// bceBackward deposits (p - t) / (p·(1-p)) into the prediction gradient,
// with the denominator floored to keep saturated probabilities finite.
type bceBackward struct {
	predGrad     *Gradient
	pred, target *cell
	reduction    Reduction
	grad         *Gradient
}

func (n *bceBackward) Backward() {
	og := n.predGrad.cell.borrowMut()
	defer n.predGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	p := n.pred.borrow()
	defer n.pred.release()
	t := n.target.borrow()
	defer n.target.release()

	pd, td, ogd := p.Data(), t.Data(), og.Data()
	gv := g.Data()[0] * n.reduction.scale(len(pd))
	for i, pv := range pd {
		den := pv * (1 - pv)
		if den < 1e-12 {
			den = 1e-12
		}
		ogd[i] += gv * (pv - td[i]) / den
	}
}

// BinaryCrossEntropy is the binary cross-entropy between probability
// predictions v and targets in [0, 1], reduced to a rank-0 scalar.
// Gradient flows to v only.
func (v *Var) BinaryCrossEntropy(target *Var, reduction Reduction) *Var {
	checkSameShape(v, target, "BinaryCrossEntropy")

	out := newResult(tensor.Shape{}, v.grad != nil, v, target)
	rec := record{forward: &bceForward{pred: v.data, target: target.data, data: out.data, reduction: reduction}}
	if out.grad != nil {
		rec.backward = &bceBackward{
			predGrad: v.grad, pred: v.data, target: target.data,
			reduction: reduction, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
