package variable

import (
	"math"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// bceLogitsForward reduces the binary cross-entropy of raw logits using
// the log-sum-exp form
//
//	max(x, 0) - x·t + ln(1 + e^-|x|)
//
// which never exponentiates a large positive argument.
type bceLogitsForward struct {
	pred, target, data *cell
	reduction          Reduction
}

func (n *bceLogitsForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	p := n.pred.borrow()
	defer n.pred.release()
	t := n.target.borrow()
	defer n.target.release()

	pd, td := p.Data(), t.Data()
	var total float32
	for i, x := range pd {
		pos := x
		if pos < 0 {
			pos = 0
		}
		total += pos - x*td[i] + float32(math.Log1p(math.Exp(-math.Abs(float64(x)))))
	}
	out.Data()[0] = n.reduction.reduce(total, len(pd))
}

// bceLogitsBackward deposits sigmoid(x) - t into the prediction gradient,
// scaled by the reduction.
type bceLogitsBackward struct {
	predGrad     *Gradient
	pred, target *cell
	reduction    Reduction
	grad         *Gradient
}

func (n *bceLogitsBackward) Backward() {
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
	for i, x := range pd {
		sig := float32(1 / (1 + math.Exp(-float64(x))))
		ogd[i] += gv * (sig - td[i])
	}
}

// BCEWithLogits is the binary cross-entropy of raw logit predictions v
// against targets in [0, 1], fusing the sigmoid into the loss for
// numerical stability. Gradient flows to v only.
func (v *Var) BCEWithLogits(target *Var, reduction Reduction) *Var {
	checkSameShape(v, target, "BCEWithLogits")

	out := newResult(tensor.Shape{}, v.grad != nil, v, target)
	rec := record{forward: &bceLogitsForward{pred: v.data, target: target.data, data: out.data, reduction: reduction}}
	if out.grad != nil {
		rec.backward = &bceLogitsBackward{
			predGrad: v.grad, pred: v.data, target: target.data,
			reduction: reduction, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
