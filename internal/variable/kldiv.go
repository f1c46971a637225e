package variable

import (
	"math"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// klDivForward reduces Σ t·(ln t - x) into a rank-0 loss, where the
// prediction x already holds log-probabilities. Zero-probability targets
// contribute nothing. Mean reduction averages over the leading axis, the
// batch, not over every element.
type klDivForward struct {
	pred, target, data *cell
	reduction          Reduction
}

func (n *klDivForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	p := n.pred.borrow()
	defer n.pred.release()
	t := n.target.borrow()
	defer n.target.release()

	pd, td := p.Data(), t.Data()
	var total float32
	for i, x := range pd {
		if tv := td[i]; tv > 0 {
			total += tv * (float32(math.Log(float64(tv))) - x)
		}
	}
	out.Data()[0] = n.reduction.reduce(total, p.Shape()[0])
}

// klDivBackward deposits -t into the prediction gradient, scaled by the
// reduction over the batch.
type klDivBackward struct {
	predGrad  *Gradient
	target    *cell
	batch     int
	reduction Reduction
	grad      *Gradient
}

func (n *klDivBackward) Backward() {
	og := n.predGrad.cell.borrowMut()
	defer n.predGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	t := n.target.borrow()
	defer n.target.release()

	ogd := og.Data()
	gv := g.Data()[0] * n.reduction.scale(n.batch)
	for i, tv := range t.Data() {
		ogd[i] -= gv * tv
	}
}

// KLDiv is the Kullback-Leibler divergence between log-probability
// predictions v and probability targets, reduced to a rank-0 scalar.
// Mean reduction divides by the batch size, the leading axis of v.
// Gradient flows to v only.
func (v *Var) KLDiv(target *Var, reduction Reduction) *Var {
	checkSameShape(v, target, "KLDiv")
	if len(v.Shape()) == 0 {
		panic("variable: KLDiv requires at least a rank-1 operand")
	}

	out := newResult(tensor.Shape{}, v.grad != nil, v, target)
	rec := record{forward: &klDivForward{pred: v.data, target: target.data, data: out.data, reduction: reduction}}
	if out.grad != nil {
		rec.backward = &klDivBackward{
			predGrad: v.grad, target: target.data,
			batch: v.Shape()[0], reduction: reduction, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
