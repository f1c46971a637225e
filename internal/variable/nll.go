package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// nllForward reduces -Σ x[i, t_i] into a rank-0 loss, where x holds
// log-probabilities over classes and t holds one class index per sample,
// stored as float32.
type nllForward struct {
	pred, target, data *cell
	reduction          Reduction
}

func (n *nllForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	p := n.pred.borrow()
	defer n.pred.release()
	t := n.target.borrow()
	defer n.target.release()

	pd, td := p.Data(), t.Data()
	classes := p.Shape()[1]
	var total float32
	for i, tv := range td {
		total -= pd[i*classes+int(tv)]
	}
	out.Data()[0] = n.reduction.reduce(total, len(td))
}

// nllBackward deposits -1 at each sample's target class in the
// prediction gradient, scaled by the reduction.
type nllBackward struct {
	predGrad  *Gradient
	target    *cell
	classes   int
	reduction Reduction
	grad      *Gradient
}

func (n *nllBackward) Backward() {
	og := n.predGrad.cell.borrowMut()
	defer n.predGrad.cell.releaseMut()
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	t := n.target.borrow()
	defer n.target.release()

	ogd, td := og.Data(), t.Data()
	gv := g.Data()[0] * n.reduction.scale(len(td))
	for i, tv := range td {
		ogd[i*n.classes+int(tv)] -= gv
	}
}

// NLL is the negative log-likelihood of log-probability predictions v,
// shaped [batch, classes], against target class indices, shaped [batch]
// and stored as float32 values. Gradient flows to v only.
func (v *Var) NLL(target *Var, reduction Reduction) *Var {
	checkMatrix(v.Shape(), "NLL")
	checkVector(target.Shape(), "NLL")
	if v.Shape()[0] != target.Shape()[0] {
		panic(fmt.Sprintf("variable: NLL batch sizes disagree: %v vs %v", v.Shape(), target.Shape()))
	}

	out := newResult(tensor.Shape{}, v.grad != nil, v, target)
	rec := record{forward: &nllForward{pred: v.data, target: target.data, data: out.data, reduction: reduction}}
	if out.grad != nil {
		rec.backward = &nllBackward{
			predGrad: v.grad, target: target.data,
			classes: v.Shape()[1], reduction: reduction, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
