package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

func checkSameShape(pred, target *Var, op string) {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("variable: %s shapes disagree: %v vs %v", op, pred.Shape(), target.Shape()))
	}
}

// absErrorForward reduces |prediction - target| into a rank-0 loss.
type absErrorForward struct {
	pred, target, data *cell
	reduction          Reduction
}

func (n *absErrorForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	p := n.pred.borrow()
	defer n.pred.release()
	t := n.target.borrow()
	defer n.target.release()

	pd, td := p.Data(), t.Data()
	var total float32
	for i, pv := range pd {
		d := pv - td[i]
		if d < 0 {
			d = -d
		}
		total += d
	}
	out.Data()[0] = n.reduction.reduce(total, len(pd))
}

// absErrorBackward deposits sign(prediction - target) into the prediction
// gradient, scaled by the reduction. The target never receives gradient.
type absErrorBackward struct {
	predGrad     *Gradient
	pred, target *cell
	reduction    Reduction
	grad         *Gradient
}

func (n *absErrorBackward) Backward() {
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
		switch {
		case pv > td[i]:
			ogd[i] += gv
		case pv < td[i]:
			ogd[i] -= gv
		}
	}
}

// AbsoluteError is the L1 loss between v and target, reduced to a rank-0
// scalar. Gradient flows to v only.
func (v *Var) AbsoluteError(target *Var, reduction Reduction) *Var {
	checkSameShape(v, target, "AbsoluteError")

	out := newResult(tensor.Shape{}, v.grad != nil, v, target)
	rec := record{forward: &absErrorForward{pred: v.data, target: target.data, data: out.data, reduction: reduction}}
	if out.grad != nil {
		rec.backward = &absErrorBackward{
			predGrad: v.grad, pred: v.data, target: target.data,
			reduction: reduction, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
