package variable

import "github.com/tactics-ml/tactics/internal/tensor"

// squaredErrorForward reduces (prediction - target)² into a rank-0 loss.
type squaredErrorForward struct {
	pred, target, data *cell
	reduction          Reduction
}

func (n *squaredErrorForward) Forward() {
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
		total += d * d
	}
	out.Data()[0] = n.reduction.reduce(total, len(pd))
}

// squaredErrorBackward deposits 2·(prediction - target) into the
// prediction gradient, scaled by the reduction.
type squaredErrorBackward struct {
	predGrad     *Gradient
	pred, target *cell
	reduction    Reduction
	grad         *Gradient
}

func (n *squaredErrorBackward) Backward() {
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
		ogd[i] += 2 * (pv - td[i]) * gv
	}
}

// SquaredError is the L2 loss between v and target, reduced to a rank-0
// scalar. Gradient flows to v only.
func (v *Var) SquaredError(target *Var, reduction Reduction) *Var {
	checkSameShape(v, target, "SquaredError")

	out := newResult(tensor.Shape{}, v.grad != nil, v, target)
	rec := record{forward: &squaredErrorForward{pred: v.data, target: target.data, data: out.data, reduction: reduction}}
	if out.grad != nil {
		rec.backward = &squaredErrorBackward{
			predGrad: v.grad, pred: v.data, target: target.data,
			reduction: reduction, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
