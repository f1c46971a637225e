package optim

// Penalty adds a regularization term's derivative to each parameter
// gradient before the update rule sees it.
type Penalty interface {
	// Derivative returns d(penalty)/dw for a single weight value.
	Derivative(w float32) float32
}

// L2 is the ridge regularization penalty λ‖w‖².
type L2 struct {
	Lambda float32
}

func (p L2) Derivative(w float32) float32 {
	return 2 * p.Lambda * w
}

// L1 is the lasso regularization penalty λ‖w‖₁.
type L1 struct {
	Lambda float32
}

func (p L1) Derivative(w float32) float32 {
	switch {
	case w > 0:
		return p.Lambda
	case w < 0:
		return -p.Lambda
	default:
		return 0
	}
}

// ElasticNet mixes the L1 and L2 penalties: λ(α‖w‖₁ + (1-α)/2·‖w‖²).
type ElasticNet struct {
	Lambda float32
	Alpha  float32 // mixing factor in [0, 1]; 1 is pure L1
}

func (p ElasticNet) Derivative(w float32) float32 {
	l1 := L1{Lambda: p.Lambda}.Derivative(w)
	return p.Alpha*l1 + (1-p.Alpha)*p.Lambda*w
}

// applyPenalty returns the gradient with the penalty derivative mixed in.
// A nil penalty passes the gradient through.
func applyPenalty(penalty Penalty, w, g float32) float32 {
	if penalty == nil {
		return g
	}
	return g + penalty.Derivative(w)
}
