package nn

import (
	"math/rand"

	"github.com/tactics-ml/tactics/internal/variable"
)

// Dropout is the layer form of the dropout operation. It owns a shared
// status so a whole model's dropout nodes switch together between
// training and evaluation.
type Dropout struct {
	P      float64
	Status *variable.DropoutStatus

	rng *rand.Rand
}

// NewDropout creates a dropout layer with drop probability p, starting in
// training mode.
func NewDropout(p float64, rng *rand.Rand) *Dropout {
	return &Dropout{P: p, Status: variable.NewDropoutStatus(), rng: rng}
}

// Forward applies dropout to the input under the layer's shared status.
func (d *Dropout) Forward(input *variable.Var) *variable.Var {
	return input.Dropout(d.P, d.Status, d.rng)
}

// Train switches the layer's nodes to stochastic masking.
func (d *Dropout) Train() { d.Status.Train() }

// Eval switches the layer's nodes to the identity map.
func (d *Dropout) Eval() { d.Status.Eval() }

// Parameters returns nil; dropout has no trainable state.
func (d *Dropout) Parameters() []*variable.Var { return nil }
