package nn

import (
	"math"
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
	"github.com/tactics-ml/tactics/internal/variable"
)

// GRUCell is a gated recurrent unit cell.
//
// The three gates are stacked along the leading axis of the weights:
// WeightIH is [3H, in], WeightHH is [3H, H], both biases are [3H]. All
// parameters are initialized from U(-k, k) with k = 1/√H.
type GRUCell struct {
	WeightIH *variable.Var
	WeightHH *variable.Var
	BiasIH   *variable.Var
	BiasHH   *variable.Var
}

// NewGRUCell creates a GRU cell for the given input and hidden sizes.
func NewGRUCell(inputSize, hiddenSize int, rng *rand.Rand) *GRUCell {
	gates := 3 * hiddenSize
	c := &GRUCell{
		WeightIH: variable.Zeros(tensor.Shape{gates, inputSize}).RequiresGrad(),
		WeightHH: variable.Zeros(tensor.Shape{gates, hiddenSize}).RequiresGrad(),
		BiasIH:   variable.Zeros(tensor.Shape{gates}).RequiresGrad(),
		BiasHH:   variable.Zeros(tensor.Shape{gates}).RequiresGrad(),
	}
	k := float32(1 / math.Sqrt(float64(hiddenSize)))
	for _, p := range c.Parameters() {
		InitUniform(p, -k, k, rng)
	}
	return c
}

// Step computes one GRU step.
//
// hidden is [batch, H], input is [batch, in]. It returns the next hidden
// state, [batch, H].
func (c *GRUCell) Step(hidden, input *variable.Var) *variable.Var {
	igates := input.MmT(c.WeightIH).Add(c.BiasIH)
	hgates := hidden.MmT(c.WeightHH).Add(c.BiasHH)
	ichunks := igates.Chunk(1, 3)
	hchunks := hgates.Chunk(1, 3)

	resetGate := hchunks[0].Add(ichunks[0]).Sigmoid()
	inputGate := hchunks[1].Add(ichunks[1]).Sigmoid()
	newGate := ichunks[2].Add(hchunks[2].Mul(resetGate)).Tanh()

	return hidden.Sub(newGate).Mul(inputGate).Add(newGate)
}

// Parameters returns the cell's weights and biases.
func (c *GRUCell) Parameters() []*variable.Var {
	return []*variable.Var{c.WeightIH, c.WeightHH, c.BiasIH, c.BiasHH}
}
