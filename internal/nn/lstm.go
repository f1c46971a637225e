package nn

import (
	"math"
	"math/rand"

	"github.com/tactics-ml/tactics/internal/tensor"
	"github.com/tactics-ml/tactics/internal/variable"
)

// LSTMCell is a long short-term memory cell.
//
// The four gates are stacked along the leading axis of the weights:
// WeightIH is [4H, in], WeightHH is [4H, H], both biases are [4H]. All
// parameters are initialized from U(-k, k) with k = 1/√H.
type LSTMCell struct {
	WeightIH *variable.Var
	WeightHH *variable.Var
	BiasIH   *variable.Var
	BiasHH   *variable.Var
}

// NewLSTMCell creates an LSTM cell for the given input and hidden sizes.
func NewLSTMCell(inputSize, hiddenSize int, rng *rand.Rand) *LSTMCell {
	gates := 4 * hiddenSize
	c := &LSTMCell{
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

// Step computes one LSTM step.
//
// cellState and hidden are [batch, H], input is [batch, in]. It returns
// the next cell state and the next hidden state, both [batch, H].
func (c *LSTMCell) Step(cellState, hidden, input *variable.Var) (*variable.Var, *variable.Var) {
	gates := hidden.MmT(c.WeightHH).Add(c.BiasHH).
		Add(input.MmT(c.WeightIH)).Add(c.BiasIH)
	chunked := gates.Chunk(1, 4)

	inputGate := chunked[0].Sigmoid()
	forgetGate := chunked[1].Tanh()
	cellGate := chunked[2].Sigmoid()
	outputGate := chunked[3].Sigmoid()

	newCellState := forgetGate.Mul(cellState).Add(inputGate.Mul(cellGate))
	newHidden := outputGate.Mul(newCellState.Tanh())
	return newCellState, newHidden
}

// Parameters returns the cell's weights and biases.
func (c *LSTMCell) Parameters() []*variable.Var {
	return []*variable.Var{c.WeightIH, c.WeightHH, c.BiasIH, c.BiasHH}
}
