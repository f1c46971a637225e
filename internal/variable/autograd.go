// Package variable implements the reverse-mode automatic differentiation
// engine.
//
// Callers compose elementary operations (arithmetic, matrix products,
// activations, reductions, padding/convolution, losses) into a dynamically
// built computation graph. Each composition grows a tape of paired
// forward/backward records; Forward evaluates every recorded node exactly
// once in insertion order, Backward propagates a seeded gradient through the
// records in reverse insertion order, accumulating into each differentiable
// node's gradient accumulator.
//
// Usage:
//
//	x, _ := variable.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
//	x = x.RequiresGrad()
//	y := x.Sum()
//
//	y.Forward()
//	y.Backward(1.0)
//	fmt.Println(x.Grad().Data()) // [1 1 1]
//
// The engine is single-threaded and synchronous: a pass either completes or
// panics on an invariant violation (shape mismatch at construction,
// exclusivity violation on a shared buffer). There is no recoverable-error
// tier.
package variable

import "sync/atomic"

// Forward computes a node's output buffer from its operand buffers' current
// contents. It must be a pure function of those contents, so that a graph
// can be re-evaluated after its leaves have been mutated.
type Forward interface {
	Forward()
}

// Backward deposits a node's gradient contribution into its operand(s)'
// gradient accumulators. By the time it runs, all of the node's own
// consumers have already deposited into the node's accumulator; the tape's
// reverse insertion order guarantees it.
type Backward interface {
	Backward()
}

// nodeCounter issues process-wide node identities. Identities are strictly
// monotonic, so tape ordering ties are structurally impossible.
var nodeCounter atomic.Uint64

func nextNodeID() uint64 {
	return nodeCounter.Add(1)
}
