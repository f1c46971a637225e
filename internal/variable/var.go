package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Var is a node of the computation graph: a value buffer, the tape of its
// subtree, and, when the node is differentiable, a gradient accumulator.
//
// A Var built with Leaf is a constant with respect to differentiation;
// RequiresGrad promotes it to a differentiable variable with a zeroed
// accumulator. Operation methods merge their operands' tapes, record a new
// forward/backward pair, and return a new Var wrapping the operation's
// output buffer. The result is differentiable whenever at least one operand
// is.
type Var struct {
	id   uint64
	data *cell
	grad *Gradient // nil for constants
	past *tape
}

// Leaf wraps a tensor buffer as a non-differentiable constant.
func Leaf(buf *tensor.Buffer) *Var {
	return &Var{
		id:   nextNodeID(),
		data: newCell(buf),
		past: newTape(),
	}
}

// RequiresGrad promotes the variable to a differentiable one carrying a
// fresh all-zero gradient accumulator shaped like its value.
func (v *Var) RequiresGrad() *Var {
	if v.grad != nil {
		return v
	}
	return &Var{
		id:   v.id,
		data: v.data,
		grad: newGradient(v.Shape()),
		past: v.past,
	}
}

// IsDifferentiable reports whether the variable carries a gradient
// accumulator.
func (v *Var) IsDifferentiable() bool {
	return v.grad != nil
}

// Shape returns the shape of the variable's value buffer.
func (v *Var) Shape() tensor.Shape {
	return v.data.buf.Shape()
}

// Data returns the variable's current output buffer. Its contents are
// defined by the most recent Forward pass (for a leaf, by whatever the
// caller stored there). Callers must not mutate it while a pass is running.
func (v *Var) Data() *tensor.Buffer {
	return v.data.buf
}

// Grad returns the variable's gradient accumulator buffer.
// Panics if the variable is not differentiable.
func (v *Var) Grad() *tensor.Buffer {
	if v.grad == nil {
		panic("variable: Grad on a non-differentiable variable")
	}
	return v.grad.Buffer()
}

// Gradient returns the accumulator itself, for callers that need Zero.
// Panics if the variable is not differentiable.
func (v *Var) Gradient() *Gradient {
	if v.grad == nil {
		panic("variable: Gradient on a non-differentiable variable")
	}
	return v.grad
}

// ZeroGrad resets the gradient accumulator. The engine never calls this
// implicitly; it exists for optimizers.
func (v *Var) ZeroGrad() {
	v.Gradient().Zero()
}

// NumOps returns the number of recorded operations in the variable's tape.
// A sub-expression shared by several consumers contributes exactly one.
func (v *Var) NumOps() int {
	return v.past.len()
}

// Forward executes every recorded forward computation in insertion order,
// each exactly once. Given unchanged leaves it is idempotent; its side
// effect is the mutation of every node's output buffer in the subtree.
func (v *Var) Forward() {
	for _, rec := range v.past.records() {
		rec.forward.Forward()
	}
}

// Backward seeds the root's gradient accumulator with seed, then runs
// every backward record in reverse insertion order. Recorded nodes get
// their accumulators recomputed from zero on every pass; leaf accumulators
// keep summing across passes until an optimizer zeroes them, so two passes
// with no reset leave every leaf gradient doubled. Forward must have run
// at least once since the last leaf mutation; that precondition is the
// caller's, not checked here.
func (v *Var) Backward(seed float32) {
	v.seedCheck()
	v.resetRecordedGrads()
	v.grad.Zero()
	v.grad.AccumulateScalar(seed)
	v.runBackward()
}

// BackwardWith seeds the root's gradient accumulator with an upstream
// gradient buffer instead of a scalar. The buffer must match the root's
// shape.
func (v *Var) BackwardWith(seed *tensor.Buffer) {
	v.seedCheck()
	if !seed.Shape().Equal(v.Shape()) {
		panic(fmt.Sprintf("variable: seed shape %v does not match root shape %v", seed.Shape(), v.Shape()))
	}
	v.resetRecordedGrads()
	v.grad.Zero()
	v.grad.Accumulate(seed)
	v.runBackward()
}

func (v *Var) seedCheck() {
	if v.grad == nil {
		panic("variable: Backward on a non-differentiable variable")
	}
}

// resetRecordedGrads zeroes the accumulator of every recorded node in the
// subtree. A recorded node's gradient is a per-pass value: without the
// reset, a second pass would propagate the running sum downstream and
// inflate every ancestor's contribution.
func (v *Var) resetRecordedGrads() {
	for _, rec := range v.past.records() {
		if rec.grad != nil {
			rec.grad.Zero()
		}
	}
}

func (v *Var) runBackward() {
	recs := v.past.records()
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].backward != nil {
			recs[i].backward.Backward()
		}
	}
}

// insertRecord appends the node's own forward/backward pair to its tape,
// tagging the entry with the node's accumulator so a backward pass can
// reset it.
func (v *Var) insertRecord(rec record) {
	rec.grad = v.grad
	v.past.insert(v.id, rec)
}
