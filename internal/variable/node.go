package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// mergedPast returns the tape a new node starts from: the ordered union of
// its operands' tapes. The union never duplicates a shared sub-expression,
// which is what makes a multiply-referenced node run once per pass.
func mergedPast(operands ...*Var) *tape {
	if len(operands) == 1 {
		return operands[0].past.clone()
	}
	past := operands[0].past.merge(operands[1].past)
	for _, o := range operands[2:] {
		past = past.merge(o.past)
	}
	return past
}

// anyDiff reports whether at least one operand is differentiable, which is
// what makes the result differentiable.
func anyDiff(operands ...*Var) bool {
	for _, o := range operands {
		if o.grad != nil {
			return true
		}
	}
	return false
}

// newResult allocates the output node of an operation: a fresh zero buffer
// of the op's result shape, a gradient accumulator when diff is true, and
// the merged past of the operands. The caller fills in the op's record via
// insertRecord.
func newResult(shape tensor.Shape, diff bool, operands ...*Var) *Var {
	out := &Var{
		id:   nextNodeID(),
		data: newCell(tensor.Zeros(shape)),
		past: mergedPast(operands...),
	}
	if diff {
		out.grad = newGradient(shape)
	}
	return out
}

// axisDims decomposes a shape around an axis into [outer, n, inner] so that
// flat index = (o*n + j)*inner + i for coordinate j along the axis.
func axisDims(shape tensor.Shape, axis int) (outer, n, inner int) {
	outer, n, inner = 1, shape[axis], 1
	for _, d := range shape[:axis] {
		outer *= d
	}
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	return outer, n, inner
}

// forEachLane visits every 1-D lane running along axis. For each lane it
// passes the flat index of the first element, the flat stride between
// consecutive elements, and the lane length.
func forEachLane(shape tensor.Shape, axis int, fn func(base, stride, lane int)) {
	outer, n, inner := axisDims(shape, axis)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			fn(o*n*inner+i, inner, n)
		}
	}
}

func checkAxis(shape tensor.Shape, axis int) {
	if axis < 0 || axis >= len(shape) {
		panic(fmt.Sprintf("variable: axis %d out of range for shape %v", axis, shape))
	}
}
