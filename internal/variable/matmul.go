package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// matMul computes dst = a·b (or dst += a·b when accumulate is set) for
// row-major matrices, with optional logical transposes of either operand.
// dst is m×n; a is m×k (k×m when transA); b is k×n (n×k when transB).
// Every matrix product in the graph, forward and backward, funnels
// through here.
func matMul(dst, a, b []float32, m, k, n int, transA, transB, accumulate bool) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var acc float32
			for p := 0; p < k; p++ {
				var av, bv float32
				if transA {
					av = a[p*m+i]
				} else {
					av = a[i*k+p]
				}
				if transB {
					bv = b[j*k+p]
				} else {
					bv = b[p*n+j]
				}
				acc += av * bv
			}
			if accumulate {
				dst[i*n+j] += acc
			} else {
				dst[i*n+j] = acc
			}
		}
	}
}

func checkMatrix(shape tensor.Shape, op string) {
	if len(shape) != 2 {
		panic(fmt.Sprintf("variable: %s requires a matrix operand, got shape %v", op, shape))
	}
}

// mmForward computes the matrix product of two rank-2 operands.
type mmForward struct {
	left, right, data *cell
}

func (n *mmForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	m, k := l.Shape()[0], l.Shape()[1]
	matMul(out.Data(), l.Data(), r.Data(), m, k, r.Shape()[1], false, false, false)
}

// mmBackward deposits grad·rightᵀ into the left gradient and leftᵀ·grad
// into the right one.
type mmBackward struct {
	leftGrad, rightGrad *Gradient
	left, right         *cell
	grad                *Gradient
}

func (n *mmBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	m, nn := g.Shape()[0], g.Shape()[1]

	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		r := n.right.borrow()
		matMul(og.Data(), g.Data(), r.Data(), m, nn, r.Shape()[0], false, true, true)
		n.right.release()
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		l := n.left.borrow()
		matMul(og.Data(), l.Data(), g.Data(), l.Shape()[1], m, nn, true, false, true)
		n.left.release()
		n.rightGrad.cell.releaseMut()
	}
}

// Mm computes the matrix product v·other of two rank-2 variables.
// v must be [m, k] and other [k, n]; the result is [m, n].
func (v *Var) Mm(other *Var) *Var {
	checkMatrix(v.Shape(), "Mm")
	checkMatrix(other.Shape(), "Mm")
	if v.Shape()[1] != other.Shape()[0] {
		panic(fmt.Sprintf("variable: Mm inner dimensions disagree: %v x %v", v.Shape(), other.Shape()))
	}

	shape := tensor.Shape{v.Shape()[0], other.Shape()[1]}
	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &mmForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &mmBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			left: v.data, right: other.data, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}

// mmTForward computes left·rightᵀ without materializing the transpose.
type mmTForward struct {
	left, right, data *cell
}

func (n *mmTForward) Forward() {
	out := n.data.borrowMut()
	defer n.data.releaseMut()
	l := n.left.borrow()
	defer n.left.release()
	r := n.right.borrow()
	defer n.right.release()

	m, k := l.Shape()[0], l.Shape()[1]
	matMul(out.Data(), l.Data(), r.Data(), m, k, r.Shape()[0], false, true, false)
}

// mmTBackward deposits grad·right into the left gradient and gradᵀ·left
// into the right one.
type mmTBackward struct {
	leftGrad, rightGrad *Gradient
	left, right         *cell
	grad                *Gradient
}

func (n *mmTBackward) Backward() {
	g := n.grad.cell.borrow()
	defer n.grad.cell.release()
	m, nn := g.Shape()[0], g.Shape()[1]

	if n.leftGrad != nil {
		og := n.leftGrad.cell.borrowMut()
		r := n.right.borrow()
		matMul(og.Data(), g.Data(), r.Data(), m, nn, r.Shape()[1], false, false, true)
		n.right.release()
		n.leftGrad.cell.releaseMut()
	}
	if n.rightGrad != nil {
		og := n.rightGrad.cell.borrowMut()
		l := n.left.borrow()
		matMul(og.Data(), g.Data(), l.Data(), nn, m, l.Shape()[1], true, false, true)
		n.left.release()
		n.rightGrad.cell.releaseMut()
	}
}

// MmT computes v·otherᵀ for two rank-2 variables without building the
// transposed matrix. v must be [m, k] and other [n, k]; the result is
// [m, n].
func (v *Var) MmT(other *Var) *Var {
	checkMatrix(v.Shape(), "MmT")
	checkMatrix(other.Shape(), "MmT")
	if v.Shape()[1] != other.Shape()[1] {
		panic(fmt.Sprintf("variable: MmT inner dimensions disagree: %v x %v", v.Shape(), other.Shape()))
	}

	shape := tensor.Shape{v.Shape()[0], other.Shape()[0]}
	out := newResult(shape, anyDiff(v, other), v, other)
	rec := record{forward: &mmTForward{left: v.data, right: other.data, data: out.data}}
	if out.grad != nil {
		rec.backward = &mmTBackward{
			leftGrad: v.grad, rightGrad: other.grad,
			left: v.data, right: other.data, grad: out.grad,
		}
	}
	out.insertRecord(rec)
	return out
}
