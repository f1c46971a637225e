package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactics-ml/tactics/internal/tensor"
)

type noopForward struct{}

func (noopForward) Forward() {}

func TestNodeIDsAreStrictlyIncreasing(t *testing.T) {
	a := Ones(tensor.Shape{1})
	b := Ones(tensor.Shape{1})
	c := a.Add(b)
	assert.Less(t, a.id, b.id)
	assert.Less(t, b.id, c.id)
}

func TestTapeInsertIsIdempotent(t *testing.T) {
	tp := newTape()
	rec := record{forward: noopForward{}}
	tp.insert(1, rec)
	tp.insert(1, rec)
	assert.Equal(t, 1, tp.len())
}

func TestTapeInsertOutOfOrderPanics(t *testing.T) {
	tp := newTape()
	tp.insert(5, record{forward: noopForward{}})
	assert.Panics(t, func() { tp.insert(3, record{forward: noopForward{}}) })
}

func TestTapeMergeKeepsOrderAndDeduplicates(t *testing.T) {
	shared := record{forward: noopForward{}}
	left := newTape()
	left.insert(1, shared)
	left.insert(3, record{forward: noopForward{}})

	right := newTape()
	right.insert(1, shared)
	right.insert(2, record{forward: noopForward{}})
	right.insert(4, record{forward: noopForward{}})

	m := left.merge(right)
	assert.Equal(t, 4, m.len())
	ids := make([]uint64, 0, m.len())
	for _, e := range m.path {
		ids = append(ids, e.id)
	}
	assert.Equal(t, []uint64{1, 2, 3, 4}, ids)
}

func TestCloneIsIndependent(t *testing.T) {
	tp := newTape()
	tp.insert(1, record{forward: noopForward{}})
	c := tp.clone()
	c.insert(2, record{forward: noopForward{}})
	assert.Equal(t, 1, tp.len())
	assert.Equal(t, 2, c.len())
}

func TestCompositionOrderIndependence(t *testing.T) {
	// The same expression built from interleaved sub-expressions evaluates
	// correctly because execution order follows node creation order.
	x := Full(tensor.Shape{1}, 2).RequiresGrad()
	y := Full(tensor.Shape{1}, 3).RequiresGrad()

	xx := x.Mul(x)
	yy := y.Mul(y)
	sum := yy.Add(xx)

	sum.Forward()
	assert.InDelta(t, 13, sum.Data().Data()[0], 1e-6)

	sum.Backward(1)
	assert.InDelta(t, 4, float64(x.Grad().Data()[0]), 1e-6)
	assert.InDelta(t, 6, float64(y.Grad().Data()[0]), 1e-6)
}
