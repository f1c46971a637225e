package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactics-ml/tactics/internal/tensor"
)

func TestCellSharedBorrows(t *testing.T) {
	c := newCell(tensor.Zeros(tensor.Shape{1}))
	c.borrow()
	c.borrow()
	c.release()
	c.release()
	assert.NotPanics(t, func() { c.borrowMut(); c.releaseMut() })
}

func TestCellMutExcludesShared(t *testing.T) {
	c := newCell(tensor.Zeros(tensor.Shape{1}))
	c.borrowMut()
	assert.Panics(t, func() { c.borrow() })
	assert.Panics(t, func() { c.borrowMut() })
	c.releaseMut()
}

func TestCellSharedExcludesMut(t *testing.T) {
	c := newCell(tensor.Zeros(tensor.Shape{1}))
	c.borrow()
	assert.Panics(t, func() { c.borrowMut() })
	c.release()
}

func TestCellUnbalancedReleasePanics(t *testing.T) {
	c := newCell(tensor.Zeros(tensor.Shape{1}))
	assert.Panics(t, func() { c.release() })
	assert.Panics(t, func() { c.releaseMut() })
}
