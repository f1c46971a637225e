package variable

import (
	"fmt"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// mutBorrow marks a cell whose buffer is exclusively borrowed for writing.
const mutBorrow = -1

// cell grants multiple graph nodes access to one shared buffer with
// runtime-checked exclusivity: any number of simultaneous read borrows, or
// exactly one write borrow, never both. A violation is a construction bug in
// the graph, not a runtime data condition, so it panics.
//
// The engine runs on a single logical thread per graph evaluation; the
// checks are counters, not locks.
type cell struct {
	buf   *tensor.Buffer
	state int // 0 free, >0 number of read borrows, mutBorrow exclusive
}

func newCell(buf *tensor.Buffer) *cell {
	return &cell{buf: buf}
}

// borrow takes a shared read borrow. Release with release.
func (c *cell) borrow() *tensor.Buffer {
	if c.state == mutBorrow {
		panic("variable: buffer already mutably borrowed")
	}
	c.state++
	return c.buf
}

func (c *cell) release() {
	if c.state <= 0 {
		panic("variable: release without matching borrow")
	}
	c.state--
}

// borrowMut takes the exclusive write borrow. Release with releaseMut.
func (c *cell) borrowMut() *tensor.Buffer {
	if c.state != 0 {
		panic(fmt.Sprintf("variable: buffer already borrowed (state %d)", c.state))
	}
	c.state = mutBorrow
	return c.buf
}

func (c *cell) releaseMut() {
	if c.state != mutBorrow {
		panic("variable: releaseMut without matching borrowMut")
	}
	c.state = 0
}
