package variable

import "fmt"

// record pairs a node's forward computation with its backward computation.
// Constant nodes (no differentiable operand) carry a nil backward and a nil
// grad. grad is the recorded node's own accumulator; a backward pass resets
// it before propagating, so recorded gradients are per-pass values while
// leaf accumulators (never recorded) keep their running sum.
type record struct {
	forward  Forward
	backward Backward
	grad     *Gradient
}

// tapeEntry is a record keyed by its node's identity. Node identities are
// strictly monotonic across the process, so the identity doubles as the
// insertion sequence number and ordering ties cannot occur.
type tapeEntry struct {
	id  uint64
	rec record
}

// tape is the ordered ledger of a variable's subtree: every forward record
// the subtree needs, ascending by node identity, each at most once.
//
// Composing two independently built sub-expressions merges their tapes;
// the merge is a union, so a sub-expression referenced from multiple
// consumers still evaluates once per pass.
type tape struct {
	ids  map[uint64]struct{}
	path []tapeEntry

	// ordered execution cache, rebuilt lazily after inserts
	buffer []record
}

func newTape() *tape {
	return &tape{ids: make(map[uint64]struct{})}
}

// insert appends rec at the next sequence position. Inserting an identity
// already present is a no-op: the value slot is the same shared node, so
// re-inserting never duplicates an evaluation.
func (t *tape) insert(id uint64, rec record) {
	if _, ok := t.ids[id]; ok {
		return
	}
	if n := len(t.path); n > 0 && t.path[n-1].id >= id {
		// Nodes are created after everything in their operands' tapes.
		panic(fmt.Sprintf("variable: tape insert out of order (id %d after %d)", id, t.path[n-1].id))
	}
	t.ids[id] = struct{}{}
	t.path = append(t.path, tapeEntry{id: id, rec: rec})
	t.buffer = nil
}

// clone returns an independent copy of the tape.
func (t *tape) clone() *tape {
	c := &tape{
		ids:  make(map[uint64]struct{}, len(t.ids)),
		path: append([]tapeEntry(nil), t.path...),
	}
	for id := range t.ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// merge returns the union of two tapes, ordered by each entry's original
// sequence number.
func (t *tape) merge(other *tape) *tape {
	m := &tape{
		ids:  make(map[uint64]struct{}, len(t.ids)+len(other.ids)),
		path: make([]tapeEntry, 0, len(t.path)+len(other.path)),
	}

	i, j := 0, 0
	for i < len(t.path) && j < len(other.path) {
		a, b := t.path[i], other.path[j]
		switch {
		case a.id < b.id:
			m.path = append(m.path, a)
			i++
		case a.id > b.id:
			m.path = append(m.path, b)
			j++
		default:
			m.path = append(m.path, a)
			i++
			j++
		}
	}
	m.path = append(m.path, t.path[i:]...)
	m.path = append(m.path, other.path[j:]...)

	for _, e := range m.path {
		m.ids[e.id] = struct{}{}
	}
	return m
}

// records returns the execution order used by Forward (ascending sequence).
// Backward walks the same slice in reverse.
func (t *tape) records() []record {
	if t.buffer == nil {
		t.buffer = make([]record, len(t.path))
		for i, e := range t.path {
			t.buffer[i] = e.rec
		}
	}
	return t.buffer
}

func (t *tape) len() int {
	return len(t.path)
}
