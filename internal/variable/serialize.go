package variable

import (
	"encoding/json"

	"github.com/tactics-ml/tactics/internal/tensor"
)

// Only the numeric value of a variable crosses the persistence boundary.
// Tapes and gradient accumulators are transient: they are reconstructed by
// re-running the composition code against restored leaves.

// MarshalJSON serializes the variable's current value buffer.
func (v *Var) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.data.buf)
}

// UnmarshalJSON restores the variable as a constant leaf wrapping the
// decoded buffer. Promote with RequiresGrad where differentiation is
// needed.
func (v *Var) UnmarshalJSON(raw []byte) error {
	var buf tensor.Buffer
	if err := json.Unmarshal(raw, &buf); err != nil {
		return err
	}
	*v = *Leaf(&buf)
	return nil
}
