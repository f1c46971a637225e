package tensor

import "encoding/json"

// bufferJSON is the wire form of a Buffer: shape plus row-major values.
// Only leaf numeric data crosses the persistence boundary; graph bookkeeping
// is reconstructed by re-running the composition code against restored
// leaves.
type bufferJSON struct {
	Shape Shape     `json:"shape"`
	Data  []float32 `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (b *Buffer) MarshalJSON() ([]byte, error) {
	return json.Marshal(bufferJSON{Shape: b.shape, Data: b.data})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Buffer) UnmarshalJSON(raw []byte) error {
	var wire bufferJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	if wire.Shape == nil {
		wire.Shape = Shape{}
	}
	restored, err := FromSlice(wire.Data, wire.Shape)
	if err != nil {
		return err
	}
	*b = *restored
	return nil
}
