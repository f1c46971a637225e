package variable

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactics-ml/tactics/internal/tensor"
)

func TestDropoutEvalIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	status := NewDropoutStatus()
	status.Eval()

	x := leafFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{4}).RequiresGrad()
	y := x.Dropout(0.5, status, rng)
	y.Forward()
	assert.Equal(t, x.Data().Data(), y.Data().Data())

	y.BackwardWith(tensor.Ones(tensor.Shape{4}))
	assert.Equal(t, []float32{1, 1, 1, 1}, x.Grad().Data())
}

func TestDropoutTrainMasksAndScales(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	status := NewDropoutStatus()

	x := Ones(tensor.Shape{1000}).RequiresGrad()
	y := x.Dropout(0.5, status, rng)
	y.Forward()

	dropped := 0
	for _, v := range y.Data().Data() {
		switch v {
		case 0:
			dropped++
		case 2:
		default:
			t.Fatalf("unexpected value %v, want 0 or 2", v)
		}
	}
	assert.Greater(t, dropped, 350)
	assert.Less(t, dropped, 650)

	// backward replays the exact forward mask
	y.BackwardWith(tensor.Ones(tensor.Shape{1000}))
	for i, v := range y.Data().Data() {
		assert.Equal(t, v, x.Grad().Data()[i])
	}
}

func TestDropoutResamplesEachForward(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := Ones(tensor.Shape{64})
	y := x.Dropout(0.5, NewDropoutStatus(), rng)

	y.Forward()
	first := append([]float32(nil), y.Data().Data()...)
	y.Forward()
	assert.NotEqual(t, first, y.Data().Data())
}

func TestDropoutEdgeProbabilities(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	status := NewDropoutStatus()

	x := leafFrom(t, []float32{1, 2, 3}, tensor.Shape{3})
	keepAll := x.Dropout(0, status, rng)
	keepAll.Forward()
	assert.Equal(t, []float32{1, 2, 3}, keepAll.Data().Data())

	dropAll := x.Dropout(1, status, rng)
	dropAll.Forward()
	assert.Equal(t, []float32{0, 0, 0}, dropAll.Data().Data())

	assert.Panics(t, func() { x.Dropout(1.5, status, rng) })
	assert.Panics(t, func() { x.Dropout(-0.1, status, rng) })
}

func TestDropoutStatusIsShared(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	status := NewDropoutStatus()

	x := Ones(tensor.Shape{32})
	a := x.Dropout(0.9, status, rng)
	b := a.Dropout(0.9, status, rng)

	status.Eval()
	b.Forward()
	assert.Equal(t, x.Data().Data(), b.Data().Data())
	assert.False(t, status.Training())
}
