package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tactics-ml/tactics/internal/variable"
)

// Parameter initializers. They overwrite a variable's value buffer in
// place; gradients are untouched. Stochastic initializers take an
// injected generator, nothing here reads process-global entropy.

// InitConstant fills the variable with a constant value.
func InitConstant(v *variable.Var, value float32) {
	v.Data().Fill(value)
}

// InitZeros fills the variable with zeros.
func InitZeros(v *variable.Var) {
	v.Data().Zero()
}

// InitOnes fills the variable with ones.
func InitOnes(v *variable.Var) {
	v.Data().Fill(1)
}

// InitEye writes the identity into a square matrix variable.
func InitEye(v *variable.Var) {
	shape := v.Shape()
	if len(shape) != 2 || shape[0] != shape[1] {
		panic(fmt.Sprintf("nn: InitEye requires a square matrix, got shape %v", shape))
	}
	d := v.Data()
	d.Zero()
	for i := 0; i < shape[0]; i++ {
		d.Set(1, i, i)
	}
}

// InitUniform fills the variable with values drawn from U(low, high).
func InitUniform(v *variable.Var, low, high float32, rng *rand.Rand) {
	data := v.Data().Data()
	for i := range data {
		data[i] = low + rng.Float32()*(high-low)
	}
}

// InitNormal fills the variable with values drawn from N(mean, std²).
func InitNormal(v *variable.Var, mean, std float32, rng *rand.Rand) {
	data := v.Data().Data()
	for i := range data {
		data[i] = mean + float32(rng.NormFloat64())*std
	}
}

// fanInOut derives the fan counts for a weight tensor: the leading axis
// is the output extent, the second the input extent, and any remaining
// axes form the receptive field.
func fanInOut(v *variable.Var) (fanIn, fanOut int) {
	shape := v.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("nn: fan counts undefined for shape %v", shape))
	}
	field := 1
	for _, d := range shape[2:] {
		field *= d
	}
	return shape[1] * field, shape[0] * field
}

// InitXavierUniform fills the variable with the Glorot uniform
// distribution U(-a, a), a = gain·√(6/(fanIn+fanOut)).
func InitXavierUniform(v *variable.Var, gain float32, rng *rand.Rand) {
	fanIn, fanOut := fanInOut(v)
	a := gain * float32(math.Sqrt(6/float64(fanIn+fanOut)))
	InitUniform(v, -a, a, rng)
}

// InitXavierNormal fills the variable with the Glorot normal
// distribution N(0, std²), std = gain·√(2/(fanIn+fanOut)).
func InitXavierNormal(v *variable.Var, gain float32, rng *rand.Rand) {
	fanIn, fanOut := fanInOut(v)
	std := gain * float32(math.Sqrt(2/float64(fanIn+fanOut)))
	InitNormal(v, 0, std, rng)
}
