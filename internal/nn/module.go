// Package nn implements neural network layers on top of the autograd
// engine in internal/variable.
//
// Layers are thin compositions of graph operations plus leaf parameter
// initialization; all differentiation bookkeeping lives one level down.
// Every layer exposes its parameters for the optimizers in internal/optim.
package nn

import "github.com/tactics-ml/tactics/internal/variable"

// Module is the base interface for neural network components.
//
// Forward builds the module's sub-graph over the input variable and
// returns its root; Parameters returns every trainable leaf, including
// those of nested modules.
type Module interface {
	Forward(input *variable.Var) *variable.Var
	Parameters() []*variable.Var
}
