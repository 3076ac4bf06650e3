package nn

import (
	"fmt"
	"math/rand"
)

// Layer names of the fixed agent topology, input to output. FlattenLayer
// carries no parameters and is skipped by the randomization cascade.
const (
	Conv1Layer   = "conv1"
	Conv2Layer   = "conv2"
	Conv3Layer   = "conv3"
	FlattenLayer = "flatten"
	Dense1Layer  = "dense1"
	QValuesLayer = "qvalues"
)

// Network is the DQN-style action-value network the pretrained agents use:
// three convolutions over 84x84x4 stacked frames, a flatten stage and two
// dense layers ending in one output per action.
type Network struct {
	Game    string
	Actions int
	Layers  []Layer
}

// NewDQN constructs the fixed topology with zeroed parameters.
func NewDQN(game string, actions int) *Network {
	flatSize := 7 * 7 * 64
	return &Network{
		Game:    game,
		Actions: actions,
		Layers: []Layer{
			NewConv2D(Conv1Layer, InputDepth, 32, 8, 8, 4, "relu"),
			NewConv2D(Conv2Layer, 32, 64, 4, 4, 2, "relu"),
			NewConv2D(Conv3Layer, 64, 64, 3, 3, 1, "relu"),
			&Flatten{LayerName: FlattenLayer},
			NewDense(Dense1Layer, flatSize, 512, "relu"),
			NewDense(QValuesLayer, 512, actions, "linear"),
		},
	}
}

// Forward computes the action values for one stacked-frame observation.
func (n *Network) Forward(state State) ([]float64, error) {
	shape := state.Shape()
	values := state.Data
	for _, layer := range n.Layers {
		next, err := layer.Forward(values, shape)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", layer.Name(), err)
		}
		shape = layer.OutShape(shape)
		values = next
	}
	return values, nil
}

// Clone deep-copies the network so a variant's weights stay private to that
// variant once created.
func (n *Network) Clone() *Network {
	out := &Network{
		Game:    n.Game,
		Actions: n.Actions,
		Layers:  make([]Layer, len(n.Layers)),
	}
	for i, layer := range n.Layers {
		out.Layers[i] = layer.Clone()
	}
	return out
}

// Layer returns the named layer.
func (n *Network) Layer(name string) (Layer, bool) {
	for _, layer := range n.Layers {
		if layer.Name() == name {
			return layer, true
		}
	}
	return nil, false
}

// ParamLayer returns the named layer when it carries parameters.
func (n *Network) ParamLayer(name string) (ParamLayer, bool) {
	layer, ok := n.Layer(name)
	if !ok {
		return nil, false
	}
	param, ok := layer.(ParamLayer)
	return param, ok
}

// InitAll re-draws every trainable parameter from the training-time
// initializer. Used to seed synthetic checkpoints.
func (n *Network) InitAll(rng *rand.Rand) {
	for _, layer := range n.Layers {
		if param, ok := layer.(ParamLayer); ok {
			param.Init(rng)
		}
	}
}

// ParamCount reports the number of trainable parameters.
func (n *Network) ParamCount() int {
	total := 0
	for _, layer := range n.Layers {
		if param, ok := layer.(ParamLayer); ok {
			total += len(param.Weights()) + len(param.Biases())
		}
	}
	return total
}
