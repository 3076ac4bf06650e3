// Package cascade derives the chain of progressively randomized model
// variants used by the saliency sanity checks: variant_k copies variant_(k-1)
// and re-initializes exactly one additional layer, walking the topology from
// the output side backward.
package cascade

import (
	"errors"
	"fmt"
	"math/rand"

	"argus/internal/nn"
)

// RandomizationOrder lists the layers in the order the cascade re-initializes
// them. The flatten layer carries no parameters and is skipped. The order is
// specific to the fixed agent topology.
var RandomizationOrder = []string{
	nn.QValuesLayer,
	nn.Dense1Layer,
	nn.Conv3Layer,
	nn.Conv2Layer,
	nn.Conv1Layer,
}

// Depth is the number of variants a full chain contains, one per entry of
// RandomizationOrder.
const Depth = 5

// Variant is one link of the chain: a network whose first Depth layers of the
// randomization order have been re-initialized.
type Variant struct {
	Depth      int
	Randomized []string
	Network    *nn.Network
}

// BuildChain derives Depth variants from the original model. Each derivation
// copies its predecessor and re-initializes one layer with the training-time
// initializer, then verifies the copy: the targeted layer must differ from
// the predecessor and every other layer must be unchanged. Verification
// failures are printed as console diagnostics, never raised.
func BuildChain(original *nn.Network, rng *rand.Rand) ([]Variant, error) {
	if original == nil {
		return nil, errors.New("original network is required")
	}
	if rng == nil {
		return nil, errors.New("rng is required")
	}

	variants := make([]Variant, 0, Depth)
	previous := original
	randomized := make([]string, 0, Depth)
	for i, layerName := range RandomizationOrder {
		derived := previous.Clone()
		layer, ok := derived.ParamLayer(layerName)
		if !ok {
			return nil, fmt.Errorf("cascade layer %s not found or not trainable", layerName)
		}
		layer.Init(rng)
		verifyDerivation(previous, derived, layerName)

		randomized = append(randomized, layerName)
		variants = append(variants, Variant{
			Depth:      i + 1,
			Randomized: append([]string(nil), randomized...),
			Network:    derived,
		})
		previous = derived
	}
	return variants, nil
}

// verifyDerivation is a sanity assertion, not a correctness guarantee: it
// reports whether the targeted layer actually changed and whether the rest of
// the network was preserved.
func verifyDerivation(before, after *nn.Network, target string) {
	for _, layer := range after.Layers {
		param, ok := layer.(nn.ParamLayer)
		if !ok {
			continue
		}
		prev, ok := before.ParamLayer(layer.Name())
		if !ok {
			fmt.Printf("cascade_verify layer=%s missing_in_predecessor\n", layer.Name())
			continue
		}
		same := paramsEqual(prev, param)
		fmt.Printf("cascade_verify layer=%s unchanged=%t\n", layer.Name(), same)
		if layer.Name() == target && same {
			fmt.Printf("cascade_verify layer=%s WARNING: targeted layer did not change\n", target)
		}
		if layer.Name() != target && !same {
			fmt.Printf("cascade_verify layer=%s WARNING: untargeted layer changed\n", layer.Name())
		}
	}
}

func paramsEqual(a, b nn.ParamLayer) bool {
	aw, bw := a.Weights(), b.Weights()
	if len(aw) != len(bw) {
		return false
	}
	for i := range aw {
		if aw[i] != bw[i] {
			return false
		}
	}
	ab, bb := a.Biases(), b.Biases()
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}
