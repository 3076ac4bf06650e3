package nn

import (
	"fmt"
	"math"
)

type ActivationFunc func(x float64) float64

var activations = map[string]ActivationFunc{
	"linear": func(x float64) float64 { return x },
	"relu": func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return x
	},
}

func applyActivation(name string, values []float64) error {
	fn, ok := activations[name]
	if !ok {
		return fmt.Errorf("unsupported activation: %s", name)
	}
	for i, v := range values {
		values[i] = fn(v)
	}
	return nil
}

// Argmax returns the index of the largest value, ties resolved to the lowest
// index so greedy action selection is deterministic.
func Argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// Softmax converts raw action values into a probability distribution. The max
// is subtracted first to keep the exponentials bounded.
func Softmax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	max := values[Argmax(values)]
	sum := 0.0
	for i, v := range values {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
