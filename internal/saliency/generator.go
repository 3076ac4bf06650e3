// Package saliency implements the explanation generators the sanity checks
// compare: perturbation-based saliency maps over the agent's stacked-frame
// observations. A generator is bound to one model variant plus a fixed set of
// method parameters and produces a relevance map for a (state, action) pair.
package saliency

import (
	"gonum.org/v1/gonum/mat"

	"argus/internal/nn"
)

// Generator maps a state and the action to explain onto a 2D relevance map
// with the spatial shape of the input frame. Maps are not normalized;
// normalization is a comparison-time operation.
type Generator interface {
	Generate(state nn.State, action int) (*mat.Dense, error)
}

// actionScores runs the network and optionally squashes the action values
// through a softmax.
func actionScores(network *nn.Network, state nn.State, softmax bool) ([]float64, error) {
	values, err := network.Forward(state)
	if err != nil {
		return nil, err
	}
	if softmax {
		return nn.Softmax(values), nil
	}
	return values, nil
}

// meanPlane collapses a stacked-frame state into one grayscale plane.
func meanPlane(state nn.State) []float64 {
	out := make([]float64, state.H*state.W)
	for y := 0; y < state.H; y++ {
		for x := 0; x < state.W; x++ {
			sum := 0.0
			for c := 0; c < state.C; c++ {
				sum += state.At(y, x, c)
			}
			out[y*state.W+x] = sum / float64(state.C)
		}
	}
	return out
}
