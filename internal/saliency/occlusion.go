package saliency

import (
	"gonum.org/v1/gonum/mat"

	"argus/internal/nn"
)

// OcclusionGenerator scores each patch of the frame by the drop in the
// explained action's score when the patch is painted over with a flat color.
type OcclusionGenerator struct {
	network   *nn.Network
	patchSize int
	color     float64
	softmax   bool
}

func NewOcclusionGenerator(network *nn.Network, patchSize int, color float64, softmax bool) *OcclusionGenerator {
	return &OcclusionGenerator{network: network, patchSize: patchSize, color: color, softmax: softmax}
}

func (g *OcclusionGenerator) Generate(state nn.State, action int) (*mat.Dense, error) {
	base, err := actionScores(g.network, state, g.softmax)
	if err != nil {
		return nil, err
	}
	patch := g.patchSize
	if patch < 1 {
		patch = 1
	}

	out := mat.NewDense(state.H, state.W, nil)
	for py := 0; py < state.H; py += patch {
		for px := 0; px < state.W; px += patch {
			occluded := state.Clone()
			for y := py; y < py+patch && y < state.H; y++ {
				for x := px; x < px+patch && x < state.W; x++ {
					for c := 0; c < state.C; c++ {
						occluded.Set(y, x, c, g.color)
					}
				}
			}
			scores, err := actionScores(g.network, occluded, g.softmax)
			if err != nil {
				return nil, err
			}
			score := base[action] - scores[action]
			for y := py; y < py+patch && y < state.H; y++ {
				for x := px; x < px+patch && x < state.W; x++ {
					out.Set(y, x, score)
				}
			}
		}
	}
	return out, nil
}
