package saliency

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"argus/internal/nn"
)

// SarfaGenerator implements SARFA saliency: perturbation centers are scored
// by the harmonic mean of action-specific probability drop (specificity) and
// the stability of the remaining action distribution (relevance).
type SarfaGenerator struct {
	network *nn.Network
	radius  int
	blur    bool
}

func NewSarfaGenerator(network *nn.Network, radius int, blur bool) *SarfaGenerator {
	return &SarfaGenerator{network: network, radius: radius, blur: blur}
}

func (g *SarfaGenerator) Generate(state nn.State, action int) (*mat.Dense, error) {
	baseValues, err := g.network.Forward(state)
	if err != nil {
		return nil, err
	}
	baseProbs := nn.Softmax(baseValues)

	target := grayState(state)
	if g.blur {
		target = blurState(state)
	}

	radius := float64(g.radius)
	stride := g.radius
	if stride < 1 {
		stride = 1
	}

	scores := mat.NewDense(state.H, state.W, nil)
	weights := mat.NewDense(state.H, state.W, nil)
	for cy := 0; cy < state.H; cy += stride {
		for cx := 0; cx < state.W; cx += stride {
			perturbed := perturbAt(state, target, cy, cx, radius)
			values, err := g.network.Forward(perturbed)
			if err != nil {
				return nil, err
			}
			probs := nn.Softmax(values)
			score := sarfaScore(baseProbs, probs, action)
			for y := 0; y < state.H; y++ {
				for x := 0; x < state.W; x++ {
					m := gaussianWeight(y, x, cy, cx, radius)
					scores.Set(y, x, scores.At(y, x)+score*m)
					weights.Set(y, x, weights.At(y, x)+m)
				}
			}
		}
	}
	for y := 0; y < state.H; y++ {
		for x := 0; x < state.W; x++ {
			if w := weights.At(y, x); w > 0 {
				scores.Set(y, x, scores.At(y, x)/w)
			}
		}
	}
	return scores, nil
}

// sarfaScore combines specificity dP with relevance 1/(1+K), K being the KL
// divergence between the remaining-action distributions. Perturbations that
// raise the explained action's probability score zero.
func sarfaScore(base, perturbed []float64, action int) float64 {
	dP := base[action] - perturbed[action]
	if dP <= 0 {
		return 0
	}
	baseRem := renormalizeWithout(base, action)
	pertRem := renormalizeWithout(perturbed, action)
	k := 0.0
	for i := range baseRem {
		if baseRem[i] <= 0 || pertRem[i] <= 0 {
			continue
		}
		k += baseRem[i] * math.Log(baseRem[i]/pertRem[i])
	}
	if k < 0 {
		k = 0
	}
	kInv := 1 / (1 + k)
	if dP+kInv == 0 {
		return 0
	}
	return 2 * dP * kInv / (dP + kInv)
}

func renormalizeWithout(probs []float64, action int) []float64 {
	out := make([]float64, 0, len(probs)-1)
	sum := 0.0
	for i, p := range probs {
		if i == action {
			continue
		}
		out = append(out, p)
		sum += p
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
