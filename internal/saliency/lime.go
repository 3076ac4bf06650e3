package saliency

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"argus/internal/nn"
	"argus/internal/segment"
)

const (
	limeKernelWidth = 0.25
	limeRidgeAlpha  = 1.0
)

// LimeGenerator explains an action by fitting a weighted ridge regression over
// random on/off combinations of superpixels. Segmentation runs on the mean of
// the stacked frames so all four channels share one partition.
type LimeGenerator struct {
	network      *nn.Network
	segmentation segment.Func
	numSamples   int
	positiveOnly bool
	rng          *rand.Rand
}

func NewLimeGenerator(network *nn.Network, segmentation segment.Func, numSamples int, positiveOnly bool, rng *rand.Rand) *LimeGenerator {
	return &LimeGenerator{
		network:      network,
		segmentation: segmentation,
		numSamples:   numSamples,
		positiveOnly: positiveOnly,
		rng:          rng,
	}
}

func (g *LimeGenerator) Generate(state nn.State, action int) (*mat.Dense, error) {
	plane := meanPlane(state)
	labels := g.segmentation(plane, state.H, state.W)
	if labels.Count < 2 {
		return nil, fmt.Errorf("lime: segmentation produced %d segments", labels.Count)
	}

	// Per-segment per-channel means form the "off" fill values.
	fill := segmentMeans(state, labels)

	samples := make([][]bool, g.numSamples)
	responses := make([]float64, g.numSamples)
	weights := make([]float64, g.numSamples)
	for s := 0; s < g.numSamples; s++ {
		active := make([]bool, labels.Count)
		on := 0
		for i := range active {
			if g.rng.Float64() < 0.5 {
				active[i] = true
				on++
			}
		}
		// The undisturbed instance anchors the fit.
		if s == 0 {
			for i := range active {
				active[i] = true
			}
			on = labels.Count
		}
		perturbed := applyMask(state, labels, active, fill)
		values, err := g.network.Forward(perturbed)
		if err != nil {
			return nil, err
		}
		probs := nn.Softmax(values)
		samples[s] = active
		responses[s] = probs[action]
		d := 1 - float64(on)/float64(labels.Count)
		weights[s] = math.Exp(-(d * d) / (limeKernelWidth * limeKernelWidth))
	}

	coef := ridgeFit(samples, responses, weights, labels.Count)

	out := mat.NewDense(state.H, state.W, nil)
	for y := 0; y < state.H; y++ {
		for x := 0; x < state.W; x++ {
			v := coef[labels.IDs[y*state.W+x]]
			if g.positiveOnly && v < 0 {
				v = 0
			}
			out.Set(y, x, v)
		}
	}
	return out, nil
}

func segmentMeans(state nn.State, labels segment.Labels) [][]float64 {
	sums := make([][]float64, labels.Count)
	counts := make([]int, labels.Count)
	for i := range sums {
		sums[i] = make([]float64, state.C)
	}
	for y := 0; y < state.H; y++ {
		for x := 0; x < state.W; x++ {
			id := labels.IDs[y*state.W+x]
			counts[id]++
			for c := 0; c < state.C; c++ {
				sums[id][c] += state.At(y, x, c)
			}
		}
	}
	for i := range sums {
		if counts[i] == 0 {
			continue
		}
		for c := range sums[i] {
			sums[i][c] /= float64(counts[i])
		}
	}
	return sums
}

func applyMask(state nn.State, labels segment.Labels, active []bool, fill [][]float64) nn.State {
	out := state.Clone()
	for y := 0; y < state.H; y++ {
		for x := 0; x < state.W; x++ {
			id := labels.IDs[y*state.W+x]
			if active[id] {
				continue
			}
			for c := 0; c < state.C; c++ {
				out.Set(y, x, c, fill[id][c])
			}
		}
	}
	return out
}

// ridgeFit solves (XᵀWX + αI)β = XᵀWy for the segment coefficients.
func ridgeFit(samples [][]bool, responses, weights []float64, features int) []float64 {
	n := len(samples)
	x := mat.NewDense(n, features, nil)
	for s := 0; s < n; s++ {
		for f := 0; f < features; f++ {
			if samples[s][f] {
				x.Set(s, f, 1)
			}
		}
	}
	w := mat.NewDiagDense(n, weights)
	y := mat.NewVecDense(n, responses)

	var xtw mat.Dense
	xtw.Mul(x.T(), w)

	var lhs mat.Dense
	lhs.Mul(&xtw, x)
	for i := 0; i < features; i++ {
		lhs.Set(i, i, lhs.At(i, i)+limeRidgeAlpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(&xtw, y)

	coef := make([]float64, features)
	var sol mat.VecDense
	if err := sol.SolveVec(&lhs, &rhs); err != nil {
		return coef
	}
	copy(coef, sol.RawVector().Data)
	return coef
}
