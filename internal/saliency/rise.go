package saliency

import (
	"errors"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"argus/internal/nn"
)

// MaskSet holds the random sampling masks a RISE generator multiplies into
// the observation. The set is generated once from the original model's
// generator and shared verbatim across all variant generators, so similarity
// differences reflect randomized weights and not redrawn sampling.
type MaskSet struct {
	Masks []*mat.Dense
}

// RiseGenerator implements RISE: the observation is element-wise masked with
// random binary low-resolution masks and the masked scores are accumulated
// into a weighted mask average.
type RiseGenerator struct {
	network  *nn.Network
	prob     float64
	maskSize int
	count    int
	softmax  bool
	masks    *MaskSet
}

func NewRiseGenerator(network *nn.Network, prob float64, maskSize, count int, softmax bool) *RiseGenerator {
	return &RiseGenerator{network: network, prob: prob, maskSize: maskSize, count: count, softmax: softmax}
}

// EnsureMasks generates the mask set if the generator does not have one yet.
func (g *RiseGenerator) EnsureMasks(h, w int, rng *rand.Rand) *MaskSet {
	if g.masks != nil {
		return g.masks
	}
	set := &MaskSet{Masks: make([]*mat.Dense, g.count)}
	cell := (h + g.maskSize - 1) / g.maskSize
	if cell < 1 {
		cell = 1
	}
	for i := range set.Masks {
		set.Masks[i] = randomMask(h, w, g.maskSize, cell, g.prob, rng)
	}
	g.masks = set
	return set
}

// ShareMasks installs a mask set generated elsewhere.
func (g *RiseGenerator) ShareMasks(set *MaskSet) {
	g.masks = set
}

// HasMasks reports whether a mask set is installed.
func (g *RiseGenerator) HasMasks() bool { return g.masks != nil }

func (g *RiseGenerator) Generate(state nn.State, action int) (*mat.Dense, error) {
	if g.masks == nil {
		return nil, errors.New("rise masks not generated")
	}
	out := mat.NewDense(state.H, state.W, nil)
	masked := nn.NewState(state.H, state.W, state.C)
	for _, mask := range g.masks.Masks {
		for y := 0; y < state.H; y++ {
			for x := 0; x < state.W; x++ {
				m := mask.At(y, x)
				for c := 0; c < state.C; c++ {
					masked.Set(y, x, c, state.At(y, x, c)*m)
				}
			}
		}
		scores, err := actionScores(g.network, masked, g.softmax)
		if err != nil {
			return nil, err
		}
		score := scores[action]
		for y := 0; y < state.H; y++ {
			for x := 0; x < state.W; x++ {
				out.Set(y, x, out.At(y, x)+score*mask.At(y, x))
			}
		}
	}
	norm := float64(len(g.masks.Masks)) * g.prob
	if norm > 0 {
		out.Scale(1/norm, out)
	}
	return out, nil
}

// randomMask draws one low-resolution Bernoulli grid and upsamples it
// bilinearly with a random sub-cell shift.
func randomMask(h, w, size, cell int, prob float64, rng *rand.Rand) *mat.Dense {
	grid := make([]float64, (size+1)*(size+1))
	for i := range grid {
		if rng.Float64() < prob {
			grid[i] = 1
		}
	}
	offY := rng.Float64() * float64(cell)
	offX := rng.Float64() * float64(cell)

	mask := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gy := (float64(y) + offY) / float64(cell)
			gx := (float64(x) + offX) / float64(cell)
			iy, ix := int(gy), int(gx)
			if iy >= size {
				iy = size - 1
			}
			if ix >= size {
				ix = size - 1
			}
			fy, fx := gy-float64(iy), gx-float64(ix)
			v00 := grid[iy*(size+1)+ix]
			v01 := grid[iy*(size+1)+ix+1]
			v10 := grid[(iy+1)*(size+1)+ix]
			v11 := grid[(iy+1)*(size+1)+ix+1]
			top := v00*(1-fx) + v01*fx
			bottom := v10*(1-fx) + v11*fx
			mask.Set(y, x, top*(1-fy)+bottom*fy)
		}
	}
	return mask
}
