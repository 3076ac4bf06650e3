package saliency

import (
	"fmt"
	"math/rand"

	"argus/internal/nn"
	"argus/internal/segment"
)

// Bundle pairs the generator bound to the original network with one generator
// per derived network, all sharing the same parameters.
type Bundle struct {
	Approach string
	Params   Params
	Original Generator
	Variants []Generator

	riseOriginal *RiseGenerator
	riseVariants []*RiseGenerator
}

// Dispatch builds generators for the original network and each derived
// network. RISE generators come back without masks; call PrepareSharedMasks
// before generating.
func Dispatch(approach string, params Params, original *nn.Network, variants []*nn.Network) (*Bundle, error) {
	b := &Bundle{Approach: approach, Params: params}
	build, err := builderFor(approach, params)
	if err != nil {
		return nil, err
	}
	b.Original = build(original)
	b.Variants = make([]Generator, len(variants))
	for i, network := range variants {
		b.Variants[i] = build(network)
	}
	if approach == ApproachRise {
		b.riseOriginal = b.Original.(*RiseGenerator)
		b.riseVariants = make([]*RiseGenerator, len(b.Variants))
		for i, g := range b.Variants {
			b.riseVariants[i] = g.(*RiseGenerator)
		}
	}
	return b, nil
}

// PrepareSharedMasks draws the RISE mask set from the original generator and
// shares it with every derived generator, so all networks see identical
// occlusion patterns. No-op for the other approaches.
func (b *Bundle) PrepareSharedMasks(h, w int, rng *rand.Rand) {
	if b.riseOriginal == nil {
		return
	}
	masks := b.riseOriginal.EnsureMasks(h, w, rng)
	for _, g := range b.riseVariants {
		g.ShareMasks(masks)
	}
}

func builderFor(approach string, params Params) (func(*nn.Network) Generator, error) {
	switch approach {
	case ApproachNoise:
		return func(n *nn.Network) Generator {
			return NewNoiseGenerator(n, params.Radius, params.Blur, params.RawDiff)
		}, nil
	case ApproachOcclusion:
		return func(n *nn.Network) Generator {
			return NewOcclusionGenerator(n, params.PatchSize, params.Color, false)
		}, nil
	case ApproachRise:
		return func(n *nn.Network) Generator {
			return NewRiseGenerator(n, params.RiseProb, params.RiseMaskSize, params.RiseMasks, true)
		}, nil
	case ApproachSarfa:
		return func(n *nn.Network) Generator {
			return NewSarfaGenerator(n, params.Radius, params.Blur)
		}, nil
	case ApproachLime:
		fn, err := segmentationFor(params.Segmentation)
		if err != nil {
			return nil, err
		}
		return func(n *nn.Network) Generator {
			// Each generator owns its sampling stream; seeding happens per
			// run so repeated runs reproduce.
			return NewLimeGenerator(n, fn, params.NumSamples, params.PositiveOnly, rand.New(rand.NewSource(71)))
		}, nil
	default:
		return nil, fmt.Errorf("unknown saliency approach %q", approach)
	}
}

func segmentationFor(name string) (segment.Func, error) {
	switch name {
	case "slic":
		return segment.SLIC(80, 10, 1), nil
	case "quickshift":
		return segment.Quickshift(2, 10, 0.5), nil
	case "felzenszwalb":
		return segment.Felzenszwalb(21, 0.4, 8), nil
	default:
		return nil, fmt.Errorf("unknown segmentation %q", name)
	}
}
