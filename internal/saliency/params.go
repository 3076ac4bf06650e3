package saliency

import "fmt"

// Approach identifiers accepted by Dispatch and the CLI.
const (
	ApproachNoise     = "noise"
	ApproachOcclusion = "occl"
	ApproachRise      = "rise"
	ApproachSarfa     = "sarfa"
	ApproachLime      = "lime"
)

// Params holds every tunable the generators take. Variants fill in the
// approach-specific fields; the rest keep their defaults.
type Params struct {
	Variant string

	// noise / sarfa
	Radius  int
	Blur    bool
	RawDiff bool

	// occlusion
	PatchSize int
	Color     float64

	// rise
	RiseProb     float64
	RiseMaskSize int
	RiseMasks    int

	// lime
	Segmentation string
	NumSamples   int
	PositiveOnly bool
}

func defaultParams() Params {
	return Params{
		Radius:       4,
		PatchSize:    5,
		Color:        0,
		RiseProb:     0.5,
		RiseMaskSize: 18,
		RiseMasks:    1000,
		NumSamples:   1000,
		PositiveOnly: true,
	}
}

// Approaches lists every approach identifier in evaluation order.
func Approaches() []string {
	return []string{ApproachNoise, ApproachOcclusion, ApproachRise, ApproachSarfa, ApproachLime}
}

// Variants returns the parameter variants evaluated for an approach.
func Variants(approach string) ([]Params, error) {
	base := defaultParams()
	switch approach {
	case ApproachNoise:
		a, b, c := base, base, base
		a.Variant = "blur_false_raw_false"
		b.Variant = "blur_true_raw_true"
		b.Blur = true
		b.RawDiff = true
		c.Variant = "blur_true_raw_false"
		c.Blur = true
		return []Params{a, b, c}, nil
	case ApproachOcclusion, ApproachRise, ApproachSarfa:
		base.Variant = "default"
		base.Blur = approach == ApproachSarfa
		return []Params{base}, nil
	case ApproachLime:
		a, b, c := base, base, base
		a.Variant = "slic"
		a.Segmentation = "slic"
		b.Variant = "quickshift"
		b.Segmentation = "quickshift"
		c.Variant = "felzenszwalb"
		c.Segmentation = "felzenszwalb"
		return []Params{a, b, c}, nil
	default:
		return nil, fmt.Errorf("unknown saliency approach %q", approach)
	}
}

// VariantParams resolves a single named variant of an approach.
func VariantParams(approach, variant string) (Params, error) {
	variants, err := Variants(approach)
	if err != nil {
		return Params{}, err
	}
	for _, p := range variants {
		if p.Variant == variant {
			return p, nil
		}
	}
	return Params{}, fmt.Errorf("approach %s has no variant %q", approach, variant)
}
