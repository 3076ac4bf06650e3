package segment

import (
	"math/rand"
	"testing"
)

// twoRegionPlane is a 32x32 plane split into a dark left half and a bright
// right half, easy fodder for all three algorithms.
func twoRegionPlane() ([]float64, int, int) {
	h, w := 32, 32
	plane := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/2 {
				plane[y*w+x] = 0.9
			} else {
				plane[y*w+x] = 0.1
			}
		}
	}
	return plane, h, w
}

func validateLabels(t *testing.T, labels Labels, h, w int) {
	t.Helper()
	if labels.H != h || labels.W != w {
		t.Fatalf("unexpected geometry: %dx%d", labels.H, labels.W)
	}
	if len(labels.IDs) != h*w {
		t.Fatalf("unexpected id count: %d", len(labels.IDs))
	}
	if labels.Count < 1 {
		t.Fatalf("segmentation produced no segments")
	}
	seen := make(map[int]bool)
	for i, id := range labels.IDs {
		if id < 0 || id >= labels.Count {
			t.Fatalf("id %d at pixel %d outside [0,%d)", id, i, labels.Count)
		}
		seen[id] = true
	}
	if len(seen) != labels.Count {
		t.Fatalf("label count mismatch: counted=%d reported=%d", len(seen), labels.Count)
	}
}

func TestSLICLabels(t *testing.T) {
	plane, h, w := twoRegionPlane()
	labels := SLIC(16, 10, 1)(plane, h, w)
	validateLabels(t, labels, h, w)
	if labels.Count < 2 {
		t.Fatalf("expected multiple superpixels, got %d", labels.Count)
	}
}

func TestSLICSeparatesRegions(t *testing.T) {
	plane, h, w := twoRegionPlane()
	labels := SLIC(4, 1, 0)(plane, h, w)
	// No segment may straddle the intensity boundary.
	left := labels.IDs[h/2*w+0]
	right := labels.IDs[h/2*w+w-1]
	if left == right {
		t.Fatal("left and right halves should not share a segment")
	}
}

func TestQuickshiftLabels(t *testing.T) {
	plane, h, w := twoRegionPlane()
	labels := Quickshift(2, 4, 1)(plane, h, w)
	validateLabels(t, labels, h, w)
}

func TestFelzenszwalbTwoRegions(t *testing.T) {
	plane, h, w := twoRegionPlane()
	labels := Felzenszwalb(0.5, 0, 4)(plane, h, w)
	validateLabels(t, labels, h, w)

	left := labels.IDs[h/2*w+2]
	right := labels.IDs[h/2*w+w-3]
	if left == right {
		t.Fatal("distinct regions merged into one segment")
	}
}

func TestSegmentationsAreDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	h, w := 24, 24
	plane := make([]float64, h*w)
	for i := range plane {
		plane[i] = rng.Float64()
	}

	fns := map[string]Func{
		"slic":         SLIC(12, 8, 0.5),
		"quickshift":   Quickshift(1.5, 3, 0.8),
		"felzenszwalb": Felzenszwalb(0.3, 0.5, 4),
	}
	for name, fn := range fns {
		first := fn(plane, h, w)
		second := fn(plane, h, w)
		for i := range first.IDs {
			if first.IDs[i] != second.IDs[i] {
				t.Fatalf("%s not deterministic at pixel %d", name, i)
			}
		}
	}
}
