package segment

import "sort"

// Felzenszwalb segments with the classic graph-merge criterion: edges sorted
// by intensity difference are merged while the edge weight stays below the
// smaller component's internal variation plus scale/|C|, then components
// under minSize are absorbed into their cheapest neighbor.
func Felzenszwalb(scale, sigma float64, minSize int) Func {
	return func(plane []float64, h, w int) Labels {
		smoothed := GaussianSmooth(plane, h, w, sigma)

		type edge struct {
			a, b   int
			weight float64
		}
		edges := make([]edge, 0, 4*h*w)
		addEdge := func(ay, ax, by, bx int) {
			a, b := ay*w+ax, by*w+bx
			d := smoothed[a] - smoothed[b]
			if d < 0 {
				d = -d
			}
			edges = append(edges, edge{a: a, b: b, weight: d})
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if x+1 < w {
					addEdge(y, x, y, x+1)
				}
				if y+1 < h {
					addEdge(y, x, y+1, x)
				}
				if x+1 < w && y+1 < h {
					addEdge(y, x, y+1, x+1)
				}
				if x > 0 && y+1 < h {
					addEdge(y, x, y+1, x-1)
				}
			}
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].weight < edges[j].weight })

		parent := make([]int, h*w)
		size := make([]int, h*w)
		threshold := make([]float64, h*w)
		for i := range parent {
			parent[i] = i
			size[i] = 1
			threshold[i] = scale
		}
		union := func(a, b int, weight float64) int {
			if size[a] < size[b] {
				a, b = b, a
			}
			parent[b] = a
			size[a] += size[b]
			threshold[a] = weight + scale/float64(size[a])
			return a
		}
		for _, e := range edges {
			a, b := findRoot(parent, e.a), findRoot(parent, e.b)
			if a == b {
				continue
			}
			if e.weight <= threshold[a] && e.weight <= threshold[b] {
				union(a, b, e.weight)
			}
		}
		// Small-component cleanup pass.
		for _, e := range edges {
			a, b := findRoot(parent, e.a), findRoot(parent, e.b)
			if a == b {
				continue
			}
			if size[a] < minSize || size[b] < minSize {
				union(a, b, e.weight)
			}
		}

		ids := make([]int, h*w)
		for i := range ids {
			ids[i] = findRoot(parent, i)
		}
		return relabel(ids, h, w)
	}
}
