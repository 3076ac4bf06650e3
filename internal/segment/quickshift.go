package segment

import "math"

// Quickshift segments by mode seeking: each pixel links to its nearest
// neighbor of higher kernel density within maxDist, and the resulting forest
// roots become segments. ratio balances intensity against spatial distance.
func Quickshift(kernelSize, maxDist, ratio float64) Func {
	return func(plane []float64, h, w int) Labels {
		if kernelSize <= 0 {
			kernelSize = 1
		}
		values := make([]float64, len(plane))
		for i, v := range plane {
			values[i] = v * ratio
		}

		window := int(math.Ceil(3 * kernelSize))
		density := make([]float64, h*w)
		inv := 1 / (2 * kernelSize * kernelSize)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				acc := 0.0
				for ny := clampInt(y-window, 0, h-1); ny <= clampInt(y+window, 0, h-1); ny++ {
					for nx := clampInt(x-window, 0, w-1); nx <= clampInt(x+window, 0, w-1); nx++ {
						d := featureDist(values, y, x, ny, nx, w)
						acc += math.Exp(-d * inv)
					}
				}
				density[y*w+x] = acc
			}
		}

		searchRadius := int(math.Ceil(maxDist))
		parent := make([]int, h*w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				parent[i] = i
				best := math.Inf(1)
				for ny := clampInt(y-searchRadius, 0, h-1); ny <= clampInt(y+searchRadius, 0, h-1); ny++ {
					for nx := clampInt(x-searchRadius, 0, w-1); nx <= clampInt(x+searchRadius, 0, w-1); nx++ {
						j := ny*w + nx
						if density[j] <= density[i] {
							continue
						}
						d := featureDist(values, y, x, ny, nx, w)
						if d > maxDist*maxDist || d >= best {
							continue
						}
						best = d
						parent[i] = j
					}
				}
			}
		}

		ids := make([]int, h*w)
		for i := range ids {
			ids[i] = findRoot(parent, i)
		}
		return relabel(ids, h, w)
	}
}

func featureDist(values []float64, y, x, ny, nx, w int) float64 {
	dv := values[y*w+x] - values[ny*w+nx]
	dy := float64(y - ny)
	dx := float64(x - nx)
	return dv*dv + dy*dy + dx*dx
}

func findRoot(parent []int, i int) int {
	for parent[i] != i {
		parent[i] = parent[parent[i]]
		i = parent[i]
	}
	return i
}
