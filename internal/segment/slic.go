package segment

import "math"

// SLIC builds a k-means superpixel segmentation: cluster centers start on a
// regular grid and iterate over (intensity, x, y) features, with compactness
// weighting the spatial term.
func SLIC(nSegments int, compactness, sigma float64) Func {
	return func(plane []float64, h, w int) Labels {
		smoothed := GaussianSmooth(plane, h, w, sigma)
		if nSegments < 1 {
			nSegments = 1
		}
		step := int(math.Sqrt(float64(h*w) / float64(nSegments)))
		if step < 1 {
			step = 1
		}

		type center struct {
			y, x, v float64
			count   float64
		}
		var centers []center
		for cy := step / 2; cy < h; cy += step {
			for cx := step / 2; cx < w; cx += step {
				centers = append(centers, center{
					y: float64(cy),
					x: float64(cx),
					v: smoothed[cy*w+cx],
				})
			}
		}
		if len(centers) == 0 {
			centers = append(centers, center{v: smoothed[0]})
		}

		ids := make([]int, h*w)
		dist := make([]float64, h*w)
		spatialScale := compactness / float64(step)
		for iter := 0; iter < 10; iter++ {
			for i := range dist {
				dist[i] = math.Inf(1)
			}
			for ci, c := range centers {
				y0 := clampInt(int(c.y)-2*step, 0, h-1)
				y1 := clampInt(int(c.y)+2*step, 0, h-1)
				x0 := clampInt(int(c.x)-2*step, 0, w-1)
				x1 := clampInt(int(c.x)+2*step, 0, w-1)
				for y := y0; y <= y1; y++ {
					for x := x0; x <= x1; x++ {
						dv := smoothed[y*w+x] - c.v
						dy := (float64(y) - c.y) * spatialScale
						dx := (float64(x) - c.x) * spatialScale
						d := dv*dv + dy*dy + dx*dx
						if d < dist[y*w+x] {
							dist[y*w+x] = d
							ids[y*w+x] = ci
						}
					}
				}
			}
			for i := range centers {
				centers[i] = center{}
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					c := &centers[ids[y*w+x]]
					c.y += float64(y)
					c.x += float64(x)
					c.v += smoothed[y*w+x]
					c.count++
				}
			}
			for i := range centers {
				if centers[i].count == 0 {
					continue
				}
				centers[i].y /= centers[i].count
				centers[i].x /= centers[i].count
				centers[i].v /= centers[i].count
			}
		}
		return relabel(ids, h, w)
	}
}
