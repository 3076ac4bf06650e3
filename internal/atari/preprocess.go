package atari

import "fmt"

// grayscale converts an RGB frame to luminance values in [0, 1].
func grayscale(f Frame) []float64 {
	out := make([]float64, f.H*f.W)
	for i := 0; i < len(out); i++ {
		r := float64(f.Pixels[i*3])
		g := float64(f.Pixels[i*3+1])
		b := float64(f.Pixels[i*3+2])
		out[i] = (0.299*r + 0.587*g + 0.114*b) / 255.0
	}
	return out
}

// maxFrame takes the pixel-wise maximum of two frames, which removes the
// sprite flicker some games render on alternating frames.
func maxFrame(a, b Frame) (Frame, error) {
	if a.H != b.H || a.W != b.W {
		return Frame{}, fmt.Errorf("frame geometry mismatch: %dx%d vs %dx%d", a.H, a.W, b.H, b.W)
	}
	out := Frame{H: a.H, W: a.W, Pixels: make([]uint8, len(a.Pixels))}
	for i := range a.Pixels {
		if a.Pixels[i] >= b.Pixels[i] {
			out.Pixels[i] = a.Pixels[i]
		} else {
			out.Pixels[i] = b.Pixels[i]
		}
	}
	return out, nil
}

// areaResize downsamples a grayscale plane by averaging over the source box
// that maps onto each destination pixel.
func areaResize(src []float64, srcH, srcW, dstH, dstW int) []float64 {
	out := make([]float64, dstH*dstW)
	scaleY := float64(srcH) / float64(dstH)
	scaleX := float64(srcW) / float64(dstW)
	for dy := 0; dy < dstH; dy++ {
		y0 := int(float64(dy) * scaleY)
		y1 := int(float64(dy+1) * scaleY)
		if y1 <= y0 {
			y1 = y0 + 1
		}
		if y1 > srcH {
			y1 = srcH
		}
		for dx := 0; dx < dstW; dx++ {
			x0 := int(float64(dx) * scaleX)
			x1 := int(float64(dx+1) * scaleX)
			if x1 <= x0 {
				x1 = x0 + 1
			}
			if x1 > srcW {
				x1 = srcW
			}
			sum := 0.0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += src[y*srcW+x]
				}
			}
			out[dy*dstW+dx] = sum / float64((y1-y0)*(x1-x0))
		}
	}
	return out
}
