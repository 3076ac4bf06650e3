package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Shape describes the spatial geometry flowing between layers.
type Shape struct {
	H, W, C int
}

func (s Shape) Size() int {
	return s.H * s.W * s.C
}

// Layer is one stage of the fixed feedforward topology.
type Layer interface {
	Name() string
	OutShape(in Shape) Shape
	Forward(in []float64, shape Shape) ([]float64, error)
	Clone() Layer
}

// ParamLayer is a layer carrying trainable parameters. Init re-draws the
// parameters from the training-time initializer (Glorot uniform), which is
// what cascade randomization uses instead of raw noise injection.
type ParamLayer interface {
	Layer
	Weights() []float64
	Biases() []float64
	Init(rng *rand.Rand)
}

// glorotUniform draws from U(-limit, limit) with limit = sqrt(6/(fanIn+fanOut)).
func glorotUniform(rng *rand.Rand, fanIn, fanOut int) float64 {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return (rng.Float64()*2 - 1) * limit
}

// Conv2D is a valid-padding convolution over channel-last input. Kernel
// weights use the same HWIO ordering the training checkpoints carry:
// W[((ky*KW+kx)*In+ic)*Out+oc].
type Conv2D struct {
	LayerName  string
	In, Out    int
	KH, KW     int
	Stride     int
	Activation string
	W          []float64
	B          []float64
}

func NewConv2D(name string, in, out, kh, kw, stride int, activation string) *Conv2D {
	return &Conv2D{
		LayerName:  name,
		In:         in,
		Out:        out,
		KH:         kh,
		KW:         kw,
		Stride:     stride,
		Activation: activation,
		W:          make([]float64, kh*kw*in*out),
		B:          make([]float64, out),
	}
}

func (c *Conv2D) Name() string { return c.LayerName }

func (c *Conv2D) OutShape(in Shape) Shape {
	return Shape{
		H: (in.H-c.KH)/c.Stride + 1,
		W: (in.W-c.KW)/c.Stride + 1,
		C: c.Out,
	}
}

func (c *Conv2D) Forward(in []float64, shape Shape) ([]float64, error) {
	out := c.OutShape(shape)
	result := make([]float64, out.Size())
	for oy := 0; oy < out.H; oy++ {
		for ox := 0; ox < out.W; ox++ {
			base := (oy*out.W + ox) * out.C
			for oc := 0; oc < c.Out; oc++ {
				sum := c.B[oc]
				for ky := 0; ky < c.KH; ky++ {
					iy := oy*c.Stride + ky
					for kx := 0; kx < c.KW; kx++ {
						ix := ox*c.Stride + kx
						inBase := (iy*shape.W + ix) * shape.C
						wBase := ((ky*c.KW+kx)*c.In)*c.Out + oc
						for ic := 0; ic < c.In; ic++ {
							sum += in[inBase+ic] * c.W[wBase+ic*c.Out]
						}
					}
				}
				result[base+oc] = sum
			}
		}
	}
	if err := applyActivation(c.Activation, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Conv2D) Weights() []float64 { return c.W }
func (c *Conv2D) Biases() []float64  { return c.B }

func (c *Conv2D) Init(rng *rand.Rand) {
	fanIn := c.In * c.KH * c.KW
	fanOut := c.Out * c.KH * c.KW
	for i := range c.W {
		c.W[i] = glorotUniform(rng, fanIn, fanOut)
	}
	for i := range c.B {
		c.B[i] = 0
	}
}

func (c *Conv2D) Clone() Layer {
	out := *c
	out.W = append([]float64(nil), c.W...)
	out.B = append([]float64(nil), c.B...)
	return &out
}

// Flatten collapses the spatial geometry; it carries no parameters and is the
// skip layer of the randomization cascade.
type Flatten struct {
	LayerName string
}

func (f *Flatten) Name() string { return f.LayerName }

func (f *Flatten) OutShape(in Shape) Shape {
	return Shape{H: 1, W: 1, C: in.Size()}
}

func (f *Flatten) Forward(in []float64, _ Shape) ([]float64, error) {
	return in, nil
}

func (f *Flatten) Clone() Layer {
	out := *f
	return &out
}

// Dense is a fully connected layer backed by a gonum matrix.
type Dense struct {
	LayerName  string
	In, Out    int
	Activation string
	W          *mat.Dense // In x Out
	B          []float64
}

func NewDense(name string, in, out int, activation string) *Dense {
	return &Dense{
		LayerName:  name,
		In:         in,
		Out:        out,
		Activation: activation,
		W:          mat.NewDense(in, out, nil),
		B:          make([]float64, out),
	}
}

func (d *Dense) Name() string { return d.LayerName }

func (d *Dense) OutShape(Shape) Shape {
	return Shape{H: 1, W: 1, C: d.Out}
}

func (d *Dense) Forward(in []float64, _ Shape) ([]float64, error) {
	x := mat.NewVecDense(d.In, in)
	y := mat.NewVecDense(d.Out, nil)
	y.MulVec(d.W.T(), x)
	result := make([]float64, d.Out)
	for i := range result {
		result[i] = y.AtVec(i) + d.B[i]
	}
	if err := applyActivation(d.Activation, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Dense) Weights() []float64 { return d.W.RawMatrix().Data }
func (d *Dense) Biases() []float64  { return d.B }

func (d *Dense) Init(rng *rand.Rand) {
	raw := d.W.RawMatrix().Data
	for i := range raw {
		raw[i] = glorotUniform(rng, d.In, d.Out)
	}
	for i := range d.B {
		d.B[i] = 0
	}
}

func (d *Dense) Clone() Layer {
	out := *d
	out.W = mat.DenseCopyOf(d.W)
	out.B = append([]float64(nil), d.B...)
	return &out
}
