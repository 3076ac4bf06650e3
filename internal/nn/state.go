package nn

// InputHeight, InputWidth and InputDepth fix the observation geometry the
// agent networks were trained on: four stacked 84x84 preprocessed frames.
const (
	InputHeight = 84
	InputWidth  = 84
	InputDepth  = 4
)

// State is a stacked-frame observation in channel-last layout, values scaled
// to [0, 1]. Data[(y*W+x)*C+c] addresses row y, column x, frame c.
type State struct {
	H, W, C int
	Data    []float64
}

// NewState allocates a zeroed state with the given geometry.
func NewState(h, w, c int) State {
	return State{H: h, W: w, C: c, Data: make([]float64, h*w*c)}
}

// NewInputState allocates a zeroed state with the fixed agent input geometry.
func NewInputState() State {
	return NewState(InputHeight, InputWidth, InputDepth)
}

func (s State) At(y, x, c int) float64 {
	return s.Data[(y*s.W+x)*s.C+c]
}

func (s State) Set(y, x, c int, v float64) {
	s.Data[(y*s.W+x)*s.C+c] = v
}

// Clone returns a deep copy so perturbation-based explanation methods can
// mutate pixels without touching the driver's observation.
func (s State) Clone() State {
	out := s
	out.Data = append([]float64(nil), s.Data...)
	return out
}

// Shape returns the state geometry as a layer shape.
func (s State) Shape() Shape {
	return Shape{H: s.H, W: s.W, C: s.C}
}
