package atari

import (
	"errors"

	"argus/internal/nn"
)

// FrameSkip is the number of raw emulator frames advanced per wrapper step.
const FrameSkip = 4

// FireAction is the conventional action index that starts a serve in games
// that wait for it.
const FireAction = 1

// Wrapper turns a raw environment into the deterministic stacked-frame
// interface the agent networks expect: frameskip with flicker max-pooling,
// grayscale 84x84 downsampling and a four-frame observation stack.
type Wrapper struct {
	// FireReset presses FIRE once after every reset. Needed by games that
	// wait for a serve before anything moves.
	FireReset bool

	env   Env
	stack [][]float64 // oldest first, each 84*84
}

func NewWrapper(env Env) *Wrapper {
	return &Wrapper{env: env}
}

func (w *Wrapper) Env() Env { return w.env }

// Reset restarts the episode and advances a fixed number of no-op steps. The
// observation stack is filled with the resulting frame.
func (w *Wrapper) Reset(noops int) error {
	frame, err := w.env.Reset()
	if err != nil {
		return err
	}
	w.fillStack(frame)
	for i := 0; i < noops; i++ {
		if _, _, _, _, err := w.Step(0); err != nil {
			return err
		}
	}
	return w.fireIfConfigured()
}

// FixedReset restarts the episode and advances a game-specific warm-up count
// of raw frames with a fixed action before play begins.
func (w *Wrapper) FixedReset(warmup, action int) error {
	frame, err := w.env.Reset()
	if err != nil {
		return err
	}
	for i := 0; i < warmup; i++ {
		next, _, _, err := w.env.Step(action)
		if err != nil {
			return err
		}
		frame = next
	}
	w.fillStack(frame)
	return w.fireIfConfigured()
}

func (w *Wrapper) fireIfConfigured() error {
	if !w.FireReset {
		return nil
	}
	_, _, _, _, err := w.Step(FireAction)
	return err
}

// Step advances FrameSkip raw frames with the given action. The observation
// pushed onto the stack is the max-pooled pair of the last two raw frames.
func (w *Wrapper) Step(action int) (nn.State, Frame, float64, bool, error) {
	if len(w.stack) == 0 {
		return nn.State{}, Frame{}, 0, false, errors.New("wrapper not reset")
	}
	var prev, last Frame
	reward := 0.0
	done := false
	for i := 0; i < FrameSkip; i++ {
		frame, r, d, err := w.env.Step(action)
		if err != nil {
			return nn.State{}, Frame{}, 0, false, err
		}
		reward += r
		prev, last = last, frame
		if d {
			done = true
			break
		}
	}
	pooled := last
	if prev.Pixels != nil {
		var err error
		pooled, err = maxFrame(prev, last)
		if err != nil {
			return nn.State{}, Frame{}, 0, false, err
		}
	}
	w.push(preprocess(pooled))
	return w.State(), last, reward, done, nil
}

// State returns a copy of the current stacked observation, so every model
// variant sees byte-identical input no matter what happens afterwards.
func (w *Wrapper) State() nn.State {
	state := nn.NewInputState()
	for c, plane := range w.stack {
		for i, v := range plane {
			y := i / nn.InputWidth
			x := i % nn.InputWidth
			state.Set(y, x, c, v)
		}
	}
	return state
}

func (w *Wrapper) fillStack(frame Frame) {
	plane := preprocess(frame)
	w.stack = make([][]float64, nn.InputDepth)
	for i := range w.stack {
		w.stack[i] = append([]float64(nil), plane...)
	}
}

func (w *Wrapper) push(plane []float64) {
	w.stack = append(w.stack[1:], plane)
}

func preprocess(frame Frame) []float64 {
	gray := grayscale(frame)
	return areaResize(gray, frame.H, frame.W, nn.InputHeight, nn.InputWidth)
}
