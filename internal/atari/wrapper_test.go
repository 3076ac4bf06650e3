package atari

import (
	"errors"
	"testing"

	"argus/internal/nn"
)

func TestRegistryResolvesGames(t *testing.T) {
	for _, game := range []string{"pacman", "breakout", "spaceInvaders", "frostbite"} {
		env, err := NewEnv(game, 42)
		if err != nil {
			t.Fatalf("new env %s: %v", game, err)
		}
		if env.ActionCount() != syntheticGames[game] {
			t.Fatalf("unexpected action count for %s: got=%d want=%d", game, env.ActionCount(), syntheticGames[game])
		}
	}
}

func TestRegistryUnknownGame(t *testing.T) {
	_, err := NewEnv("pong", 42)
	if !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestSyntheticEnvDeterministic(t *testing.T) {
	actions := []int{0, 1, 2, 3, 0, 2, 1, 1}

	run := func() []Frame {
		env, err := NewEnv("breakout", 42)
		if err != nil {
			t.Fatalf("new env: %v", err)
		}
		frame, err := env.Reset()
		if err != nil {
			t.Fatalf("reset: %v", err)
		}
		frames := []Frame{frame}
		for _, a := range actions {
			next, _, _, err := env.Step(a)
			if err != nil {
				t.Fatalf("step: %v", err)
			}
			frames = append(frames, next)
		}
		return frames
	}

	first, second := run(), run()
	for i := range first {
		for j := range first[i].Pixels {
			if first[i].Pixels[j] != second[i].Pixels[j] {
				t.Fatalf("frame %d diverged at byte %d", i, j)
			}
		}
	}
}

func TestWrapperObservationGeometry(t *testing.T) {
	env, err := NewEnv("pacman", 42)
	if err != nil {
		t.Fatalf("new env: %v", err)
	}
	w := NewWrapper(env)
	if err := w.Reset(1); err != nil {
		t.Fatalf("reset: %v", err)
	}

	state, _, _, done, err := w.Step(0)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if done {
		t.Fatal("synthetic episode should not terminate")
	}
	if state.H != nn.InputHeight || state.W != nn.InputWidth || state.C != nn.InputDepth {
		t.Fatalf("unexpected state geometry: %dx%dx%d", state.H, state.W, state.C)
	}
	for i, v := range state.Data {
		if v < 0 || v > 1 {
			t.Fatalf("observation value %d outside [0,1]: %f", i, v)
		}
	}
}

func TestWrapperIdenticalReplays(t *testing.T) {
	actions := []int{0, 0, 1, 2, 3, 0, 2}

	run := func() []nn.State {
		env, err := NewEnv("spaceInvaders", 42)
		if err != nil {
			t.Fatalf("new env: %v", err)
		}
		w := NewWrapper(env)
		w.FireReset = true
		if err := w.FixedReset(1, 0); err != nil {
			t.Fatalf("fixed reset: %v", err)
		}
		states := make([]nn.State, 0, len(actions))
		for _, a := range actions {
			state, _, _, _, err := w.Step(a)
			if err != nil {
				t.Fatalf("step: %v", err)
			}
			states = append(states, state)
		}
		return states
	}

	first, second := run(), run()
	for i := range first {
		for j := range first[i].Data {
			if first[i].Data[j] != second[i].Data[j] {
				t.Fatalf("state %d diverged at index %d", i, j)
			}
		}
	}
}

func TestWrapperStateIsACopy(t *testing.T) {
	env, err := NewEnv("frostbite", 42)
	if err != nil {
		t.Fatalf("new env: %v", err)
	}
	w := NewWrapper(env)
	if err := w.Reset(0); err != nil {
		t.Fatalf("reset: %v", err)
	}

	before := w.State()
	before.Data[0] = 99
	after := w.State()
	if after.Data[0] == 99 {
		t.Fatal("State must return a private copy")
	}
}

func TestAreaResizeConstantPlane(t *testing.T) {
	src := make([]float64, FrameHeight*FrameWidth)
	for i := range src {
		src[i] = 0.25
	}
	dst := areaResize(src, FrameHeight, FrameWidth, nn.InputHeight, nn.InputWidth)
	if len(dst) != nn.InputHeight*nn.InputWidth {
		t.Fatalf("unexpected size: %d", len(dst))
	}
	for i, v := range dst {
		if v != 0.25 {
			t.Fatalf("constant plane should stay constant at %d: %f", i, v)
		}
	}
}

func TestMaxFrame(t *testing.T) {
	a := Frame{H: 1, W: 2, Pixels: []uint8{10, 0, 0, 0, 5, 0}}
	b := Frame{H: 1, W: 2, Pixels: []uint8{3, 4, 0, 0, 9, 0}}
	out, err := maxFrame(a, b)
	if err != nil {
		t.Fatalf("max frame: %v", err)
	}
	want := []uint8{10, 4, 0, 0, 9, 0}
	for i := range want {
		if out.Pixels[i] != want[i] {
			t.Fatalf("pixel %d: got=%d want=%d", i, out.Pixels[i], want[i])
		}
	}
}
