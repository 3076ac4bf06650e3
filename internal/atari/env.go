// Package atari provides the game-environment surface of the sanity-check
// harness: a raw-frame environment interface with a registry keyed by game
// name, and the deterministic preprocessing wrapper that turns raw episodes
// into stacked-frame agent observations.
package atari

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Raw frame geometry emitted by the emulator side.
const (
	FrameHeight = 210
	FrameWidth  = 160
)

// Frame is one raw RGB frame. Pixels holds H*W*3 bytes in row-major order.
type Frame struct {
	H, W   int
	Pixels []uint8
}

// NewFrame allocates a black frame with the standard geometry.
func NewFrame() Frame {
	return Frame{H: FrameHeight, W: FrameWidth, Pixels: make([]uint8, FrameHeight*FrameWidth*3)}
}

// Env is a deterministic game environment. Identical seeds and identical
// action sequences must produce identical frame streams.
type Env interface {
	Name() string
	ActionCount() int
	Reset() (Frame, error)
	Step(action int) (Frame, float64, bool, error)
}

var ErrUnknownGame = errors.New("unknown game")

type envFactory func(seed int64) (Env, error)

var envRegistry = struct {
	mu sync.RWMutex
	m  map[string]envFactory
}{
	m: make(map[string]envFactory),
}

// Register adds an environment factory for a game name.
func Register(game string, factory envFactory) error {
	envRegistry.mu.Lock()
	defer envRegistry.mu.Unlock()

	if game == "" {
		return errors.New("game name is required")
	}
	if factory == nil {
		return errors.New("factory is required")
	}
	if _, exists := envRegistry.m[game]; exists {
		return fmt.Errorf("game already registered: %s", game)
	}
	envRegistry.m[game] = factory
	return nil
}

func mustRegister(game string, factory envFactory) {
	if err := Register(game, factory); err != nil {
		panic(err)
	}
}

// NewEnv resolves a game name through the registry.
func NewEnv(game string, seed int64) (Env, error) {
	envRegistry.mu.RLock()
	factory, ok := envRegistry.m[game]
	envRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}
	return factory(seed)
}

// Games lists the registered game names.
func Games() []string {
	envRegistry.mu.RLock()
	defer envRegistry.mu.RUnlock()

	names := make([]string, 0, len(envRegistry.m))
	for name := range envRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
