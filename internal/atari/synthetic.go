package atari

import (
	"hash/fnv"
	"math/rand"
)

// Games and their action-set sizes. These mirror the emulator action spaces
// the pretrained agents were trained against.
var syntheticGames = map[string]int{
	"pacman":        9,
	"breakout":      4,
	"spaceInvaders": 6,
	"frostbite":     18,
}

// Games that wait for a FIRE press before play starts.
var fireStartGames = map[string]bool{
	"breakout":      true,
	"spaceInvaders": true,
}

// FireStart reports whether a game waits for a FIRE press before play starts.
func FireStart(game string) bool { return fireStartGames[game] }

func init() {
	for game, actions := range syntheticGames {
		game, actions := game, actions
		mustRegister(game, func(seed int64) (Env, error) {
			return newSyntheticEnv(game, actions, seed), nil
		})
	}
}

type sprite struct {
	x, y   float64
	vx, vy float64
	shade  uint8
}

// SyntheticEnv is a deterministic stand-in emulator: a seeded procedural
// scene that reacts to the action stream. It exists so the harness runs
// hermetically; a real emulator binding registers its own factories.
type SyntheticEnv struct {
	name      string
	actions   int
	seed      int64
	rng       *rand.Rand
	step      int
	playerX   float64
	sprites   []sprite
	started   bool
	needsFire bool
	baseShade uint8
}

func newSyntheticEnv(name string, actions int, seed int64) *SyntheticEnv {
	h := fnv.New32a()
	h.Write([]byte(name))
	return &SyntheticEnv{
		name:      name,
		actions:   actions,
		seed:      seed,
		needsFire: fireStartGames[name],
		baseShade: uint8(40 + h.Sum32()%60),
	}
}

func (e *SyntheticEnv) Name() string     { return e.name }
func (e *SyntheticEnv) ActionCount() int { return e.actions }

func (e *SyntheticEnv) Reset() (Frame, error) {
	e.rng = rand.New(rand.NewSource(e.seed))
	e.step = 0
	e.playerX = FrameWidth / 2
	e.started = !e.needsFire
	e.sprites = make([]sprite, 6)
	for i := range e.sprites {
		e.sprites[i] = sprite{
			x:     float64(e.rng.Intn(FrameWidth - 8)),
			y:     float64(20 + e.rng.Intn(FrameHeight/2)),
			vx:    e.rng.Float64()*2 - 1,
			vy:    0.5 + e.rng.Float64(),
			shade: uint8(120 + e.rng.Intn(120)),
		}
	}
	return e.render(), nil
}

func (e *SyntheticEnv) Step(action int) (Frame, float64, bool, error) {
	e.step++
	if action == FireAction {
		e.started = true
	}
	switch action % 3 {
	case 1:
		e.playerX -= 2
	case 2:
		e.playerX += 2
	}
	if e.playerX < 8 {
		e.playerX = 8
	}
	if e.playerX > FrameWidth-8 {
		e.playerX = FrameWidth - 8
	}

	reward := 0.0
	for i := range e.sprites {
		s := &e.sprites[i]
		// Same number of rng draws every step keeps the stream
		// deterministic for identical action sequences.
		jx := e.rng.Float64()*0.4 - 0.2
		jy := e.rng.Float64() * 0.2
		if !e.started {
			continue
		}
		s.x += s.vx + jx
		s.y += s.vy + jy
		if s.x < 0 || s.x > FrameWidth-8 {
			s.vx = -s.vx
		}
		if s.y > FrameHeight-20 {
			if absFloat(s.x-e.playerX) < 12 {
				reward++
			}
			s.y = 20
			s.x = float64(e.rng.Intn(FrameWidth - 8))
		}
	}
	return e.render(), reward, false, nil
}

func (e *SyntheticEnv) render() Frame {
	frame := NewFrame()
	for y := 0; y < frame.H; y++ {
		band := e.baseShade + uint8((y/30)%2)*12
		for x := 0; x < frame.W; x++ {
			setPixel(frame, y, x, band/2, band, band/3)
		}
	}
	// Score strip flickers on alternating frames so the wrapper's
	// max-pooling has something to smooth out.
	if e.step%2 == 0 {
		for y := 2; y < 10; y++ {
			for x := 10; x < 60; x++ {
				setPixel(frame, y, x, 220, 220, 220)
			}
		}
	}
	for _, s := range e.sprites {
		drawBox(frame, int(s.y), int(s.x), 8, 8, s.shade, s.shade/2, 30)
	}
	drawBox(frame, FrameHeight-16, int(e.playerX)-8, 6, 16, 200, 60, 60)
	return frame
}

func setPixel(f Frame, y, x int, r, g, b uint8) {
	if y < 0 || y >= f.H || x < 0 || x >= f.W {
		return
	}
	i := (y*f.W + x) * 3
	f.Pixels[i] = r
	f.Pixels[i+1] = g
	f.Pixels[i+2] = b
}

func drawBox(f Frame, top, left, h, w int, r, g, b uint8) {
	for y := top; y < top+h; y++ {
		for x := left; x < left+w; x++ {
			setPixel(f, y, x, r, g, b)
		}
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
