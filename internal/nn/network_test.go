package nn

import (
	"math"
	"math/rand"
	"testing"
)

func TestConv2DForward(t *testing.T) {
	conv := NewConv2D("c", 1, 1, 2, 2, 1, "linear")
	copy(conv.W, []float64{1, 2, 3, 4})
	conv.B[0] = 0.5

	out, err := conv.Forward([]float64{1, 2, 3, 4}, Shape{H: 2, W: 2, C: 1})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("unexpected output size: got=%d want=1", len(out))
	}
	want := 1*1 + 2*2 + 3*3 + 4*4 + 0.5
	if math.Abs(out[0]-want) > 1e-9 {
		t.Fatalf("unexpected value: got=%f want=%f", out[0], want)
	}
}

func TestConv2DForwardRelu(t *testing.T) {
	conv := NewConv2D("c", 1, 1, 1, 1, 1, "relu")
	conv.W[0] = -1

	out, err := conv.Forward([]float64{3}, Shape{H: 1, W: 1, C: 1})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if out[0] != 0 {
		t.Fatalf("relu should clamp negatives: got=%f", out[0])
	}
}

func TestConv2DStrideShape(t *testing.T) {
	tests := []struct {
		name         string
		in           Shape
		kh, kw, s    int
		wantH, wantW int
	}{
		{name: "conv1", in: Shape{84, 84, 4}, kh: 8, kw: 8, s: 4, wantH: 20, wantW: 20},
		{name: "conv2", in: Shape{20, 20, 32}, kh: 4, kw: 4, s: 2, wantH: 9, wantW: 9},
		{name: "conv3", in: Shape{9, 9, 64}, kh: 3, kw: 3, s: 1, wantH: 7, wantW: 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conv := NewConv2D(tc.name, tc.in.C, 8, tc.kh, tc.kw, tc.s, "relu")
			got := conv.OutShape(tc.in)
			if got.H != tc.wantH || got.W != tc.wantW {
				t.Fatalf("unexpected shape: got=%dx%d want=%dx%d", got.H, got.W, tc.wantH, tc.wantW)
			}
		})
	}
}

func TestDenseForward(t *testing.T) {
	dense := NewDense("d", 2, 2, "linear")
	dense.W.Set(0, 0, 1)
	dense.W.Set(0, 1, 2)
	dense.W.Set(1, 0, 3)
	dense.W.Set(1, 1, 4)
	dense.B[0] = 0.5
	dense.B[1] = -0.5

	out, err := dense.Forward([]float64{1, 2}, Shape{})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if math.Abs(out[0]-7.5) > 1e-9 || math.Abs(out[1]-9.5) > 1e-9 {
		t.Fatalf("unexpected output: got=%v want=[7.5 9.5]", out)
	}
}

func TestNetworkForwardTopology(t *testing.T) {
	network := NewDQN("breakout", 4)
	network.InitAll(rand.New(rand.NewSource(1)))

	values, err := network.Forward(NewInputState())
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(values) != 4 {
		t.Fatalf("unexpected action values: got=%d want=4", len(values))
	}
}

func TestNetworkCloneIsIndependent(t *testing.T) {
	network := NewDQN("pacman", 9)
	network.InitAll(rand.New(rand.NewSource(7)))

	clone := network.Clone()
	layer, ok := clone.ParamLayer(QValuesLayer)
	if !ok {
		t.Fatal("missing qvalues layer")
	}
	before, ok := network.ParamLayer(QValuesLayer)
	if !ok {
		t.Fatal("missing original qvalues layer")
	}
	orig := append([]float64(nil), before.Weights()...)

	layer.Init(rand.New(rand.NewSource(8)))

	after := before.Weights()
	for i := range orig {
		if after[i] != orig[i] {
			t.Fatalf("clone mutation leaked into original at weight %d", i)
		}
	}
}

func TestGlorotInitBounds(t *testing.T) {
	conv := NewConv2D("c", 4, 32, 8, 8, 4, "relu")
	conv.Init(rand.New(rand.NewSource(3)))

	limit := math.Sqrt(6.0 / float64(4*8*8+32*8*8))
	for i, w := range conv.W {
		if math.Abs(w) > limit {
			t.Fatalf("weight %d outside Glorot bounds: %f > %f", i, w, limit)
		}
	}
	for i, b := range conv.B {
		if b != 0 {
			t.Fatalf("bias %d should be zero after init: %f", i, b)
		}
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{name: "last", values: []float64{0, 1, 2}, want: 2},
		{name: "first-on-tie", values: []float64{2, 2, 1}, want: 0},
		{name: "negative", values: []float64{-3, -1, -2}, want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Argmax(tc.values); got != tc.want {
				t.Fatalf("unexpected argmax: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestSoftmax(t *testing.T) {
	probs := Softmax([]float64{1, 2, 3})
	sum := 0.0
	for _, p := range probs {
		if p <= 0 || p >= 1 {
			t.Fatalf("probability out of range: %v", probs)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities should sum to 1: got=%f", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Fatalf("softmax should preserve order: %v", probs)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	network := &Network{
		Game:    "breakout",
		Actions: 2,
		Layers: []Layer{
			NewConv2D(Conv1Layer, 1, 2, 2, 2, 1, "relu"),
			&Flatten{LayerName: FlattenLayer},
			NewDense(QValuesLayer, 8, 2, "linear"),
		},
	}
	network.InitAll(rand.New(rand.NewSource(11)))

	path := t.TempDir() + "/breakout.ckpt.gz"
	if err := SaveCheckpoint(path, network); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Game != network.Game || loaded.Actions != network.Actions {
		t.Fatalf("unexpected header: got=%s/%d want=%s/%d", loaded.Game, loaded.Actions, network.Game, network.Actions)
	}
	if len(loaded.Layers) != len(network.Layers) {
		t.Fatalf("unexpected layer count: got=%d want=%d", len(loaded.Layers), len(network.Layers))
	}
	for _, name := range []string{Conv1Layer, QValuesLayer} {
		want, _ := network.ParamLayer(name)
		got, ok := loaded.ParamLayer(name)
		if !ok {
			t.Fatalf("missing layer %s", name)
		}
		wantW, gotW := want.Weights(), got.Weights()
		for i := range wantW {
			if wantW[i] != gotW[i] {
				t.Fatalf("layer %s weight %d mismatch: got=%f want=%f", name, i, gotW[i], wantW[i])
			}
		}
	}

	in := NewState(3, 3, 1)
	for i := range in.Data {
		in.Data[i] = float64(i) / 10
	}
	wantOut, err := network.Forward(in)
	if err != nil {
		t.Fatalf("forward original: %v", err)
	}
	gotOut, err := loaded.Forward(in)
	if err != nil {
		t.Fatalf("forward loaded: %v", err)
	}
	for i := range wantOut {
		if math.Abs(wantOut[i]-gotOut[i]) > 1e-12 {
			t.Fatalf("forward mismatch at %d: got=%f want=%f", i, gotOut[i], wantOut[i])
		}
	}
}
