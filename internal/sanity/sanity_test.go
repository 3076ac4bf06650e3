package sanity

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"argus/internal/atari"
	"argus/internal/nn"
	"argus/internal/results"
)

func writeCheckpoint(t *testing.T, modelsDir, game string) {
	t.Helper()
	env, err := atari.NewEnv(game, 1)
	if err != nil {
		t.Fatalf("new env: %v", err)
	}
	network := nn.NewDQN(game, env.ActionCount())
	network.InitAll(rand.New(rand.NewSource(7)))
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := nn.SaveCheckpoint(CheckpointPath(modelsDir, game), network); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}
}

func TestRunShortEpisode(t *testing.T) {
	if testing.Short() {
		t.Skip("explanation generation is slow")
	}
	base := t.TempDir()
	modelsDir := filepath.Join(base, "models")
	writeCheckpoint(t, modelsDir, "breakout")

	store := results.NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}

	summary, err := Run(context.Background(), Request{
		Game:       "breakout",
		Approach:   "occl",
		Variant:    "default",
		Steps:      WarmupSteps + 1,
		ModelsDir:  modelsDir,
		ResultsDir: filepath.Join(base, "results"),
		Store:      store,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Records != ComparatorsPerStep {
		t.Fatalf("records = %d, want %d", summary.Records, ComparatorsPerStep)
	}
	if summary.Seed != DefaultSeed {
		t.Fatalf("seed = %d, want %d", summary.Seed, DefaultSeed)
	}

	records, err := results.ReadCSV(summary.ResultsFile)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != ComparatorsPerStep {
		t.Fatalf("csv records = %d, want %d", len(records), ComparatorsPerStep)
	}
	action := records[0].Action
	for i, r := range records {
		if r.RandLayer != i+1 {
			t.Fatalf("record %d rand_layer = %d, want %d", i, r.RandLayer, i+1)
		}
		if r.Action != action {
			t.Fatalf("record %d action = %d, want %d", i, r.Action, action)
		}
	}

	stored, ok, err := store.GetRecords(context.Background(), summary.ID)
	if err != nil || !ok {
		t.Fatalf("stored records: ok=%t err=%v", ok, err)
	}
	if len(stored) != ComparatorsPerStep {
		t.Fatalf("stored records = %d, want %d", len(stored), ComparatorsPerStep)
	}
}

func TestRunRejectsUnknownGame(t *testing.T) {
	base := t.TempDir()
	modelsDir := filepath.Join(base, "models")
	writeCheckpoint(t, modelsDir, "breakout")

	_, err := Run(context.Background(), Request{
		Game:       "pong",
		Approach:   "occl",
		Variant:    "default",
		Steps:      WarmupSteps + 1,
		ModelsDir:  modelsDir,
		ResultsDir: filepath.Join(base, "results"),
	})
	if err == nil {
		t.Fatal("expected unknown game error")
	}
}

func TestRunRejectsUnknownVariant(t *testing.T) {
	_, err := Run(context.Background(), Request{
		Game:     "breakout",
		Approach: "noise",
		Variant:  "nope",
	})
	if err == nil {
		t.Fatal("expected unknown variant error")
	}
}

func TestBuildGrid(t *testing.T) {
	combos, err := BuildGrid()
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	if len(combos) != 36 {
		t.Fatalf("combo count = %d, want 36", len(combos))
	}
	first := combos[0]
	if first.Game != "pacman" || first.Approach != "noise" || first.Variant != "blur_false_raw_false" {
		t.Fatalf("first combo = %+v", first)
	}
	// Approach-major ordering: all noise combos precede the first occl combo.
	seenOccl := false
	for _, c := range combos {
		if c.Approach == "occl" {
			seenOccl = true
		}
		if seenOccl && c.Approach == "noise" {
			t.Fatalf("noise combo after occl: %+v", c)
		}
	}
	perGame := make(map[string]int)
	for _, c := range combos {
		perGame[c.Game]++
	}
	for _, game := range SweepGames {
		if perGame[game] != 9 {
			t.Fatalf("game %s combos = %d, want 9", game, perGame[game])
		}
	}
}

func TestCSVPath(t *testing.T) {
	got := CSVPath("results", "pacman", "noise", "blur_true_raw_false")
	want := filepath.Join("results", "pacman", "noise_blur_true_raw_false.csv")
	if got != want {
		t.Fatalf("csv path = %s, want %s", got, want)
	}
}
