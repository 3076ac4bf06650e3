package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"argus/internal/model"
	"argus/internal/nn"
	"argus/internal/results"
	"argus/internal/sanity"
)

func TestRunMissingCommand(t *testing.T) {
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected usage error")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"bogus"}); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestInitWritesCheckpoints(t *testing.T) {
	modelsDir := filepath.Join(t.TempDir(), "models")
	err := run(context.Background(), []string{
		"init", "-models", modelsDir, "-games", "breakout,pacman", "-seed", "3",
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, game := range []string{"breakout", "pacman"} {
		path := sanity.CheckpointPath(modelsDir, game)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("checkpoint for %s: %v", game, err)
		}
		network, err := nn.LoadCheckpoint(path)
		if err != nil {
			t.Fatalf("load checkpoint %s: %v", game, err)
		}
		if network.Game != game {
			t.Fatalf("checkpoint game = %s, want %s", network.Game, game)
		}
	}
}

func TestInitRejectsUnknownGame(t *testing.T) {
	err := run(context.Background(), []string{
		"init", "-models", t.TempDir(), "-games", "pong",
	})
	if err == nil {
		t.Fatal("expected unknown game error")
	}
}

func TestRunCommandValidation(t *testing.T) {
	if err := run(context.Background(), []string{"run", "-game", "pacman"}); err == nil {
		t.Fatal("expected missing approach error")
	}
	if err := run(context.Background(), []string{"run", "-approach", "noise"}); err == nil {
		t.Fatal("expected missing game error")
	}
}

func TestSweepSubcommands(t *testing.T) {
	if err := run(context.Background(), []string{"sweep"}); err == nil {
		t.Fatal("expected missing subcommand error")
	}
	if err := run(context.Background(), []string{"sweep", "bogus"}); err == nil {
		t.Fatal("expected unknown subcommand error")
	}
	if err := run(context.Background(), []string{"sweep", "continue", "-store", "memory"}); err == nil {
		t.Fatal("expected missing id error")
	}
	if err := run(context.Background(), []string{"sweep", "list", "-store", "memory", "-experiments", t.TempDir()}); err != nil {
		t.Fatalf("sweep list: %v", err)
	}
}

func TestReportFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	records := []model.SimilarityRecord{
		{RandLayer: 1, Pearson: 0.9, SSIM: 0.8, Spearman: 0.7, Action: 2},
		{RandLayer: 6, Pearson: 0.1, SSIM: 0.2, Spearman: 0.3, Action: 2},
	}
	if err := results.WriteCSV(path, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := run(context.Background(), []string{"report", "-file", path}); err != nil {
		t.Fatalf("report: %v", err)
	}
	if err := run(context.Background(), []string{"report", "-json", "-file", path}); err != nil {
		t.Fatalf("report json: %v", err)
	}
}

func TestReportRequiresOneSource(t *testing.T) {
	if err := run(context.Background(), []string{"report"}); err == nil {
		t.Fatal("expected source validation error")
	}
	if err := run(context.Background(), []string{"report", "-file", "x.csv", "-run", "y"}); err == nil {
		t.Fatal("expected source validation error")
	}
}

func TestPlotFromCSV(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "table.csv")
	records := []model.SimilarityRecord{
		{RandLayer: 1, Pearson: 0.9, SSIM: 0.8, Spearman: 0.7, Action: 2},
		{RandLayer: 7, Pearson: 0.1, SSIM: 0.2, Spearman: 0.3, Action: 2},
	}
	if err := results.WriteCSV(path, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	err := run(context.Background(), []string{
		"plot", "-file", path, "-game", "pacman", "-approach", "noise",
		"-variant", "blur_false_raw_false", "-figures-dir", filepath.Join(base, "figures"),
	})
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	figure := filepath.Join(base, "figures", "sanity_checks", "pacman_noise_blur_false_raw_false.png")
	if _, err := os.Stat(figure); err != nil {
		t.Fatalf("figure: %v", err)
	}
}
