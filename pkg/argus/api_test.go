package argus

import (
	"context"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", ExperimentsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if client.modelsDir != defaultModelsDir || client.resultsDir != defaultResultsDir {
		t.Fatalf("unexpected defaults: models=%s results=%s", client.modelsDir, client.resultsDir)
	}
	if client.figuresDir != "" {
		t.Fatalf("figures dir should be empty when figures are disabled, got %s", client.figuresDir)
	}
}

func TestNewFiguresEnabled(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", Figures: true})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()
	if client.figuresDir != defaultFiguresDir {
		t.Fatalf("figures dir = %s, want %s", client.figuresDir, defaultFiguresDir)
	}
}

func TestNewUnsupportedStore(t *testing.T) {
	if _, err := New(Options{StoreKind: "redis"}); err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestRunValidation(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", ExperimentsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if _, err := client.Run(context.Background(), RunRequest{Approach: "noise"}); err == nil {
		t.Fatal("expected missing game error")
	}
	if _, err := client.Run(context.Background(), RunRequest{Game: "pacman"}); err == nil {
		t.Fatal("expected missing approach error")
	}
}

func TestSweepsEmpty(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", ExperimentsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	exps, err := client.Sweeps(context.Background())
	if err != nil {
		t.Fatalf("sweeps: %v", err)
	}
	if len(exps) != 0 {
		t.Fatalf("expected no sweeps, got %d", len(exps))
	}
	if _, err := client.Sweep(context.Background(), "absent"); err == nil {
		t.Fatal("expected missing sweep error")
	}
	if _, err := client.ContinueSweep(context.Background(), "", SweepRequest{}); err == nil {
		t.Fatal("expected missing sweep id error")
	}
}

func TestRecordsValidation(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", ExperimentsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if _, err := client.Records(context.Background(), ""); err == nil {
		t.Fatal("expected missing run id error")
	}
	if _, err := client.Records(context.Background(), "absent"); err == nil {
		t.Fatal("expected records not found error")
	}
}
