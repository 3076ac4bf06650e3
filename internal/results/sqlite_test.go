//go:build sqlite

package results

import (
	"context"
	"path/filepath"
	"testing"

	"argus/internal/model"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "argus.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	summary := model.RunSummary{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
		Game:            "frostbite",
		Approach:        "rise",
		Variant:         "default",
		Steps:           1001,
		Seed:            42,
		StartedAtUTC:    "2026-04-01T00:00:00Z",
	}
	if err := store.SaveRunSummary(ctx, summary); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRunSummary(ctx, summary.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatalf("expected run %s", summary.ID)
	}
	if loaded.Game != summary.Game || loaded.Seed != summary.Seed {
		t.Fatalf("unexpected run loaded: %+v", loaded)
	}

	// Upsert replaces the payload.
	summary.Records = 6979
	if err := store.SaveRunSummary(ctx, summary); err != nil {
		t.Fatalf("save run again: %v", err)
	}
	loaded, _, err = store.GetRunSummary(ctx, summary.ID)
	if err != nil {
		t.Fatalf("get run again: %v", err)
	}
	if loaded.Records != 6979 {
		t.Fatalf("records = %d, want 6979", loaded.Records)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != summary.ID {
		t.Fatalf("unexpected run list: %+v", runs)
	}
}

func TestSQLiteStoreRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "argus.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	input := []model.SimilarityRecord{
		{RandLayer: 1, Pearson: 0.9, SSIM: 0.8, Spearman: 0.7, Action: 1},
		{RandLayer: 2, Pearson: 0.5, SSIM: 0.4, Spearman: 0.3, Action: 1},
	}
	if err := store.SaveRecords(ctx, "run-1", input); err != nil {
		t.Fatalf("save records: %v", err)
	}

	output, ok, err := store.GetRecords(ctx, "run-1")
	if err != nil {
		t.Fatalf("get records: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted records")
	}
	if len(output) != 2 || output[1].RandLayer != 2 {
		t.Fatalf("unexpected records: %+v", output)
	}

	if _, ok, err := store.GetRecords(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent records: ok=%t err=%v", ok, err)
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	store := NewSQLiteStore("")
	if err := store.Init(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
}
