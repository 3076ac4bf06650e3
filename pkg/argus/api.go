// Package argus exposes the sanity-check harness as an embeddable client.
package argus

import (
	"context"
	"errors"
	"fmt"

	"argus/internal/model"
	"argus/internal/results"
	"argus/internal/sanity"
)

const (
	defaultDBPath         = "argus.db"
	defaultModelsDir      = "models"
	defaultResultsDir     = "results"
	defaultFiguresDir     = "figures"
	defaultExperimentsDir = "."
)

type Options struct {
	StoreKind      string
	DBPath         string
	ModelsDir      string
	ResultsDir     string
	FiguresDir     string
	ExperimentsDir string

	// Figures disables chart rendering when false.
	Figures bool
}

type Client struct {
	store          results.Store
	modelsDir      string
	resultsDir     string
	figuresDir     string
	experimentsDir string
}

type RunRequest struct {
	Game     string
	Approach string
	Variant  string
	Steps    int
	Seed     int64
}

type SweepRequest struct {
	Notes string
	Steps int
	Seed  int64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = results.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	modelsDir := opts.ModelsDir
	if modelsDir == "" {
		modelsDir = defaultModelsDir
	}
	resultsDir := opts.ResultsDir
	if resultsDir == "" {
		resultsDir = defaultResultsDir
	}
	figuresDir := ""
	if opts.Figures {
		figuresDir = opts.FiguresDir
		if figuresDir == "" {
			figuresDir = defaultFiguresDir
		}
	}
	experimentsDir := opts.ExperimentsDir
	if experimentsDir == "" {
		experimentsDir = defaultExperimentsDir
	}

	store, err := results.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:          store,
		modelsDir:      modelsDir,
		resultsDir:     resultsDir,
		figuresDir:     figuresDir,
		experimentsDir: experimentsDir,
	}, nil
}

func (c *Client) Close() error {
	return results.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Run executes a single (game, approach, variant) sanity check.
func (c *Client) Run(ctx context.Context, req RunRequest) (model.RunSummary, error) {
	if req.Game == "" {
		return model.RunSummary{}, errors.New("game is required")
	}
	if req.Approach == "" {
		return model.RunSummary{}, errors.New("approach is required")
	}
	if req.Variant == "" {
		req.Variant = "default"
	}
	if err := c.store.Init(ctx); err != nil {
		return model.RunSummary{}, err
	}
	return sanity.Run(ctx, c.request(req))
}

// StartSweep runs the full game x approach x variant grid.
func (c *Client) StartSweep(ctx context.Context, req SweepRequest) (model.SweepExperiment, error) {
	if err := c.store.Init(ctx); err != nil {
		return model.SweepExperiment{}, err
	}
	return sanity.StartSweep(ctx, c.sweepConfig(req))
}

// ContinueSweep resumes an interrupted sweep.
func (c *Client) ContinueSweep(ctx context.Context, id string, req SweepRequest) (model.SweepExperiment, error) {
	if id == "" {
		return model.SweepExperiment{}, errors.New("sweep id is required")
	}
	if err := c.store.Init(ctx); err != nil {
		return model.SweepExperiment{}, err
	}
	return sanity.ContinueSweep(ctx, c.sweepConfig(req), id)
}

// Sweep returns one sweep experiment by id.
func (c *Client) Sweep(_ context.Context, id string) (model.SweepExperiment, error) {
	exp, ok, err := results.ReadSweepExperiment(c.experimentsDir, id)
	if err != nil {
		return model.SweepExperiment{}, err
	}
	if !ok {
		return model.SweepExperiment{}, fmt.Errorf("sweep experiment not found: %s", id)
	}
	return exp, nil
}

// Sweeps lists known sweep experiments, newest first.
func (c *Client) Sweeps(_ context.Context) ([]model.SweepExperiment, error) {
	return results.ListSweepExperiments(c.experimentsDir)
}

// Runs lists persisted run summaries.
func (c *Client) Runs(ctx context.Context) ([]model.RunSummary, error) {
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx)
}

// Records returns the similarity records of one persisted run.
func (c *Client) Records(ctx context.Context, runID string) ([]model.SimilarityRecord, error) {
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	if err := c.store.Init(ctx); err != nil {
		return nil, err
	}
	records, ok, err := c.store.GetRecords(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("records not found for run id: %s", runID)
	}
	return records, nil
}

func (c *Client) request(req RunRequest) sanity.Request {
	return sanity.Request{
		Game:       req.Game,
		Approach:   req.Approach,
		Variant:    req.Variant,
		Steps:      req.Steps,
		Seed:       req.Seed,
		ModelsDir:  c.modelsDir,
		ResultsDir: c.resultsDir,
		FiguresDir: c.figuresDir,
		Store:      c.store,
	}
}

func (c *Client) sweepConfig(req SweepRequest) sanity.SweepConfig {
	return sanity.SweepConfig{
		BaseDir: c.experimentsDir,
		Notes:   req.Notes,
		Template: sanity.Request{
			Steps:      req.Steps,
			Seed:       req.Seed,
			ModelsDir:  c.modelsDir,
			ResultsDir: c.resultsDir,
			FiguresDir: c.figuresDir,
			Store:      c.store,
		},
	}
}
