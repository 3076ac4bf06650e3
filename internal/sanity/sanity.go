// Package sanity drives the cascading-randomization sanity check: replay a
// fixed-seed episode, explain every post-warm-up decision with the original
// model and its randomized variants, and record how similar the variant
// explanations stay to the original's.
package sanity

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"argus/internal/atari"
	"argus/internal/cascade"
	"argus/internal/figures"
	"argus/internal/metrics"
	"argus/internal/model"
	"argus/internal/nn"
	"argus/internal/results"
	"argus/internal/saliency"
)

const (
	DefaultSteps = 1001
	DefaultSeed  = 42

	// WarmupSteps is the number of opening steps driven by a fixed action
	// instead of the policy. No similarity records are emitted for them.
	WarmupSteps = 4

	// ComparatorsPerStep is the record count per policy-driven step: five
	// cascade variants plus the uniform and Gaussian baselines.
	ComparatorsPerStep = cascade.Depth + 2

	pacmanWarmup  = 200
	defaultWarmup = 1
)

// Request configures a single (game, approach, variant) run.
type Request struct {
	Game     string
	Approach string
	Variant  string

	Steps int   // 0 means DefaultSteps
	Seed  int64 // 0 means DefaultSeed

	ModelsDir  string
	ResultsDir string
	FiguresDir string // empty disables figure rendering

	Store results.Store // optional run persistence
}

// CheckpointPath names the model checkpoint for a game.
func CheckpointPath(modelsDir, game string) string {
	return filepath.Join(modelsDir, game+".ckpt.gz")
}

// CSVPath names the per-run similarity table, namespaced by game.
func CSVPath(resultsDir, game, approach, variant string) string {
	return filepath.Join(resultsDir, game, fmt.Sprintf("%s_%s.csv", approach, variant))
}

// Run executes the sanity check and writes the similarity table. The returned
// summary is also persisted when the request carries a store.
func Run(ctx context.Context, req Request) (model.RunSummary, error) {
	steps := req.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	seed := req.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	params, err := saliency.VariantParams(req.Approach, req.Variant)
	if err != nil {
		return model.RunSummary{}, err
	}

	ckptPath := CheckpointPath(req.ModelsDir, req.Game)
	original, err := nn.LoadCheckpoint(ckptPath)
	if err != nil {
		return model.RunSummary{}, fmt.Errorf("load checkpoint: %w", err)
	}
	if info, err := os.Stat(ckptPath); err == nil {
		fmt.Printf("sanity checkpoint=%s size=%s params=%s\n",
			ckptPath, humanize.Bytes(uint64(info.Size())), humanize.Comma(int64(original.ParamCount())))
	}

	env, err := atari.NewEnv(req.Game, seed)
	if err != nil {
		return model.RunSummary{}, err
	}
	wrapper := atari.NewWrapper(env)
	wrapper.FireReset = atari.FireStart(req.Game)

	rng := rand.New(rand.NewSource(seed))
	variants, err := cascade.BuildChain(original, rng)
	if err != nil {
		return model.RunSummary{}, err
	}
	networks := make([]*nn.Network, len(variants))
	for i, v := range variants {
		networks[i] = v.Network
	}

	bundle, err := saliency.Dispatch(req.Approach, params, original, networks)
	if err != nil {
		return model.RunSummary{}, err
	}

	warmup := defaultWarmup
	if req.Game == "pacman" {
		// MsPacman ignores the opening inputs; skip past the idle intro.
		warmup = pacmanWarmup
	}
	if err := wrapper.FixedReset(warmup, 0); err != nil {
		return model.RunSummary{}, err
	}

	warmupAction := 0
	if req.Game == "breakout" {
		warmupAction = atari.FireAction
	}

	startedAt := time.Now().UTC()
	evaluator := &metrics.Evaluator{}
	records := make([]model.SimilarityRecord, 0, (steps-WarmupSteps)*ComparatorsPerStep)
	state := wrapper.State()

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return model.RunSummary{}, err
		}
		if step%10 == 0 {
			fmt.Printf("sanity game=%s approach=%s variant=%s step=%d records=%s\n",
				req.Game, req.Approach, req.Variant, step, humanize.Comma(int64(len(records))))
		}

		var action int
		if step < WarmupSteps {
			action = warmupAction
			// RISE masks are drawn once from the original generator and
			// shared, so every network sees identical sampling.
			if step == WarmupSteps-1 {
				bundle.PrepareSharedMasks(state.H, state.W, rng)
			}
		} else {
			values, err := original.Forward(state)
			if err != nil {
				return model.RunSummary{}, err
			}
			action = nn.Argmax(values)

			reference, err := bundle.Original.Generate(state, action)
			if err != nil {
				return model.RunSummary{}, fmt.Errorf("original explanation: %w", err)
			}

			for i, gen := range bundle.Variants {
				candidate, err := gen.Generate(state, action)
				if err != nil {
					return model.RunSummary{}, fmt.Errorf("variant %d explanation: %w", i+1, err)
				}
				scores := evaluator.Compare(reference, candidate)
				records = append(records, record(i+1, scores, action))
			}

			scores := evaluator.Compare(reference, uniformMap(state.H, state.W, rng))
			records = append(records, record(cascade.Depth+1, scores, action))

			scores = evaluator.Compare(reference, gaussianMap(state.H, state.W, rng))
			records = append(records, record(cascade.Depth+2, scores, action))
		}

		next, _, _, _, err := wrapper.Step(action)
		if err != nil {
			return model.RunSummary{}, err
		}
		state = next
	}

	csvPath := CSVPath(req.ResultsDir, req.Game, req.Approach, req.Variant)
	if err := results.WriteCSV(csvPath, records); err != nil {
		return model.RunSummary{}, fmt.Errorf("write results: %w", err)
	}

	summary := model.RunSummary{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: results.CurrentSchemaVersion,
			CodecVersion:  results.CurrentCodecVersion,
		},
		ID:             uuid.NewString(),
		Game:           req.Game,
		Approach:       req.Approach,
		Variant:        req.Variant,
		Steps:          steps,
		Records:        len(records),
		Seed:           seed,
		ResultsFile:    csvPath,
		StartedAtUTC:   startedAt.Format(time.RFC3339),
		CompletedAtUTC: time.Now().UTC().Format(time.RFC3339),
	}

	if req.Store != nil {
		if err := req.Store.SaveRunSummary(ctx, summary); err != nil {
			return model.RunSummary{}, fmt.Errorf("save run summary: %w", err)
		}
		if err := req.Store.SaveRecords(ctx, summary.ID, records); err != nil {
			return model.RunSummary{}, fmt.Errorf("save records: %w", err)
		}
	}

	if req.FiguresDir != "" {
		// Figures are diagnostics; a rendering failure never fails the run.
		if path, err := figures.Render(req.FiguresDir, req.Game, req.Approach, req.Variant, records); err != nil {
			fmt.Printf("WARNING figure render failed game=%s approach=%s err=%v\n", req.Game, req.Approach, err)
		} else {
			fmt.Printf("sanity figure=%s\n", path)
		}
	}

	fmt.Printf("sanity done game=%s approach=%s variant=%s records=%s file=%s\n",
		req.Game, req.Approach, req.Variant, humanize.Comma(int64(len(records))), csvPath)
	return summary, nil
}

func record(layer int, scores metrics.Scores, action int) model.SimilarityRecord {
	return model.SimilarityRecord{
		RandLayer: layer,
		Pearson:   scores.Pearson,
		SSIM:      scores.SSIM,
		Spearman:  scores.Spearman,
		Action:    action,
	}
}

func uniformMap(h, w int, rng *rand.Rand) *mat.Dense {
	m := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(y, x, rng.Float64())
		}
	}
	return m
}

func gaussianMap(h, w int, rng *rand.Rand) *mat.Dense {
	m := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(y, x, rng.NormFloat64())
		}
	}
	return m
}
