package sanity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"argus/internal/model"
	"argus/internal/results"
	"argus/internal/saliency"
)

// SweepGames lists the games evaluated by the full grid, in run order.
var SweepGames = []string{"pacman", "breakout", "spaceInvaders", "frostbite"}

// BuildGrid enumerates the full sweep: every approach, per game, per
// parameter variant.
func BuildGrid() ([]model.SweepCombo, error) {
	var combos []model.SweepCombo
	for _, approach := range saliency.Approaches() {
		variants, err := saliency.Variants(approach)
		if err != nil {
			return nil, err
		}
		for _, game := range SweepGames {
			for _, params := range variants {
				combos = append(combos, model.SweepCombo{
					Game:     game,
					Approach: approach,
					Variant:  params.Variant,
				})
			}
		}
	}
	return combos, nil
}

// SweepConfig configures a full-grid sweep. Template supplies the run
// settings shared by every combination; its Game, Approach and Variant fields
// are overwritten per combo.
type SweepConfig struct {
	BaseDir  string
	Notes    string
	Template Request
}

// StartSweep creates a new sweep experiment and drives it to completion. The
// experiment artifact is rewritten after every finished combination so an
// interrupted sweep resumes where it stopped.
func StartSweep(ctx context.Context, cfg SweepConfig) (model.SweepExperiment, error) {
	combos, err := BuildGrid()
	if err != nil {
		return model.SweepExperiment{}, err
	}
	exp := model.SweepExperiment{
		ID:           uuid.NewString(),
		Notes:        cfg.Notes,
		ProgressFlag: results.ProgressInProgress,
		Combos:       combos,
		StartedAtUTC: time.Now().UTC().Format(time.RFC3339),
	}
	if err := results.WriteSweepExperiment(cfg.BaseDir, exp); err != nil {
		return model.SweepExperiment{}, err
	}
	return runSweep(ctx, cfg, exp)
}

// ContinueSweep resumes an interrupted sweep at its recorded combo index.
func ContinueSweep(ctx context.Context, cfg SweepConfig, id string) (model.SweepExperiment, error) {
	exp, ok, err := results.ReadSweepExperiment(cfg.BaseDir, id)
	if err != nil {
		return model.SweepExperiment{}, err
	}
	if !ok {
		return model.SweepExperiment{}, fmt.Errorf("sweep experiment %s not found", id)
	}
	if exp.ProgressFlag == results.ProgressCompleted {
		return exp, fmt.Errorf("sweep experiment %s is already completed", id)
	}
	exp.Interruptions = append(exp.Interruptions,
		fmt.Sprintf("resumed at combo %d/%d at %s", exp.ComboIndex, len(exp.Combos), time.Now().UTC().Format(time.RFC3339)))
	if err := results.WriteSweepExperiment(cfg.BaseDir, exp); err != nil {
		return model.SweepExperiment{}, err
	}
	return runSweep(ctx, cfg, exp)
}

func runSweep(ctx context.Context, cfg SweepConfig, exp model.SweepExperiment) (model.SweepExperiment, error) {
	for exp.ComboIndex < len(exp.Combos) {
		combo := exp.Combos[exp.ComboIndex]
		fmt.Printf("sweep id=%s combo=%d/%d game=%s approach=%s variant=%s\n",
			exp.ID, exp.ComboIndex+1, len(exp.Combos), combo.Game, combo.Approach, combo.Variant)

		req := cfg.Template
		req.Game = combo.Game
		req.Approach = combo.Approach
		req.Variant = combo.Variant
		summary, err := Run(ctx, req)
		if err != nil {
			exp.Interruptions = append(exp.Interruptions,
				fmt.Sprintf("combo %d failed: %v", exp.ComboIndex, err))
			if werr := results.WriteSweepExperiment(cfg.BaseDir, exp); werr != nil {
				return exp, werr
			}
			return exp, err
		}

		exp.RunIDs = append(exp.RunIDs, summary.ID)
		exp.ComboIndex++
		if err := results.WriteSweepExperiment(cfg.BaseDir, exp); err != nil {
			return exp, err
		}
	}

	exp.ProgressFlag = results.ProgressCompleted
	exp.CompletedAtUTC = time.Now().UTC().Format(time.RFC3339)
	if err := results.WriteSweepExperiment(cfg.BaseDir, exp); err != nil {
		return exp, err
	}
	fmt.Printf("sweep done id=%s runs=%d\n", exp.ID, len(exp.RunIDs))
	return exp, nil
}
