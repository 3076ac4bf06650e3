package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"argus/internal/model"
)

const experimentsDir = "experiments"

// Progress-flag values for a sweep experiment.
const (
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

func WriteSweepExperiment(baseDir string, exp model.SweepExperiment) error {
	if exp.ID == "" {
		return fmt.Errorf("experiment id is required")
	}
	path := sweepExperimentPath(baseDir, exp.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func ReadSweepExperiment(baseDir, id string) (model.SweepExperiment, bool, error) {
	if id == "" {
		return model.SweepExperiment{}, false, fmt.Errorf("experiment id is required")
	}
	path := sweepExperimentPath(baseDir, id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.SweepExperiment{}, false, nil
		}
		return model.SweepExperiment{}, false, err
	}
	var exp model.SweepExperiment
	if err := json.Unmarshal(data, &exp); err != nil {
		return model.SweepExperiment{}, false, err
	}
	return exp, true, nil
}

func ListSweepExperiments(baseDir string) ([]model.SweepExperiment, error) {
	root := filepath.Join(baseDir, experimentsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.SweepExperiment{}, nil
		}
		return nil, err
	}

	exps := make([]model.SweepExperiment, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		exp, ok, err := ReadSweepExperiment(baseDir, entry.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		exps = append(exps, exp)
	}
	sort.Slice(exps, func(i, j int) bool {
		switch {
		case exps[i].StartedAtUTC == exps[j].StartedAtUTC:
			return exps[i].ID < exps[j].ID
		case exps[i].StartedAtUTC == "":
			return false
		case exps[j].StartedAtUTC == "":
			return true
		default:
			return exps[i].StartedAtUTC > exps[j].StartedAtUTC
		}
	})
	return exps, nil
}

func sweepExperimentPath(baseDir, id string) string {
	return filepath.Join(baseDir, experimentsDir, id, "experiment.json")
}
