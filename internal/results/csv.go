package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"argus/internal/model"
)

var csvHeader = []string{"rand_layer", "pearson", "ssim", "spearman", "action"}

// WriteCSV writes the per-step similarity table, creating parent directories
// as needed.
func WriteCSV(path string, records []model.SimilarityRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.RandLayer),
			formatFloat(r.Pearson),
			formatFloat(r.SSIM),
			formatFloat(r.Spearman),
			strconv.Itoa(r.Action),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadCSV parses a similarity table written by WriteCSV.
func ReadCSV(path string) ([]model.SimilarityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty table", path)
	}
	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("%s: unexpected header %v", path, rows[0])
	}
	for i, name := range csvHeader {
		if rows[0][i] != name {
			return nil, fmt.Errorf("%s: unexpected header %v", path, rows[0])
		}
	}

	records := make([]model.SimilarityRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		layer, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: rand_layer %q: %w", path, row[0], err)
		}
		pearson, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: pearson %q: %w", path, row[1], err)
		}
		ssim, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: ssim %q: %w", path, row[2], err)
		}
		spearman, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: spearman %q: %w", path, row[3], err)
		}
		action, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, fmt.Errorf("%s: action %q: %w", path, row[4], err)
		}
		records = append(records, model.SimilarityRecord{
			RandLayer: layer,
			Pearson:   pearson,
			SSIM:      ssim,
			Spearman:  spearman,
			Action:    action,
		})
	}
	return records, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
