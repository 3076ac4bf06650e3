// Package figures renders summary charts for sanity-check runs.
package figures

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"argus/internal/model"
)

const figuresSubdir = "sanity_checks"

// ComparatorCount covers the five cascade depths plus the two random
// baselines, matching SimilarityRecord.RandLayer values 1 through 7.
const ComparatorCount = 7

// DepthSummary is the mean of each metric across all records sharing one
// rand_layer value.
type DepthSummary struct {
	RandLayer int
	Pearson   float64
	SSIM      float64
	Spearman  float64
	Count     int
}

// Summarize averages the metrics per comparator, ignoring NaN values the way
// the metrics ignore degenerate constant maps.
func Summarize(records []model.SimilarityRecord) []DepthSummary {
	sums := make([]DepthSummary, ComparatorCount)
	counts := make([][3]int, ComparatorCount)
	for _, r := range records {
		if r.RandLayer < 1 || r.RandLayer > ComparatorCount {
			continue
		}
		i := r.RandLayer - 1
		sums[i].RandLayer = r.RandLayer
		sums[i].Count++
		if !math.IsNaN(r.Pearson) {
			sums[i].Pearson += r.Pearson
			counts[i][0]++
		}
		if !math.IsNaN(r.SSIM) {
			sums[i].SSIM += r.SSIM
			counts[i][1]++
		}
		if !math.IsNaN(r.Spearman) {
			sums[i].Spearman += r.Spearman
			counts[i][2]++
		}
	}
	for i := range sums {
		sums[i].RandLayer = i + 1
		if counts[i][0] > 0 {
			sums[i].Pearson /= float64(counts[i][0])
		}
		if counts[i][1] > 0 {
			sums[i].SSIM /= float64(counts[i][1])
		}
		if counts[i][2] > 0 {
			sums[i].Spearman /= float64(counts[i][2])
		}
	}
	return sums
}

// Render writes a mean-similarity-per-comparator chart as PNG and returns the
// written path.
func Render(baseDir, game, approach, variant string, records []model.SimilarityRecord) (string, error) {
	summaries := Summarize(records)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s %s", game, approach, variant)
	p.X.Label.Text = "comparator"
	p.Y.Label.Text = "mean similarity"
	p.Legend.Top = true

	metricSeries := []struct {
		name   string
		values func(DepthSummary) float64
	}{
		{"pearson", func(s DepthSummary) float64 { return s.Pearson }},
		{"ssim", func(s DepthSummary) float64 { return s.SSIM }},
		{"spearman", func(s DepthSummary) float64 { return s.Spearman }},
	}
	for _, series := range metricSeries {
		xys := make(plotter.XYs, 0, len(summaries))
		for _, s := range summaries {
			if s.Count == 0 {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(s.RandLayer), Y: series.values(s)})
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return "", err
		}
		line.Width = vg.Points(1)
		p.Add(line, points)
		p.Legend.Add(series.name, line, points)
	}
	p.Add(plotter.NewGrid())

	dir := filepath.Join(baseDir, figuresSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", game, approach, variant))
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}
