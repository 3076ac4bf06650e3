package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SimilarityRecord is one comparison between the original model's saliency map
// and one comparator's map at a single gameplay step. RandLayer is 1-5 for the
// cascade variants, 6 for the uniform-random baseline and 7 for the
// Gaussian-random baseline.
type SimilarityRecord struct {
	RandLayer int     `json:"rand_layer"`
	Pearson   float64 `json:"pearson"`
	SSIM      float64 `json:"ssim"`
	Spearman  float64 `json:"spearman"`
	Action    int     `json:"action"`
}

// RunSummary describes one completed sanity-check run: a single
// (game, approach, parameter-variant) combination.
type RunSummary struct {
	VersionedRecord
	ID             string `json:"id"`
	Game           string `json:"game"`
	Approach       string `json:"approach"`
	Variant        string `json:"variant"`
	Steps          int    `json:"steps"`
	Records        int    `json:"records"`
	Seed           int64  `json:"seed"`
	ResultsFile    string `json:"results_file"`
	StartedAtUTC   string `json:"started_at_utc,omitempty"`
	CompletedAtUTC string `json:"completed_at_utc,omitempty"`
}

// SweepCombo is one cell of the game x approach x variant grid.
type SweepCombo struct {
	Game     string `json:"game"`
	Approach string `json:"approach"`
	Variant  string `json:"variant"`
}

// SweepExperiment tracks progress through a full grid sweep so an interrupted
// sweep can resume at the next combination. Per-run results stay
// all-or-nothing; only completed combinations are recorded here.
type SweepExperiment struct {
	ID             string       `json:"id"`
	Notes          string       `json:"notes,omitempty"`
	ProgressFlag   string       `json:"progress_flag"`
	ComboIndex     int          `json:"combo_index"`
	Combos         []SweepCombo `json:"combos"`
	RunIDs         []string     `json:"run_ids,omitempty"`
	StartedAtUTC   string       `json:"started_at_utc,omitempty"`
	CompletedAtUTC string       `json:"completed_at_utc,omitempty"`
	Interruptions  []string     `json:"interruptions,omitempty"`
}
