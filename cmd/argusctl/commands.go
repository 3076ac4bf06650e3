package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"argus/internal/atari"
	"argus/internal/figures"
	"argus/internal/model"
	"argus/internal/nn"
	"argus/internal/results"
	"argus/internal/saliency"
	"argus/internal/sanity"
	argusapi "argus/pkg/argus"
)

// runInit writes a freshly initialized checkpoint per game. Stand-in weights
// until real trained checkpoints are converted and dropped into the models
// directory.
func runInit(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	modelsDir := fs.String("models", "models", "checkpoint directory")
	games := fs.String("games", strings.Join(sanity.SweepGames, ","), "comma-separated games")
	seed := fs.Int64("seed", 1, "weight initialization seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*modelsDir, 0o755); err != nil {
		return err
	}
	for _, game := range strings.Split(*games, ",") {
		game = strings.TrimSpace(game)
		if game == "" {
			continue
		}
		env, err := atari.NewEnv(game, *seed)
		if err != nil {
			return err
		}
		network := nn.NewDQN(game, env.ActionCount())
		network.InitAll(rand.New(rand.NewSource(*seed)))

		path := sanity.CheckpointPath(*modelsDir, game)
		if err := nn.SaveCheckpoint(path, network); err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		fmt.Printf("initialized game=%s actions=%d params=%s file=%s size=%s\n",
			game, env.ActionCount(), humanize.Comma(int64(network.ParamCount())), path, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	game := fs.String("game", "", "game to evaluate")
	approach := fs.String("approach", "", "saliency approach: "+strings.Join(saliency.Approaches(), "|"))
	variant := fs.String("variant", "default", "parameter variant of the approach")
	steps := fs.Int("steps", sanity.DefaultSteps, "episode length")
	seed := fs.Int64("seed", sanity.DefaultSeed, "episode seed")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *game == "" || *approach == "" {
		return usageError("run requires -game and -approach")
	}

	client, closeClient, err := newClient(*opts)
	if err != nil {
		return err
	}
	defer closeClient()

	summary, err := client.Run(ctx, argusapi.RunRequest{
		Game:     *game,
		Approach: *approach,
		Variant:  *variant,
		Steps:    *steps,
		Seed:     *seed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("run id=%s game=%s approach=%s variant=%s records=%d file=%s\n",
		summary.ID, summary.Game, summary.Approach, summary.Variant, summary.Records, summary.ResultsFile)
	return nil
}

func runSweep(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("sweep requires a subcommand: start|continue|show|list")
	}
	switch args[0] {
	case "start":
		return runSweepStart(ctx, args[1:])
	case "continue":
		return runSweepContinue(ctx, args[1:])
	case "show":
		return runSweepShow(ctx, args[1:])
	case "list":
		return runSweepList(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown sweep subcommand: %s", args[0]))
	}
}

func runSweepStart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep start", flag.ContinueOnError)
	notes := fs.String("notes", "", "free-form notes stored with the experiment")
	steps := fs.Int("steps", sanity.DefaultSteps, "episode length per combination")
	seed := fs.Int64("seed", sanity.DefaultSeed, "episode seed")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, closeClient, err := newClient(*opts)
	if err != nil {
		return err
	}
	defer closeClient()

	exp, err := client.StartSweep(ctx, argusapi.SweepRequest{Notes: *notes, Steps: *steps, Seed: *seed})
	if err != nil {
		return fmt.Errorf("sweep %s stopped: %w", exp.ID, err)
	}
	fmt.Printf("sweep id=%s status=%s runs=%d\n", exp.ID, exp.ProgressFlag, len(exp.RunIDs))
	return nil
}

func runSweepContinue(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep continue", flag.ContinueOnError)
	id := fs.String("id", "", "sweep experiment id")
	steps := fs.Int("steps", sanity.DefaultSteps, "episode length per combination")
	seed := fs.Int64("seed", sanity.DefaultSeed, "episode seed")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("sweep continue requires -id")
	}

	client, closeClient, err := newClient(*opts)
	if err != nil {
		return err
	}
	defer closeClient()

	exp, err := client.ContinueSweep(ctx, *id, argusapi.SweepRequest{Steps: *steps, Seed: *seed})
	if err != nil {
		return fmt.Errorf("sweep %s stopped: %w", exp.ID, err)
	}
	fmt.Printf("sweep id=%s status=%s runs=%d\n", exp.ID, exp.ProgressFlag, len(exp.RunIDs))
	return nil
}

func runSweepShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep show", flag.ContinueOnError)
	id := fs.String("id", "", "sweep experiment id")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("sweep show requires -id")
	}

	client, closeClient, err := newClient(*opts)
	if err != nil {
		return err
	}
	defer closeClient()

	exp, err := client.Sweep(ctx, *id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runSweepList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep list", flag.ContinueOnError)
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, closeClient, err := newClient(*opts)
	if err != nil {
		return err
	}
	defer closeClient()

	exps, err := client.Sweeps(ctx)
	if err != nil {
		return err
	}
	if len(exps) == 0 {
		fmt.Println("no sweep experiments")
		return nil
	}
	for _, exp := range exps {
		fmt.Printf("sweep id=%s status=%s progress=%d/%d started=%s\n",
			exp.ID, exp.ProgressFlag, exp.ComboIndex, len(exp.Combos), exp.StartedAtUTC)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum runs to list")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, closeClient, err := newClient(*opts)
	if err != nil {
		return err
	}
	defer closeClient()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}
	if *limit > 0 && len(runs) > *limit {
		runs = runs[len(runs)-*limit:]
	}
	for _, r := range runs {
		fmt.Printf("run id=%s game=%s approach=%s variant=%s records=%d completed=%s\n",
			r.ID, r.Game, r.Approach, r.Variant, r.Records, r.CompletedAtUTC)
	}
	return nil
}

// runReport prints per-comparator mean similarities from a results CSV or a
// persisted run.
func runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	file := fs.String("file", "", "similarity CSV to summarize")
	runID := fs.String("run", "", "persisted run id to summarize")
	asJSON := fs.Bool("json", false, "emit the summary as JSON instead of a table")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*file == "") == (*runID == "") {
		return usageError("report requires exactly one of -file or -run")
	}

	records, err := loadRecords(ctx, *file, *runID, opts)
	if err != nil {
		return err
	}

	summaries := figures.Summarize(records)
	if *asJSON {
		out, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println("comparator  count  pearson  ssim  spearman")
	for _, s := range summaries {
		if s.Count == 0 {
			continue
		}
		fmt.Printf("%-10d  %5d  %7.4f  %4.4f  %8.4f\n", s.RandLayer, s.Count, s.Pearson, s.SSIM, s.Spearman)
	}
	return nil
}

func runPlot(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	file := fs.String("file", "", "similarity CSV to plot")
	runID := fs.String("run", "", "persisted run id to plot")
	game := fs.String("game", "", "game label for the figure")
	approach := fs.String("approach", "", "approach label for the figure")
	variant := fs.String("variant", "default", "variant label for the figure")
	opts := clientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*file == "") == (*runID == "") {
		return usageError("plot requires exactly one of -file or -run")
	}

	records, err := loadRecords(ctx, *file, *runID, opts)
	if err != nil {
		return err
	}
	if *runID != "" && (*game == "" || *approach == "") {
		client, closeClient, err := newClient(*opts)
		if err != nil {
			return err
		}
		defer closeClient()
		runs, err := client.Runs(ctx)
		if err != nil {
			return err
		}
		for _, r := range runs {
			if r.ID == *runID {
				*game, *approach, *variant = r.Game, r.Approach, r.Variant
				break
			}
		}
	}
	if *game == "" || *approach == "" {
		return usageError("plot requires -game and -approach when labels cannot be derived")
	}

	path, err := figures.Render(opts.FiguresDir, *game, *approach, *variant, records)
	if err != nil {
		return err
	}
	fmt.Printf("figure file=%s\n", path)
	return nil
}

func loadRecords(ctx context.Context, file, runID string, opts *argusapi.Options) ([]model.SimilarityRecord, error) {
	if file != "" {
		return results.ReadCSV(file)
	}
	client, closeClient, err := newClient(*opts)
	if err != nil {
		return nil, err
	}
	defer closeClient()
	return client.Records(ctx, runID)
}

func clientFlags(fs *flag.FlagSet) *argusapi.Options {
	opts := &argusapi.Options{}
	fs.StringVar(&opts.StoreKind, "store", results.DefaultStoreKind(), storeFlagUsage())
	fs.StringVar(&opts.DBPath, "db-path", "argus.db", "sqlite database path")
	fs.StringVar(&opts.ModelsDir, "models", "models", "checkpoint directory")
	fs.StringVar(&opts.ResultsDir, "results", "results", "results directory")
	fs.StringVar(&opts.ExperimentsDir, "experiments", ".", "sweep experiments base directory")
	fs.BoolVar(&opts.Figures, "figures", false, "render summary figures after each run")
	fs.StringVar(&opts.FiguresDir, "figures-dir", "figures", "figure output directory")
	return opts
}
