package main

import (
	"context"
	"fmt"
	"os"

	"argus/internal/results"
	argusapi "argus/pkg/argus"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "sweep":
		return runSweep(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "report":
		return runReport(ctx, args[1:])
	case "plot":
		return runPlot(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func newClient(opts argusapi.Options) (*argusapi.Client, func(), error) {
	client, err := argusapi.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: argusctl <init|run|sweep|runs|report|plot> [flags]", msg)
}

func storeFlagUsage() string {
	return fmt.Sprintf("store backend: memory|sqlite (default %s)", results.DefaultStoreKind())
}
