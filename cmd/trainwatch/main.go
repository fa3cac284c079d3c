package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"trainwatch/internal/config"
	"trainwatch/internal/telemetry"
	"trainwatch/internal/watch"
)

// cliFlags holds the parsed CLI configuration for a watched run.
type cliFlags struct {
	configPath string
	metric     string
	pattern    string
	mode       string
	patience   int
	minDelta   float64
	timeoutMin int
	workdir    string
}

func parseFlags() (cliFlags, []string) {
	var f cliFlags

	flag.StringVar(&f.configPath, "config", "", "path to a run config yaml (flags override it)")
	flag.StringVar(&f.metric, "metric", "", "metric name to extract from output (default \"loss\")")
	flag.StringVar(&f.pattern, "pattern", "", "custom regexp with one capture group for the metric value")
	flag.StringVar(&f.mode, "mode", "", "direction of improvement: min or max (default \"min\")")
	flag.IntVar(&f.patience, "patience", 0, "non-improving updates tolerated before stopping (default 5)")
	flag.Float64Var(&f.minDelta, "min-delta", 0, "minimum improvement to count as progress")
	flag.IntVar(&f.timeoutMin, "timeout", 0, "wall-clock cap in minutes (default 120)")
	flag.StringVar(&f.workdir, "workdir", "", "working directory for the training command")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trainwatch [flags] -- command [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Trainwatch runs a training command, watches its output for a metric,\n")
		fmt.Fprintf(os.Stderr, "and kills the run once the metric stops improving.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return f, flag.Args()
}

// buildConfig merges the config file (if any), defaults, CLI flags, and
// the trailing command line, in increasing priority.
func buildConfig(f cliFlags, args []string) (config.RunConfig, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if f.metric != "" {
		cfg.Metric = f.metric
	}
	if f.pattern != "" {
		cfg.Pattern = f.pattern
	}
	if f.mode != "" {
		cfg.Mode = f.mode
	}
	if f.patience != 0 {
		cfg.Patience = f.patience
	}
	if f.minDelta != 0 {
		cfg.MinDelta = f.minDelta
	}
	if f.timeoutMin != 0 {
		cfg.TimeoutMinutes = f.timeoutMin
	}
	if f.workdir != "" {
		cfg.WorkDir = f.workdir
	}
	if len(args) > 0 {
		cfg.Command = args[0]
		cfg.Args = args[1:]
	}
	if cfg.Command == "" {
		return cfg, fmt.Errorf("no command given; pass one after -- or set it in the config file")
	}
	return cfg, nil
}

func run() (int, error) {
	f, args := parseFlags()
	cfg, err := buildConfig(f, args)
	if err != nil {
		return 1, err
	}
	wc, err := cfg.WatchConfig()
	if err != nil {
		return 1, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter, err := telemetry.NewExporter(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trainwatch: telemetry disabled: %v\n", err)
	}
	defer exporter.Shutdown(context.Background())
	wc.Telemetry = exporter

	summary, err := watch.Run(ctx, wc)
	if err != nil {
		return 1, err
	}
	if summary.StopReason == watch.StopCompleted {
		// Pass the training process's own exit code through.
		return summary.ExitCode, nil
	}
	return summary.StopReason.ExitCode(), nil
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trainwatch: %v\n", err)
	}
	os.Exit(code)
}
