package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"trainwatch/internal/config"
	"trainwatch/internal/progress"
	"trainwatch/internal/ui"
	"trainwatch/internal/watch"
)

func main() {
	configPath := flag.String("config", "", "path to a run config yaml")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trainmon [flags] -- command [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Trainmon runs a training command under the trainwatch early-stopping\n")
		fmt.Fprintf(os.Stderr, "loop and shows its progress in a live terminal monitor.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "trainmon: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if args := flag.Args(); len(args) > 0 {
		cfg.Command = args[0]
		cfg.Args = args[1:]
	}
	if cfg.Command == "" {
		fmt.Fprintln(os.Stderr, "trainmon: no command given; pass one after -- or set it in the config file")
		os.Exit(1)
	}

	wc, err := cfg.WatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trainmon: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan progress.Event, 64)
	wc.Emitter = &progress.ChanEmitter{Ch: events}
	wc.Output = io.Discard // the monitor owns the screen

	monitor := ui.NewMonitor(cfg.Metric, cfg.Patience, events, cancel)
	p := tea.NewProgram(monitor, tea.WithAltScreen())

	go func() {
		summary, err := watch.Run(ctx, wc)
		close(events)
		p.Send(ui.DoneMsg{Summary: summary, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "trainmon: %v\n", err)
		os.Exit(1)
	}
}
