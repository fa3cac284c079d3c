// Package watch runs a training command, scans its output for a metric,
// and terminates the run once the metric stops improving.
package watch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"trainwatch/internal/clock"
	"trainwatch/internal/progress"
	"trainwatch/internal/stopwatch"
	"trainwatch/internal/telemetry"
	"trainwatch/internal/track"
)

// StopReason indicates why a watched run terminated.
type StopReason int

const (
	StopCompleted        StopReason = iota // process exited on its own
	StopEarlyStopped                       // metric stopped improving; we killed the process
	StopWallClock                          // total --timeout wall-clock exceeded
	StopContextCancelled                   // context cancelled (e.g. SIGINT)
)

// String returns a human-readable label for the stop reason.
func (r StopReason) String() string {
	switch r {
	case StopCompleted:
		return "completed"
	case StopEarlyStopped:
		return "early-stopped"
	case StopWallClock:
		return "wall-clock-timeout"
	case StopContextCancelled:
		return "context-cancelled"
	default:
		return "unknown"
	}
}

// ExitCode returns a distinct process exit code for each stop reason.
func (r StopReason) ExitCode() int {
	switch r {
	case StopCompleted:
		return 0
	case StopEarlyStopped:
		return 2
	case StopWallClock:
		return 4
	case StopContextCancelled:
		return 5
	default:
		return 1
	}
}

// DefaultWallClockTimeout is the default total wall-clock timeout for a
// watched run.
const DefaultWallClockTimeout = 2 * time.Hour

// Config configures a watched training run.
type Config struct {
	Command string
	Args    []string
	WorkDir string

	// Metric is the name of the score to extract from output lines.
	Metric string
	// Pattern overrides the default text pattern; see NewExtractor.
	Pattern string

	// Early-stopping policy applied to extracted scores.
	Mode     track.Mode
	Patience int
	MinDelta float64

	// Timeout is the total wall-clock timeout for the run.
	// Zero means use DefaultWallClockTimeout (2h).
	Timeout time.Duration

	Output    io.Writer          // defaults to os.Stdout
	Emitter   progress.Emitter   // optional live event sink
	Telemetry *telemetry.Exporter // nil disables span export
	Clock     clock.Clock        // defaults to the system clock

	// Launch is a test hook — nil means run the command in a PTY.
	Launch Launcher
}

// Summary holds aggregate results for a watched run.
type Summary struct {
	Updates      int
	Improvements int
	BestScore    float64
	HasBest      bool
	ExitCode     int // the watched process's own exit code
	StopReason   StopReason
	Duration     time.Duration
}

// Run executes the configured command and applies the early-stopping
// policy to every metric value it prints. It blocks until the process
// exits, is early-stopped, or the wall-clock budget runs out.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required")
	}
	stopper, err := track.NewEarlyStopping(cfg.Patience, cfg.Mode, cfg.MinDelta)
	if err != nil {
		return nil, fmt.Errorf("invalid early-stopping config: %w", err)
	}
	extractor, err := NewExtractor(cfg.Metric, cfg.Pattern)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultWallClockTimeout
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.System()
	}
	launch := cfg.Launch
	if launch == nil {
		launch = PTYLaunch
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = cfg.WorkDir
	proc, err := launch(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to launch training command: %w", err)
	}

	// Kill the process when the wall clock expires or ctx is cancelled;
	// that also unblocks the output scanner below.
	watchdogDone := make(chan struct{})
	defer close(watchdogDone)
	go func() {
		select {
		case <-ctx.Done():
			proc.Stop()
		case <-watchdogDone:
		}
	}()

	cfg.Telemetry.StartRun(ctx, cfg.Command, cfg.Metric)

	sw := stopwatch.New(stopwatch.WithClock(clk))
	sw.Run()

	summary := &Summary{StopReason: StopCompleted}
	scanner := bufio.NewScanner(proc.Output())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		score, ok := extractor.Extract(scanner.Text())
		if !ok {
			continue
		}
		stopper.Update(score)
		summary.Updates++

		improved := stopper.BadStreak() == 0
		if improved {
			summary.Improvements++
		}
		outcome := track.OutcomeNeutral
		switch {
		case improved:
			outcome = track.OutcomeSuccess
		case stopper.ShouldStop():
			outcome = track.OutcomeFail
		}
		best, _ := stopper.BestScore()
		ev := progress.Event{
			Metric:    cfg.Metric,
			Score:     score,
			Best:      best,
			BadStreak: stopper.BadStreak(),
			Patience:  cfg.Patience,
			Outcome:   outcome,
			Elapsed:   sw.Elapsed(),
			Timestamp: clk.Now(),
		}
		if cfg.Emitter != nil {
			cfg.Emitter.Emit(ev)
		}
		cfg.Telemetry.RecordUpdate(ev)
		fmt.Fprintln(out, formatUpdateLog(ev))

		if stopper.ShouldStop() {
			summary.StopReason = StopEarlyStopped
			proc.Stop()
			break
		}
	}
	// PTY reads fail with EIO once the child exits; anything else (e.g. a
	// line over the scanner's buffer) is surfaced rather than swallowed.
	if err := scanner.Err(); err != nil && !errors.Is(err, syscall.EIO) {
		fmt.Fprintf(out, "warning: stopped reading output: %v\n", err)
	}

	summary.ExitCode = proc.Wait()
	sw.Pause()
	summary.Duration = sw.Elapsed()

	if summary.StopReason == StopCompleted {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			summary.StopReason = StopWallClock
		case context.Canceled:
			summary.StopReason = StopContextCancelled
		}
	}
	summary.BestScore, summary.HasBest = stopper.BestScore()

	cfg.Telemetry.EndRun(summary.StopReason.String())
	fmt.Fprintln(out, formatSummary(cfg.Metric, summary))
	return summary, nil
}

// formatUpdateLog formats a per-update log line.
func formatUpdateLog(ev progress.Event) string {
	marker := "·"
	switch ev.Outcome {
	case track.OutcomeSuccess:
		marker = "↑"
	case track.OutcomeFail:
		marker = "✗"
	}
	return fmt.Sprintf("%s %s=%g best=%g streak=%d/%d (%s)",
		marker, ev.Metric, ev.Score, ev.Best, ev.BadStreak, ev.Patience,
		stopwatch.FormatDuration(ev.Elapsed))
}

// formatSummary formats the end-of-run summary.
func formatSummary(metric string, s *Summary) string {
	lines := []string{"Watch complete:"}
	lines = append(lines, fmt.Sprintf("  ↑ %d improvement(s) across %d update(s)", s.Improvements, s.Updates))
	if s.HasBest {
		lines = append(lines, fmt.Sprintf("  Best %s: %g", metric, s.BestScore))
	} else {
		lines = append(lines, fmt.Sprintf("  No %s values observed", metric))
	}
	lines = append(lines, fmt.Sprintf("  Stop: %s", s.StopReason))
	lines = append(lines, fmt.Sprintf("  Duration: %s", stopwatch.FormatDuration(s.Duration)))
	return strings.Join(lines, "\n")
}
