package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/clhenry/dust-bin/dustbin"
	"github.com/clhenry/dust-bin/dustbin/pulse"
	"github.com/clhenry/dust-bin/dustbin/stimulus"
	"github.com/clhenry/dust-bin/dustbin/term"
	"github.com/clhenry/dust-bin/dustbin/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "dustbin"
	app.Description = "Cycle-accurate model of a dust-sensor ADC front end"
	app.Usage = "dustbin [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "clock-hz",
			Usage: "Sampling clock frequency in Hz",
			Value: 12_000_000,
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "Sample word width in bits (1-32)",
			Value: 16,
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "Sample queue capacity in words",
			Value: 8,
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without the terminal viewer",
		},
		cli.IntFlag{
			Name:  "ticks",
			Usage: "Number of clock ticks to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "low-ticks",
			Usage: "Asserted duration of the generated data-ready pulse (0 = exact threshold)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "period",
			Usage: "Period of the generated pulse train in ticks (0 = 8x threshold)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "jitter",
			Usage: "Comma-separated per-cycle offsets added to the low duration",
		},
		cli.StringFlag{
			Name:  "pattern",
			Usage: "Explicit line waveform as a string of 0s and 1s (overrides the pulse train)",
		},
		cli.IntFlag{
			Name:  "drain-every",
			Usage: "Dequeue one word every N ticks (0 = never drain)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save trace snapshots every N ticks in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save trace snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "refresh-hz",
			Usage: "Viewer refresh rate",
			Value: 30,
		},
		cli.IntFlag{
			Name:  "ticks-per-refresh",
			Usage: "Clock ticks advanced between viewer refreshes",
			Value: 64,
		},
	}
	app.Action = runBench

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running simulation", "error", err)
		os.Exit(1)
	}
}

func runBench(c *cli.Context) error {
	clockHz := c.Int("clock-hz")
	if clockHz <= 0 {
		return errors.New("clock-hz must be positive")
	}
	threshold := int(pulse.ThresholdFor(uint(clockHz)))

	line, err := lineSource(c, threshold)
	if err != nil {
		return err
	}

	cfg := dustbin.Config{
		ClockHz:    uint(clockHz),
		Width:      uint(c.Int("width")),
		Depth:      c.Int("depth"),
		DrainEvery: c.Int("drain-every"),
	}
	bench, err := dustbin.New(cfg, line, stimulus.NewCounter(1))
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(c, bench)
	}

	return term.NewViewer(bench, c.Int("refresh-hz"), c.Int("ticks-per-refresh")).Run()
}

// lineSource builds the data-ready waveform: an explicit pattern when
// given, otherwise a pulse train defaulting to threshold-long pulses.
func lineSource(c *cli.Context, threshold int) (stimulus.LineSource, error) {
	if pattern := c.String("pattern"); pattern != "" {
		return stimulus.NewPattern(pattern)
	}

	lowTicks := c.Int("low-ticks")
	if lowTicks == 0 {
		lowTicks = threshold
	}
	period := c.Int("period")
	if period == 0 {
		period = 8 * threshold
	}
	train, err := stimulus.NewPulseTrain(lowTicks, period)
	if err != nil {
		return nil, err
	}
	if jitter := c.String("jitter"); jitter != "" {
		offsets, err := parseJitter(jitter)
		if err != nil {
			return nil, err
		}
		train.Jitter = offsets
	}
	return train, nil
}

func parseJitter(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	offsets := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid jitter entry %q", part)
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}

func runHeadless(c *cli.Context, bench *dustbin.Bench) error {
	ticks := c.Int("ticks")
	if ticks <= 0 {
		return errors.New("headless mode requires --ticks option with a positive value")
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")

	if snapshotInterval > 0 {
		if snapshotDir == "" {
			tempDir, err := os.MkdirTemp("", "dustbin-snapshots-*")
			if err != nil {
				return errors.Wrap(err, "failed to create snapshot directory")
			}
			snapshotDir = tempDir
		} else {
			if err := os.MkdirAll(snapshotDir, 0755); err != nil {
				return errors.Wrap(err, "failed to create snapshot directory")
			}
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"ticks", ticks,
		"threshold", bench.Validator().Threshold(),
		"snapshot_interval", snapshotInterval,
		"snapshot_dir", snapshotDir)

	// headless runs are never throttled
	limiter := timing.NewNoOpLimiter()

	chunk := ticks
	if snapshotInterval > 0 && snapshotInterval < ticks {
		chunk = snapshotInterval
	}
	for ran := 0; ran < ticks; {
		n := chunk
		if ticks-ran < n {
			n = ticks - ran
		}
		bench.Run(uint64(n))
		ran += n

		if snapshotInterval > 0 {
			path := filepath.Join(snapshotDir, fmt.Sprintf("dustbin_tick_%d.txt", bench.Ticks()))
			if err := bench.Recorder().WriteSnapshot(path, bench.Ticks()); err != nil {
				slog.Error("Failed to save snapshot", "tick", bench.Ticks(), "path", path, "error", err)
			} else {
				slog.Info("Saved trace snapshot", "tick", bench.Ticks(), "path", path)
			}
		}
		limiter.WaitForNextRefresh()
	}

	slog.Info("Headless execution completed",
		"ticks", bench.Ticks(),
		"confirmed", bench.Confirmed(),
		"enqueued", bench.Enqueued(),
		"dropped", bench.Dropped(),
		"dequeued", bench.Dequeued())
	return nil
}
