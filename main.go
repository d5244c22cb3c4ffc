package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/clhenry/dust-bin/dustbin"
	"github.com/clhenry/dust-bin/dustbin/pulse"
	"github.com/clhenry/dust-bin/dustbin/stimulus"
	"github.com/clhenry/dust-bin/dustbin/term"
)

// Thin entry point running the live viewer with defaults; the full set
// of options lives in cmd/dustbin.
func main() {
	app := cli.NewApp()

	app.Name = "dustbin"
	app.Description = "Cycle-accurate model of a dust-sensor ADC front end"
	app.Action = runViewer

	app.Run(os.Args)
}

func runViewer(c *cli.Context) error {
	cfg := dustbin.Config{
		ClockHz:    12_000_000,
		Width:      16,
		Depth:      8,
		DrainEvery: 4096,
	}
	threshold := int(pulse.ThresholdFor(cfg.ClockHz))

	line, err := stimulus.NewPulseTrain(threshold, 8*threshold)
	if err != nil {
		return err
	}

	bench, err := dustbin.New(cfg, line, stimulus.NewCounter(1))
	if err != nil {
		return err
	}

	return term.NewViewer(bench, 30, 64).Run()
}
