// Package term renders a running bench in the terminal using tcell:
// the recent trace window as scrolling signal lanes plus a status row.
package term

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/clhenry/dust-bin/dustbin"
	"github.com/clhenry/dust-bin/dustbin/bit"
	"github.com/clhenry/dust-bin/dustbin/timing"
	"github.com/clhenry/dust-bin/dustbin/trace"
)

const (
	laneNameWidth = 8
	minTermWidth  = 40
)

// Viewer steps a bench in batches and draws its trace after each batch.
type Viewer struct {
	bench           *dustbin.Bench
	limiter         timing.Limiter
	ticksPerRefresh int

	screen  tcell.Screen
	running atomic.Bool
	paused  bool
}

// NewViewer builds a viewer refreshing at refreshHz and advancing the
// bench ticksPerRefresh clock cycles between refreshes.
func NewViewer(bench *dustbin.Bench, refreshHz, ticksPerRefresh int) *Viewer {
	if ticksPerRefresh < 1 {
		ticksPerRefresh = 1
	}
	return &Viewer{
		bench:           bench,
		limiter:         timing.NewTickerLimiter(refreshHz),
		ticksPerRefresh: ticksPerRefresh,
	}
}

// SetLimiter replaces the refresh limiter, stopping the previous one
// when it owns a ticker. Unthrottled runs pass the no-op limiter.
func (v *Viewer) SetLimiter(l timing.Limiter) {
	if s, ok := v.limiter.(*timing.TickerLimiter); ok {
		s.Stop()
	}
	v.limiter = l
}

// Run owns the terminal until the user quits or a signal arrives.
func (v *Viewer) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	v.screen = screen
	v.running.Store(true)

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	if s, ok := v.limiter.(*timing.TickerLimiter); ok {
		defer s.Stop()
	}
	defer screen.Fini()

	go v.handleSignals()

	for v.running.Load() {
		v.pollEvents()
		if !v.paused {
			for i := 0; i < v.ticksPerRefresh; i++ {
				v.bench.Tick()
			}
		}
		v.draw()
		v.screen.Show()
		v.limiter.WaitForNextRefresh()
	}
	return nil
}

// stop requests the run loop to exit; safe from any goroutine.
func (v *Viewer) stop() {
	v.running.Store(false)
}

func (v *Viewer) pollEvents() {
	for v.screen.HasPendingEvent() {
		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				v.stop()
			case ev.Rune() == ' ':
				v.paused = !v.paused
				if !v.paused {
					v.limiter.Reset()
				}
			case ev.Rune() == 'r':
				v.bench.Reset()
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

func (v *Viewer) draw() {
	v.screen.Clear()
	width, _ := v.screen.Size()
	if width < minTermWidth {
		width = minTermWidth
	}

	samples := v.bench.Recorder().Window()
	visible := width - laneNameWidth - 1
	if visible > 0 && len(samples) > visible {
		samples = samples[len(samples)-visible:]
	}

	style := tcell.StyleDefault
	state := "running"
	if v.paused {
		state = "paused"
	}
	status := fmt.Sprintf("tick %d  confirmed %d  enqueued %d  dropped %d  dequeued %d  [%s]",
		v.bench.Ticks(), v.bench.Confirmed(), v.bench.Enqueued(), v.bench.Dropped(), v.bench.Dequeued(), state)
	v.drawText(0, 0, style.Bold(true), status)

	for i, line := range trace.Lanes(samples) {
		v.drawText(0, i+2, style, line)
	}

	row := trace.LaneCount() + 3
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		v.drawText(0, row, style, frontLine(last, v.bench.Configuration().Width))
		row++
	}
	v.drawText(0, row+1, style.Dim(true), "[space] pause  [r] reset  [q] quit")
}

// frontLine formats the committed front word as hex plus its bit
// pattern, widest bit first.
func frontLine(s trace.Sample, width uint) string {
	bits := make([]byte, 0, width)
	for i := int(width) - 1; i >= 0; i-- {
		if bit.IsSet(uint(i), uint32(s.Front)) {
			bits = append(bits, '1')
		} else {
			bits = append(bits, '0')
		}
	}
	return fmt.Sprintf("%-*s 0x%08X %s", laneNameWidth, "front", uint32(s.Front), bits)
}

func (v *Viewer) drawText(x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		v.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func (v *Viewer) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	<-signals
	v.stop()
}
