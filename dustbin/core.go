// Package dustbin models the sampling front end of a dust-sensor
// board, cycle by cycle: the data-ready pulse validator and the
// synchronous sample queue behind it. The two circuits are
// independent; the Bench in this package is software test tooling
// that drives them from stimulus sources and records their signals.
package dustbin

import (
	"github.com/clhenry/dust-bin/dustbin/bit"
	"github.com/clhenry/dust-bin/dustbin/fifo"
	"github.com/clhenry/dust-bin/dustbin/pulse"
	"github.com/clhenry/dust-bin/dustbin/stimulus"
	"github.com/clhenry/dust-bin/dustbin/trace"
)

const defaultTraceWindow = 512

// Config fixes the bench parameters at construction.
type Config struct {
	ClockHz     uint // sampling clock driving both circuits
	Width       uint // sample word width in bits
	Depth       int  // queue capacity in words
	DrainEvery  int  // dequeue once every N ticks, 0 disables draining
	TraceWindow int  // retained trace samples, 0 for the default
}

// Bench wires one validator and one queue to stimulus sources and a
// trace recorder. Each Tick advances the whole arrangement one clock:
// the sampled line level feeds the validator, a confirmed pulse
// enqueues the current sample word, and the drain schedule issues
// dequeues.
type Bench struct {
	cfg Config

	validator *pulse.Validator
	queue     *fifo.Queue
	line      stimulus.LineSource
	words     stimulus.WordSource
	recorder  *trace.Recorder

	tick      uint64
	confirmed uint64
	enqueued  uint64
	dropped   uint64
	dequeued  uint64
}

// New builds a bench from a config and its two stimulus sources.
func New(cfg Config, line stimulus.LineSource, words stimulus.WordSource) (*Bench, error) {
	validator, err := pulse.New(cfg.ClockHz)
	if err != nil {
		return nil, err
	}
	queue, err := fifo.New(cfg.Width, cfg.Depth)
	if err != nil {
		return nil, err
	}
	window := cfg.TraceWindow
	if window <= 0 {
		window = defaultTraceWindow
	}
	return &Bench{
		cfg:       cfg,
		validator: validator,
		queue:     queue,
		line:      line,
		words:     words,
		recorder:  trace.NewRecorder(window),
	}, nil
}

// Tick advances the bench one clock cycle.
func (b *Bench) Tick() {
	level := b.line.Next()
	confirm := b.validator.Step(level)

	enq := confirm
	deq := b.cfg.DrainEvery > 0 && b.tick%uint64(b.cfg.DrainEvery) == uint64(b.cfg.DrainEvery-1)

	var back fifo.Word
	if enq {
		back = fifo.Word(bit.Truncate(uint32(b.words.Next()), b.cfg.Width))
	}

	// flags observed here are the committed, pre-request state
	front, full, empty := b.queue.Step(enq, deq, back)

	if confirm {
		b.confirmed++
		// a write only lands when the queue is not full, except that a
		// same-tick dequeue frees the slot first
		if full && !deq {
			b.dropped++
		} else {
			b.enqueued++
		}
	}
	if deq && !empty {
		b.dequeued++
	}

	b.recorder.Record(trace.Sample{
		Tick:       b.tick,
		DataReadyN: level,
		Confirm:    confirm,
		Enqueue:    enq,
		Dequeue:    deq,
		Front:      front,
		Full:       full,
		Empty:      empty,
	})
	b.tick++
}

// Run advances the bench n ticks.
func (b *Bench) Run(n uint64) {
	for i := uint64(0); i < n; i++ {
		b.Tick()
	}
}

// Reset returns the circuits, sources, recorder and counters to their
// power-on state.
func (b *Bench) Reset() {
	b.validator.Reset()
	b.queue.Reset()
	b.line.Reset()
	b.words.Reset()
	b.recorder.Reset()
	b.tick = 0
	b.confirmed = 0
	b.enqueued = 0
	b.dropped = 0
	b.dequeued = 0
}

// Configuration returns the construction-time parameters.
func (b *Bench) Configuration() Config {
	return b.cfg
}

// Validator returns the pulse validator under test.
func (b *Bench) Validator() *pulse.Validator {
	return b.validator
}

// Queue returns the sample queue under test.
func (b *Bench) Queue() *fifo.Queue {
	return b.queue
}

// Recorder returns the trace recorder.
func (b *Bench) Recorder() *trace.Recorder {
	return b.recorder
}

// Ticks returns the number of clock cycles run since reset.
func (b *Bench) Ticks() uint64 { return b.tick }

// Confirmed returns the count of validated data-ready pulses.
func (b *Bench) Confirmed() uint64 { return b.confirmed }

// Enqueued returns the count of sample words accepted by the queue.
func (b *Bench) Enqueued() uint64 { return b.enqueued }

// Dropped returns the count of sample words lost to a full queue.
func (b *Bench) Dropped() uint64 { return b.dropped }

// Dequeued returns the count of words drained from the queue.
func (b *Bench) Dequeued() uint64 { return b.dequeued }
