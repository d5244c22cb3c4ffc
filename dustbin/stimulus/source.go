// Package stimulus provides deterministic signal and sample sources
// for driving the simulation bench: a periodic data-ready pulse train,
// a pattern source replaying a hand-written waveform, and a counting
// sample-word generator.
package stimulus

import (
	"github.com/pkg/errors"

	"github.com/clhenry/dust-bin/dustbin/fifo"
)

// LineSource produces the sampled level of the monitored data-ready
// line, one level per tick. True is the idle (high) level.
type LineSource interface {
	Next() bool
	Reset()
}

// WordSource produces sample words for the queue's write port.
type WordSource interface {
	Next() fifo.Word
	Reset()
}

// PulseTrain drives a periodic active-low pulse: low for LowTicks at
// the start of every Period, high for the remainder. When Jitter is
// non-empty its entries are added to LowTicks cycle by cycle
// (wrapping), stretching or shrinking individual pulses so that runs
// can exercise the invalid-duration path.
type PulseTrain struct {
	LowTicks int
	Period   int
	Jitter   []int

	pos   int // tick position within the current period
	cycle int // completed periods, selects the jitter entry
}

// NewPulseTrain builds a train of lowTicks-long pulses repeating every
// period ticks.
func NewPulseTrain(lowTicks, period int) (*PulseTrain, error) {
	if lowTicks < 1 || period <= lowTicks {
		return nil, errors.Errorf("stimulus: pulse train needs 1 <= low ticks (%d) < period (%d)", lowTicks, period)
	}
	return &PulseTrain{LowTicks: lowTicks, Period: period}, nil
}

func (p *PulseTrain) low() int {
	low := p.LowTicks
	if len(p.Jitter) > 0 {
		low += p.Jitter[p.cycle%len(p.Jitter)]
	}
	if low < 1 {
		low = 1
	}
	if low >= p.Period {
		low = p.Period - 1
	}
	return low
}

// Next returns the line level for the next tick.
func (p *PulseTrain) Next() bool {
	level := p.pos >= p.low()
	p.pos++
	if p.pos == p.Period {
		p.pos = 0
		p.cycle++
	}
	return level
}

// Reset rewinds the train to the start of its first period.
func (p *PulseTrain) Reset() {
	p.pos = 0
	p.cycle = 0
}

// Pattern replays a waveform written as a string of '0' (line driven
// low) and '1' (idle) runes, cycling once exhausted.
type Pattern struct {
	levels []bool
	pos    int
}

// NewPattern parses a waveform string.
func NewPattern(s string) (*Pattern, error) {
	if len(s) == 0 {
		return nil, errors.New("stimulus: empty pattern")
	}
	levels := make([]bool, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			levels = append(levels, false)
		case '1':
			levels = append(levels, true)
		default:
			return nil, errors.Errorf("stimulus: pattern rune %q at offset %d, want '0' or '1'", r, i)
		}
	}
	return &Pattern{levels: levels}, nil
}

// Next returns the line level for the next tick.
func (p *Pattern) Next() bool {
	level := p.levels[p.pos]
	p.pos = (p.pos + 1) % len(p.levels)
	return level
}

// Reset rewinds the pattern to its first rune.
func (p *Pattern) Reset() {
	p.pos = 0
}

// Counter yields distinct sample words by counting up from a seed.
type Counter struct {
	seed fifo.Word
	next fifo.Word
}

// NewCounter builds a word source starting at seed.
func NewCounter(seed fifo.Word) *Counter {
	return &Counter{seed: seed, next: seed}
}

// Next returns the next sample word.
func (c *Counter) Next() fifo.Word {
	w := c.next
	c.next++
	return w
}

// Reset rewinds the counter to its seed.
func (c *Counter) Reset() {
	c.next = c.seed
}
