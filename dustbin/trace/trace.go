// Package trace records the per-tick signal activity of a simulation
// run and renders it as text waveforms, both for live viewing and for
// snapshot files written during headless runs.
package trace

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/clhenry/dust-bin/dustbin/fifo"
)

// Sample captures the observable signals of one clock tick.
type Sample struct {
	Tick       uint64
	DataReadyN bool
	Confirm    bool
	Enqueue    bool
	Dequeue    bool
	Front      fifo.Word
	Full       bool
	Empty      bool
}

// Recorder retains a bounded window of the most recent samples.
type Recorder struct {
	samples []Sample
	next    int
	filled  bool
}

// NewRecorder builds a recorder keeping the last window samples.
func NewRecorder(window int) *Recorder {
	if window < 1 {
		window = 1
	}
	return &Recorder{samples: make([]Sample, window)}
}

// Record appends one tick's sample, evicting the oldest when the
// window is full.
func (r *Recorder) Record(s Sample) {
	r.samples[r.next] = s
	r.next++
	if r.next == len(r.samples) {
		r.next = 0
		r.filled = true
	}
}

// Window returns the retained samples, oldest first.
func (r *Recorder) Window() []Sample {
	if !r.filled {
		out := make([]Sample, r.next)
		copy(out, r.samples[:r.next])
		return out
	}
	out := make([]Sample, 0, len(r.samples))
	out = append(out, r.samples[r.next:]...)
	out = append(out, r.samples[:r.next]...)
	return out
}

// Reset discards all retained samples.
func (r *Recorder) Reset() {
	r.next = 0
	r.filled = false
}

const (
	highRune = '▔'
	lowRune  = '▁'

	laneNameWidth = 8
)

var lanes = []struct {
	name  string
	level func(Sample) bool
}{
	{"drdy_n", func(s Sample) bool { return s.DataReadyN }},
	{"confirm", func(s Sample) bool { return s.Confirm }},
	{"enq", func(s Sample) bool { return s.Enqueue }},
	{"deq", func(s Sample) bool { return s.Dequeue }},
	{"full", func(s Sample) bool { return s.Full }},
	{"empty", func(s Sample) bool { return s.Empty }},
}

// LaneCount is the number of waveform lanes Lanes renders.
func LaneCount() int {
	return len(lanes)
}

// Lanes renders samples as one line per signal, oldest tick leftmost.
func Lanes(samples []Sample) []string {
	out := make([]string, len(lanes))
	var b strings.Builder
	for i, lane := range lanes {
		b.Reset()
		fmt.Fprintf(&b, "%-*s ", laneNameWidth, lane.name)
		for _, s := range samples {
			if lane.level(s) {
				b.WriteRune(highRune)
			} else {
				b.WriteRune(lowRune)
			}
		}
		out[i] = b.String()
	}
	return out
}

// WriteSnapshot dumps the retained window to path as a text waveform
// table. tick is the bench tick count at the time of the dump, written
// into the header.
func (r *Recorder) WriteSnapshot(path string, tick uint64) error {
	samples := r.Window()

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "trace: create snapshot")
	}
	defer file.Close()

	fmt.Fprintf(file, "# dustbin signal trace\n")
	fmt.Fprintf(file, "# Tick: %d, window: %d samples\n", tick, len(samples))
	fmt.Fprintf(file, "# Legend: %c=high %c=low\n", highRune, lowRune)
	fmt.Fprintf(file, "#\n")
	for _, line := range Lanes(samples) {
		fmt.Fprintln(file, line)
	}
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		fmt.Fprintf(file, "#\n# front=0x%08X full=%t empty=%t\n", uint32(last.Front), last.Full, last.Empty)
	}
	return nil
}
