// Package pulse models the data-ready validation circuit of the
// sampling front end. The external ADC signals a finished conversion
// by driving its data-ready line low for a fixed duration; the
// Validator measures that duration in clock cycles and confirms the
// pulse only when it matches the expected length exactly.
package pulse

import (
	"github.com/pkg/errors"
)

// ExpectedLowNanos is the nominal time the ADC holds the data-ready
// line low for one conversion: 15.625 µs.
const ExpectedLowNanos = 15_625

const nanosPerSecond = 1_000_000_000

// ThresholdFor returns the expected pulse duration in clock cycles at
// the given clock frequency, rounded up.
func ThresholdFor(clockHz uint) uint32 {
	return uint32((ExpectedLowNanos*uint64(clockHz) + nanosPerSecond - 1) / nanosPerSecond)
}

type state uint8

const (
	awaitingAssertion state = iota
	awaitingDeassertion
)

// Validator is a two-state synchronous machine watching the active-low
// data-ready line. It idles until the line drops, counts asserted
// cycles, and on release drives its output high for a single cycle
// when the count matches the derived threshold. Off-duration pulses
// are discarded silently; the machine carries no error state and goes
// straight back to watching for the next assertion.
type Validator struct {
	clockHz   uint
	threshold uint32

	state state
	count uint32
	out   bool
}

// New builds a validator for a sampling clock of the given frequency.
func New(clockHz uint) (*Validator, error) {
	if clockHz == 0 {
		return nil, errors.New("pulse: clock frequency must be positive")
	}
	v := &Validator{
		clockHz:   clockHz,
		threshold: ThresholdFor(clockHz),
	}
	v.Reset()
	return v, nil
}

// Threshold returns the expected pulse duration in clock cycles.
func (v *Validator) Threshold() uint32 {
	return v.threshold
}

// Step advances the machine one clock tick. dataReadyN is the sampled
// level of the monitored line: true while idle (high), false while the
// ADC drives it low. The returned value is the registered confirmation
// output, high for exactly one tick when a pulse of the expected
// duration releases.
func (v *Validator) Step(dataReadyN bool) bool {
	out := false
	count := v.count + 1

	switch v.state {
	case awaitingAssertion:
		if !dataReadyN {
			// Line dropped: start timing. The count keeps the
			// incremented value rather than restarting at zero.
			v.state = awaitingDeassertion
		} else {
			count = 0
		}
	case awaitingDeassertion:
		if dataReadyN {
			// Line released: exact-match check on the committed count.
			// No upper bound is enforced while the line stays low; an
			// overlong pulse simply fails this comparison.
			out = v.count == v.threshold
			count = 0
			v.state = awaitingAssertion
		}
	}

	v.count = count
	v.out = out
	return out
}

// Out returns the registered confirmation output as of the last Step.
func (v *Validator) Out() bool {
	return v.out
}

// Reset forces the machine back to its power-on state: awaiting
// assertion, count zero, output low.
func (v *Validator) Reset() {
	v.state = awaitingAssertion
	v.count = 0
	v.out = false
}
