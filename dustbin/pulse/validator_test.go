package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepLow drives the line low for n ticks, checking that no
// confirmation fires while the pulse is still asserted.
func stepLow(t *testing.T, v *Validator, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.False(t, v.Step(false), "no confirmation while line held low (tick %d)", i)
	}
}

func TestThresholdDerivation(t *testing.T) {
	tests := []struct {
		clockHz   uint
		threshold uint32
	}{
		{12_000_000, 188},
		{8_000_000, 125},
		{4_194_304, 66},
		{1_000_000, 16},
		{640_000, 10},
		{64_000, 1},
	}

	for _, tt := range tests {
		v, err := New(tt.clockHz)
		require.NoError(t, err)
		assert.Equal(t, tt.threshold, v.Threshold(), "threshold at %d Hz", tt.clockHz)
	}
}

func TestNewRejectsZeroClock(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}

func TestExactPulseConfirmed(t *testing.T) {
	v, err := New(12_000_000)
	require.NoError(t, err)
	require.Equal(t, uint32(188), v.Threshold())

	// some idle time before the ADC asserts
	for i := 0; i < 5; i++ {
		assert.False(t, v.Step(true), "idle line must not confirm")
	}

	stepLow(t, v, 188)
	assert.True(t, v.Step(true), "exact-duration pulse confirms on release")
	assert.True(t, v.Out())

	// the confirmation is a single-cycle strobe
	assert.False(t, v.Step(true))
	assert.False(t, v.Out())
}

func TestOffDurationPulsesRejected(t *testing.T) {
	tests := []struct {
		name     string
		lowTicks int
	}{
		{"one short", 187},
		{"one long", 189},
		{"single tick", 1},
		{"far too long", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(12_000_000)
			require.NoError(t, err)

			stepLow(t, v, tt.lowTicks)
			assert.False(t, v.Step(true), "%d-tick pulse must be discarded", tt.lowTicks)

			// the machine resumes watching with no lingering state
			stepLow(t, v, 188)
			assert.True(t, v.Step(true), "next exact pulse confirms after a discard")
		})
	}
}

func TestBackToBackPulses(t *testing.T) {
	v, err := New(640_000)
	require.NoError(t, err)
	threshold := int(v.Threshold())

	for i := 0; i < 3; i++ {
		stepLow(t, v, threshold)
		assert.True(t, v.Step(true), "pulse %d confirms with a single idle tick between pulses", i)
	}
}

func TestOutputNeverHighTwoConsecutiveTicks(t *testing.T) {
	v, err := New(640_000)
	require.NoError(t, err)
	threshold := int(v.Threshold())

	// valid pulses, runt pulses, long pulses, idle stretches
	var inputs []bool
	addPulse := func(low, idle int) {
		for i := 0; i < low; i++ {
			inputs = append(inputs, false)
		}
		for i := 0; i < idle; i++ {
			inputs = append(inputs, true)
		}
	}
	addPulse(threshold, 1)
	addPulse(threshold, 3)
	addPulse(1, 1)
	addPulse(threshold-1, 2)
	addPulse(threshold+5, 1)
	addPulse(threshold, 4)

	confirms := 0
	prev := false
	for i, level := range inputs {
		out := v.Step(level)
		assert.False(t, prev && out, "output high on consecutive ticks %d and %d", i-1, i)
		if out {
			confirms++
		}
		prev = out
	}
	assert.Equal(t, 3, confirms, "only the exact-duration pulses confirm")
}

func TestResetIdempotent(t *testing.T) {
	v, err := New(640_000)
	require.NoError(t, err)
	threshold := int(v.Threshold())

	// reset mid-pulse discards the partial measurement
	stepLow(t, v, threshold/2)
	v.Reset()
	assert.False(t, v.Out())

	stepLow(t, v, threshold)
	assert.True(t, v.Step(true), "full pulse confirms after a mid-pulse reset")

	// reset right after a confirmation clears the output register
	stepLow(t, v, threshold)
	require.True(t, v.Step(true))
	v.Reset()
	assert.False(t, v.Out())

	// double reset behaves like a single one
	v.Reset()
	stepLow(t, v, threshold)
	assert.True(t, v.Step(true))
}
