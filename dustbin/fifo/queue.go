// Package fifo models the synchronous sample queue of the sampling
// front end: a fixed-capacity shift-register FIFO with explicit full
// and empty flags, accepting one write and one read request per clock
// tick.
package fifo

import (
	"github.com/pkg/errors"

	"github.com/clhenry/dust-bin/dustbin/bit"
)

// Word is one queue entry. Values are truncated to the configured
// width when written.
type Word uint32

// MaxWidth is the widest word the queue can store.
const MaxWidth = 32

// Queue is a word-oriented FIFO where slot 0 always holds the oldest
// word. A dequeue shifts every slot down one position; an enqueue
// writes at the write index. Overflow and underflow are silent no-ops:
// callers are expected to poll the full/empty flags, there is no error
// surface.
type Queue struct {
	width uint
	depth int

	slots      []Word
	writeIndex int
	full       bool
	empty      bool
}

// New builds a queue holding depth words of the given bit width.
func New(width uint, depth int) (*Queue, error) {
	if width == 0 || width > MaxWidth {
		return nil, errors.Errorf("fifo: width %d out of range 1..%d", width, MaxWidth)
	}
	if depth < 1 {
		return nil, errors.Errorf("fifo: depth %d must be at least 1", depth)
	}
	q := &Queue{
		width: width,
		depth: depth,
		slots: make([]Word, depth),
	}
	q.Reset()
	return q, nil
}

// Width returns the word width in bits.
func (q *Queue) Width() uint {
	return q.width
}

// Depth returns the capacity in words.
func (q *Queue) Depth() int {
	return q.depth
}

// Step applies one clock tick worth of requests. The returned front
// word and flags are the committed state from before this tick; the
// request's effect becomes visible on the next call. front is
// meaningful only while empty is false.
//
// The dequeue phase is evaluated strictly before the enqueue phase.
// Under a simultaneous enqueue and dequeue the write therefore lands
// in the already-shifted array, at the pre-shift write index, with the
// flag gates reading the post-dequeue values. Reordering the phases
// changes the observable outcome of combined requests.
func (q *Queue) Step(enqueue, dequeue bool, back Word) (front Word, full, empty bool) {
	front = q.slots[0]
	full = q.full
	empty = q.empty

	// flag and index values committed before this tick
	wasEmpty := q.empty
	wasIndex := q.writeIndex

	if dequeue {
		if q.full {
			q.full = false
		}
		if !wasEmpty {
			copy(q.slots, q.slots[1:])
			q.slots[q.depth-1] = 0
			if wasIndex == 0 {
				q.empty = true
			} else {
				q.writeIndex--
			}
		}
	}

	if enqueue {
		if !q.full {
			q.empty = false
			q.slots[wasIndex] = back & Word(bit.Mask(q.width))
			if wasIndex == q.depth-1 {
				q.full = true
			} else {
				q.writeIndex++
			}
		}
	}

	return front, full, empty
}

// Reset restores the power-on state: all slots zero, write index zero,
// empty set, full clear.
func (q *Queue) Reset() {
	for i := range q.slots {
		q.slots[i] = 0
	}
	q.writeIndex = 0
	q.full = false
	q.empty = true
}
