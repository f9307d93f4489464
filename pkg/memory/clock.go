package memory

import (
	"sync"

	"pagestore/pkg/primitives"
)

// ClockReplacer picks eviction victims among unpinned frames using the
// CLOCK (second-chance) policy. Each frame has two bits: whether it is
// currently a candidate, and a reference bit that buys it one reprieve. A
// rotating hand scans the frames; the first candidate without its reference
// bit becomes the victim, and candidates passed over lose their bit.
//
// Victim selection is deterministic given the pre-call hand position and
// bit state: if a full revolution finds only referenced candidates, the
// first one encountered is evicted (its reference bit was cleared during
// the scan).
type ClockReplacer struct {
	mu    sync.Mutex
	hand  int
	inSet []bool
	ref   []bool
}

// NewClockReplacer creates a replacer tracking numFrames frames, none of
// which start out as candidates.
func NewClockReplacer(numFrames int) *ClockReplacer {
	return &ClockReplacer{
		inSet: make([]bool, numFrames),
		ref:   make([]bool, numFrames),
	}
}

// Victim selects and removes a candidate frame. It returns false when no
// frame is currently evictable.
func (c *ClockReplacer) Victim() (primitives.FrameID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.inSet)
	fallback := -1

	for i := 0; i < n; i++ {
		idx := (c.hand + i) % n
		switch {
		case c.inSet[idx] && !c.ref[idx]:
			c.hand = (idx + 1) % n
			c.inSet[idx] = false
			return primitives.FrameID(idx), true
		case c.inSet[idx] && c.ref[idx]:
			// Second chance: clear the bit, remember the first such
			// frame in case the revolution finds nothing better.
			c.ref[idx] = false
			if fallback == -1 {
				fallback = idx
			}
		}
	}

	if fallback == -1 {
		return 0, false
	}
	c.hand = (fallback + 1) % n
	c.inSet[fallback] = false
	return primitives.FrameID(fallback), true
}

// Pin removes the frame from the candidate set. Frames out of range are
// ignored; pinning a non-candidate is a no-op.
func (c *ClockReplacer) Pin(id primitives.FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(id) < 0 || int(id) >= len(c.inSet) {
		return
	}
	c.inSet[id] = false
}

// Unpin adds the frame to the candidate set with its reference bit set.
// Repeated calls leave the frame in the same "in, referenced" state.
func (c *ClockReplacer) Unpin(id primitives.FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(id) < 0 || int(id) >= len(c.inSet) {
		return
	}
	c.inSet[id] = true
	c.ref[id] = true
}

// Size returns the number of current candidates.
func (c *ClockReplacer) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, in := range c.inSet {
		if in {
			count++
		}
	}
	return count
}
