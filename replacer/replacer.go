// Package replacer implements the pluggable eviction policy consulted by
// the buffer pool manager when no free frame is available.
package replacer

// Replacer is a bounded, ordered set of frame indices representing
// candidates for eviction. The buffer pool manager depends only on this
// four-operation contract, so alternative policies (clock, LRU-K) can
// substitute without touching the pool itself.
type Replacer interface {
	// Victim removes and returns the next frame to evict, or (0, false)
	// if the set is empty.
	Victim() (frameID int, ok bool)

	// Pin removes frameID from the set if present; a no-op otherwise.
	// Called when a frame is freshly pinned or deleted.
	Pin(frameID int)

	// Unpin adds frameID to the set as the most-recently-used candidate,
	// unless it is already present or the set is at capacity (both
	// no-ops).
	Unpin(frameID int)

	// Size reports the current number of eviction candidates.
	Size() int
}
