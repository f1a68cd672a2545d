// Package frame defines the fixed-size, page-sized buffer slot the buffer
// pool manages, along with its per-slot metadata: page-id, pin count, and
// dirty flag.
package frame

import (
	"sync"

	"driftdb/common"
	"driftdb/pageid"
)

// Frame is one of the pool's fixed slots. Its index in the pool's backing
// array is stable for the pool's lifetime; only its contents change as
// pages are fetched, evicted, and deleted.
type Frame struct {
	// PageID is the id of the page currently resident in this frame, or
	// pageid.Invalid when the frame is empty.
	PageID pageid.ID

	// Data holds the raw page bytes. Callers read/write through it between
	// a successful Fetch/New and the matching Unpin; the pool itself never
	// inspects these bytes except to hand them to the disk manager.
	Data [common.PageSize]byte

	// PinCount is the number of outstanding callers holding this frame.
	// Always >= 0.
	PinCount int32

	// Dirty records whether Data has been mutated since the last time it
	// was written to disk. Sticky: only a flush, an eviction, or a delete
	// of the page clears it.
	Dirty bool

	// latch lets a caller take a read or write lock on the bytes while
	// holding the frame, independent of the pool's own latch (which only
	// protects bookkeeping, not frame contents).
	latch sync.RWMutex
}

// New returns an empty frame, as placed on the free list at pool
// construction.
func New() *Frame {
	return &Frame{PageID: pageid.Invalid}
}

// Reset clears a frame back to its empty state: zeroed data, no page,
// clean, unpinned. Used when a frame returns to the free list (on
// Delete), right before a frame is assigned a freshly allocated page
// (on New), and right before a page is read into it from disk (on Fetch).
func (f *Frame) Reset() {
	for i := range f.Data {
		f.Data[i] = 0
	}
	f.PageID = pageid.Invalid
	f.PinCount = 0
	f.Dirty = false
}

// WLatch/WUnlatch/RLatch/RUnlatch let a caller serialize its own reads and
// writes to Data against other holders of the same pin; the pool does not
// acquire these itself.
func (f *Frame) WLatch()   { f.latch.Lock() }
func (f *Frame) WUnlatch() { f.latch.Unlock() }
func (f *Frame) RLatch()   { f.latch.RLock() }
func (f *Frame) RUnlatch() { f.latch.RUnlock() }
