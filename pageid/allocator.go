// Package pageid defines the page-id space the buffer pool core operates
// over, and the per-instance allocator that mints fresh ids without ever
// recycling one.
package pageid

import (
	"fmt"
	"sync/atomic"
)

// ID identifies a logical page. It is a 32-bit signed space; Invalid is the
// sentinel for "no page" / "empty frame".
type ID int32

// Invalid is the sentinel id held by a frame that does not currently hold
// a valid page.
const Invalid ID = -1

// Allocator mints page-ids for one buffer pool instance within an N-way
// pool sharded by page-id hashing. Instance i only ever allocates ids
// congruent to i modulo the number of instances (stride); a standalone,
// unsharded pool is simply the stride=1, instance=0 case.
//
// Allocation never recycles an id: deleted pages leave a permanent gap in
// the sequence. Deallocate exists only as a hook so callers can observe
// every delete attempt, mirroring the reference implementation's
// unconditional call to its deallocation hook.
type Allocator struct {
	next     int64 // holds the next ID to hand out, manipulated atomically
	stride   int32
	instance int32
}

// NewAllocator builds an allocator for instance index `instance` out of
// `stride` total instances. stride must be >= 1 and instance must be in
// [0, stride).
func NewAllocator(stride, instance int32) *Allocator {
	if stride < 1 {
		panic("pageid: stride must be at least 1")
	}
	if instance < 0 || instance >= stride {
		panic("pageid: instance must be in [0, stride)")
	}
	return &Allocator{
		next:     int64(instance),
		stride:   stride,
		instance: instance,
	}
}

// Allocate mints the next page-id owned by this instance and advances the
// counter by stride. The result is asserted to satisfy id % stride ==
// instance before being returned.
func (a *Allocator) Allocate() ID {
	n := atomic.AddInt64(&a.next, int64(a.stride)) - int64(a.stride)
	id := ID(n)
	a.validate(id)
	return id
}

// Deallocate is a hook invoked for every delete attempt (resident or not).
// The core does not reclaim page-ids, so this is presently a no-op; it
// exists as the seam a higher layer (e.g. a disk-space reclaiming
// vacuum) would hook into.
func (a *Allocator) Deallocate(ID) {}

func (a *Allocator) validate(id ID) {
	if int32(id)%a.stride != a.instance {
		panic(fmt.Sprintf("pageid: allocated id %d does not satisfy id %% %d == %d", id, a.stride, a.instance))
	}
}

// Stride returns the number of sharded instances this allocator was built
// for.
func (a *Allocator) Stride() int32 { return a.stride }

// Instance returns this allocator's shard index.
func (a *Allocator) Instance() int32 { return a.instance }
