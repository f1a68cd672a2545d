package replacer

import (
	"math/rand"

	"github.com/sasha-s/go-deadlock"
)

// RandomReplacer picks an arbitrary unpinned frame as its victim instead
// of tracking recency. It exists to demonstrate that the pool depends
// only on the Replacer interface; it is not the pool's default policy.
type RandomReplacer struct {
	mu       deadlock.Mutex
	unpinned map[int]struct{}
	capacity int
}

var _ Replacer = (*RandomReplacer)(nil)

func NewRandomReplacer(capacity int) *RandomReplacer {
	return &RandomReplacer{
		unpinned: make(map[int]struct{}),
		capacity: capacity,
	}
}

func (r *RandomReplacer) Victim() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.unpinned) == 0 {
		return 0, false
	}
	// map iteration order is randomized by the runtime, which is enough
	// to pick an arbitrary candidate without maintaining a separate index.
	target := rand.Intn(len(r.unpinned))
	i := 0
	for frameID := range r.unpinned {
		if i == target {
			delete(r.unpinned, frameID)
			return frameID, true
		}
		i++
	}
	panic("unreachable")
}

func (r *RandomReplacer) Pin(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.unpinned, frameID)
}

func (r *RandomReplacer) Unpin(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.unpinned[frameID]; ok {
		return
	}
	if len(r.unpinned) >= r.capacity {
		return
	}
	r.unpinned[frameID] = struct{}{}
}

func (r *RandomReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.unpinned)
}
