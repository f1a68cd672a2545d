package replacer

import (
	"container/list"

	"github.com/sasha-s/go-deadlock"
)

// LRUReplacer tracks the least-recently-unpinned frame as the next
// victim. Recency is defined purely by the order of Unpin calls; there
// is no "touch on access", the pool never reports a fetch-hit to the
// replacer beyond pinning it.
//
// Capacity is a soft cap equal to the pool size: an Unpin that would grow
// the set past capacity is silently dropped. Under the buffer pool's own
// invariants this can't happen (at most poolSize frames exist), so it is
// defensive rather than load-bearing.
type LRUReplacer struct {
	mu       deadlock.Mutex
	order    *list.List               // front = least recently used (next victim)
	elements map[int]*list.Element
	capacity int
}

var _ Replacer = (*LRUReplacer)(nil)

// NewLRUReplacer builds a replacer with the given capacity, normally the
// buffer pool's size.
func NewLRUReplacer(capacity int) *LRUReplacer {
	return &LRUReplacer{
		order:    list.New(),
		elements: make(map[int]*list.Element),
		capacity: capacity,
	}
}

func (r *LRUReplacer) Victim() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	front := r.order.Front()
	if front == nil {
		return 0, false
	}
	frameID := front.Value.(int)
	r.order.Remove(front)
	delete(r.elements, frameID)
	return frameID, true
}

func (r *LRUReplacer) Pin(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elem, ok := r.elements[frameID]
	if !ok {
		return
	}
	r.order.Remove(elem)
	delete(r.elements, frameID)
}

func (r *LRUReplacer) Unpin(frameID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.elements[frameID]; ok {
		return
	}
	if r.order.Len() >= r.capacity {
		return
	}
	r.elements[frameID] = r.order.PushBack(frameID)
}

func (r *LRUReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}
