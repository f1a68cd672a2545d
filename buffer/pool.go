// Package buffer is the Buffer Pool Manager (BPM): the page table, frame
// lifecycle, pin accounting, dirty tracking, free-list management, and
// the flush/fetch/new/delete/unpin protocol.
package buffer

import (
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"

	"driftdb/bufferr"
	"driftdb/disk"
	"driftdb/frame"
	"driftdb/pageid"
	"driftdb/replacer"
	"driftdb/wal"
)

// Pool is the buffer pool manager. A single latch (mu) is held for the
// entire duration of every public operation, including the disk I/O it
// may trigger. This is a deliberate simplification: it serializes the
// pool behind any ongoing read/write rather than dropping the latch
// across I/O and coordinating in-flight misses per page-id.
type Pool struct {
	mu deadlock.Mutex

	frames    []*frame.Frame
	pageTable map[pageid.ID]int
	freeList  []int
	replacer  replacer.Replacer

	disk  disk.Manager
	log   wal.LogManager
	alloc *pageid.Allocator

	metrics *Metrics
	logger  *zap.Logger
}

// New builds a pool of the given size backed by dm, allocating page-ids
// from alloc. log is a handle only (see the wal package doc); it is never
// called by this type. metrics may be nil, in which case a private,
// unregistered Metrics instance is used (so construction never fails on
// a Prometheus registry collision).
func New(size int, dm disk.Manager, alloc *pageid.Allocator, log wal.LogManager, metrics *Metrics, logger *zap.Logger) *Pool {
	if size <= 0 {
		panic("buffer: pool size must be positive")
	}
	if log == nil {
		log = wal.NoopLogManager{}
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	frames := make([]*frame.Frame, size)
	freeList := make([]int, size)
	for i := 0; i < size; i++ {
		frames[i] = frame.New()
		freeList[i] = i
	}

	logger.Info("buffer pool initialized", zap.Int("pool_size", size))

	return &Pool{
		frames:    frames,
		pageTable: make(map[pageid.ID]int),
		freeList:  freeList,
		replacer:  replacer.NewLRUReplacer(size),
		disk:      dm,
		log:       log,
		alloc:     alloc,
		metrics:   metrics,
		logger:    logger,
	}
}

// NewPage allocates a fresh page and pins a frame for it.
func (p *Pool) NewPage() (pageid.ID, *frame.Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameIdx, ok := p.acquireVictim()
	if !ok {
		p.metrics.misses.Inc()
		return pageid.Invalid, nil, bufferr.ErrNoFrameAvailable
	}

	id := p.alloc.Allocate()
	fr := p.frames[frameIdx]
	fr.Reset()
	fr.PageID = id
	fr.PinCount = 1
	fr.Dirty = false

	p.pageTable[id] = frameIdx
	p.replacer.Pin(frameIdx)

	p.metrics.pinned.Inc()
	p.logger.Debug("new page", zap.Int32("page_id", int32(id)), zap.Int("frame", frameIdx))
	return id, fr, nil
}

// FetchPage returns the frame holding id, reading it from disk on a miss.
func (p *Pool) FetchPage(id pageid.ID) (*frame.Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frameIdx, ok := p.pageTable[id]; ok {
		fr := p.frames[frameIdx]
		fr.PinCount++
		p.replacer.Pin(frameIdx)
		p.metrics.hits.Inc()
		if fr.PinCount == 1 {
			p.metrics.pinned.Inc()
		}
		return fr, nil
	}

	frameIdx, ok := p.acquireVictim()
	if !ok {
		p.metrics.misses.Inc()
		return nil, bufferr.ErrNoFrameAvailable
	}

	fr := p.frames[frameIdx]
	fr.Reset()
	if err := p.disk.ReadPage(id, fr.Data[:]); err != nil {
		// Leave the frame empty and back on the free list; the caller gets
		// the I/O error instead of a page.
		p.freeList = append(p.freeList, frameIdx)
		return nil, err
	}
	fr.PageID = id
	fr.PinCount = 1
	fr.Dirty = false

	p.pageTable[id] = frameIdx
	p.replacer.Pin(frameIdx)

	p.metrics.misses.Inc()
	p.metrics.pinned.Inc()
	p.logger.Debug("fetched page", zap.Int32("page_id", int32(id)), zap.Int("frame", frameIdx))
	return fr, nil
}

// UnpinPage decrements id's pin count, moving its frame into the replacer
// once it reaches zero. Returns false if id is not resident.
func (p *Pool) UnpinPage(id pageid.ID, isDirty bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameIdx, ok := p.pageTable[id]
	if !ok {
		return false
	}
	fr := p.frames[frameIdx]

	if fr.PinCount == 0 {
		// Idempotent: already fully unpinned.
		return true
	}

	// Sticky: a false argument never clears a dirty flag already set.
	if isDirty {
		fr.Dirty = true
	}

	fr.PinCount--
	if fr.PinCount == 0 {
		p.replacer.Unpin(frameIdx)
		p.metrics.pinned.Dec()
	}
	return true
}

// FlushPage writes id's bytes to disk if dirty. Legal regardless of pin
// count. Returns false if id is not resident.
func (p *Pool) FlushPage(id pageid.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked(id)
}

// flushLocked assumes mu is already held.
func (p *Pool) flushLocked(id pageid.ID) bool {
	frameIdx, ok := p.pageTable[id]
	if !ok {
		return false
	}
	fr := p.frames[frameIdx]
	if !fr.Dirty {
		return true
	}
	if err := p.disk.WritePage(id, fr.Data[:]); err != nil {
		p.logger.Error("flush failed", zap.Int32("page_id", int32(id)), zap.Error(err))
		return false
	}
	fr.Dirty = false
	p.metrics.flushes.Inc()
	return true
}

// FlushAllPages writes every resident, dirty frame to disk. Order is
// unspecified.
func (p *Pool) FlushAllPages() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id := range p.pageTable {
		p.flushLocked(id)
	}
}

// DeletePage removes id from the pool, returning its frame to the free
// list. Always invokes the page-id deallocator, even when id is not
// resident. Returns false if id is still pinned.
//
// The page-table entry is removed using the id argument, not the
// frame's post-clear value.
func (p *Pool) DeletePage(id pageid.ID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.alloc.Deallocate(id)

	frameIdx, ok := p.pageTable[id]
	if !ok {
		return true
	}
	fr := p.frames[frameIdx]
	if fr.PinCount != 0 {
		return false
	}

	delete(p.pageTable, id)
	fr.Reset()
	p.replacer.Pin(frameIdx) // not an eviction candidate once freed
	p.freeList = append(p.freeList, frameIdx)

	p.metrics.deletes.Inc()
	p.logger.Debug("deleted page", zap.Int32("page_id", int32(id)), zap.Int("frame", frameIdx))
	return true
}

// acquireVictim returns an index to an unused frame, preferring the free
// list (whose contents are known-invalid, avoiding an eviction write)
// over asking the replacer for a victim. Assumes mu is held.
func (p *Pool) acquireVictim() (int, bool) {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[0]
		p.freeList = p.freeList[1:]
		return idx, true
	}

	frameIdx, ok := p.replacer.Victim()
	if !ok {
		return 0, false
	}

	victim := p.frames[frameIdx]
	if victim.Dirty {
		if err := p.disk.WritePage(victim.PageID, victim.Data[:]); err != nil {
			// Disk I/O is assumed infallible; a real failure here means
			// the underlying device is gone, so there is nothing safe
			// left to do but surface it loudly.
			p.logger.Fatal("flush-before-evict failed", zap.Int32("page_id", int32(victim.PageID)), zap.Error(err))
		}
		p.metrics.dirtyEvictions.Inc()
	}
	delete(p.pageTable, victim.PageID)
	p.metrics.evictions.Inc()
	return frameIdx, true
}

// Close releases the pool's disk manager. It does not flush; call
// FlushAllPages first if that is desired.
func (p *Pool) Close() error {
	return p.disk.Close()
}
