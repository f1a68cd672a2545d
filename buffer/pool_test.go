package buffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftdb/common"
	"driftdb/disk"
	"driftdb/pageid"
)

// countingDiskManager wraps a *disk.FileManager and records every
// WritePage call, so tests can assert on flush-before-evict ordering
// without guessing at internal timing.
type countingDiskManager struct {
	*disk.FileManager
	writes []pageid.ID
}

func newCountingDiskManager(t *testing.T) *countingDiskManager {
	t.Helper()
	path := filepath.Join(t.TempDir(), uuid.NewString()+".db")
	fm, err := disk.NewFileManager(path, common.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		fm.Close()
		os.Remove(path)
	})
	return &countingDiskManager{FileManager: fm}
}

func (c *countingDiskManager) WritePage(id pageid.ID, src []byte) error {
	c.writes = append(c.writes, id)
	return c.FileManager.WritePage(id, src)
}

func newTestPool(t *testing.T, size int) (*Pool, *countingDiskManager) {
	t.Helper()
	dm := newCountingDiskManager(t)
	alloc := pageid.NewAllocator(1, 0)
	return New(size, dm, alloc, nil, nil, common.NopLogger()), dm
}

// S1: Fill and evict.
func TestScenario_FillAndEvict(t *testing.T) {
	p, dm := newTestPool(t, 3)

	p0, _, err := p.NewPage()
	require.NoError(t, err)
	p1, _, err := p.NewPage()
	require.NoError(t, err)
	p2, _, err := p.NewPage()
	require.NoError(t, err)

	_, _, err = p.NewPage()
	assert.Error(t, err)

	assert.True(t, p.UnpinPage(p0, false))

	writesBefore := len(dm.writes)
	p3, _, err := p.NewPage()
	require.NoError(t, err)
	assert.NotEqual(t, p0, p3)
	// clean eviction: no write observed
	assert.Equal(t, writesBefore, len(dm.writes))

	_, ok := p.pageTable[p0]
	assert.False(t, ok)
	for _, id := range []pageid.ID{p1, p2, p3} {
		_, ok := p.pageTable[id]
		assert.True(t, ok)
	}
}

// S2: Dirty eviction.
func TestScenario_DirtyEviction(t *testing.T) {
	p, dm := newTestPool(t, 3)

	p0, fr0, err := p.NewPage()
	require.NoError(t, err)
	fr0.Data[0] = 0xAB
	require.True(t, p.UnpinPage(p0, true))

	_, _, err = p.NewPage()
	require.NoError(t, err)
	_, _, err = p.NewPage()
	require.NoError(t, err)
	_, _, err = p.NewPage()
	require.NoError(t, err)

	require.Contains(t, dm.writes, p0)
}

// S3: Fetch hit.
func TestScenario_FetchHit(t *testing.T) {
	p, _ := newTestPool(t, 3)

	p0, _, err := p.NewPage()
	require.NoError(t, err)
	require.True(t, p.UnpinPage(p0, false))

	fr, err := p.FetchPage(p0)
	require.NoError(t, err)
	assert.Equal(t, p0, fr.PageID)
	assert.Equal(t, int32(1), fr.PinCount)
}

// S4: Delete pinned.
func TestScenario_DeletePinned(t *testing.T) {
	p, _ := newTestPool(t, 3)

	p0, _, err := p.NewPage()
	require.NoError(t, err)

	assert.False(t, p.DeletePage(p0))

	require.True(t, p.UnpinPage(p0, false))
	assert.True(t, p.DeletePage(p0))

	_, ok := p.pageTable[p0]
	assert.False(t, ok)
}

func TestScenario_DeletePinned_FreeListContainsFrame(t *testing.T) {
	p, _ := newTestPool(t, 3)

	p0, _, err := p.NewPage()
	require.NoError(t, err)
	frameIdx := p.pageTable[p0]

	require.True(t, p.UnpinPage(p0, false))
	assert.True(t, p.DeletePage(p0))

	assert.Contains(t, p.freeList, frameIdx)
}

// S5: Flush-all.
func TestScenario_FlushAll(t *testing.T) {
	p, dm := newTestPool(t, 3)

	p0, fr0, err := p.NewPage()
	require.NoError(t, err)
	fr0.Dirty = true

	p1, _, err := p.NewPage()
	require.NoError(t, err)
	_ = p1

	p.FlushAllPages()

	assert.Len(t, dm.writes, 1)
	assert.Equal(t, p0, dm.writes[0])
}

// S6: All pinned.
func TestScenario_AllPinned(t *testing.T) {
	p, _ := newTestPool(t, 3)

	_, _, err := p.NewPage()
	require.NoError(t, err)
	_, _, err = p.NewPage()
	require.NoError(t, err)
	_, _, err = p.NewPage()
	require.NoError(t, err)

	_, _, err = p.NewPage()
	assert.Error(t, err)

	_, err = p.FetchPage(pageid.ID(999))
	assert.Error(t, err)
}

func TestUnpinPage_NotResidentReturnsFalse(t *testing.T) {
	p, _ := newTestPool(t, 2)
	assert.False(t, p.UnpinPage(pageid.ID(42), false))
}

func TestUnpinPage_AlreadyZeroIsIdempotent(t *testing.T) {
	p, _ := newTestPool(t, 2)
	id, _, err := p.NewPage()
	require.NoError(t, err)

	require.True(t, p.UnpinPage(id, false))
	assert.True(t, p.UnpinPage(id, false))
}

func TestUnpinPage_DirtyIsSticky(t *testing.T) {
	p, _ := newTestPool(t, 2)
	id, _, err := p.NewPage()
	require.NoError(t, err)

	fr, err := p.FetchPage(id) // pin count now 2
	require.NoError(t, err)

	require.True(t, p.UnpinPage(id, true)) // marks dirty, pin count 1
	assert.True(t, fr.Dirty)

	require.True(t, p.UnpinPage(id, false)) // false must not clear dirty
	assert.True(t, fr.Dirty)
}

func TestFlushPage_NotResidentReturnsFalse(t *testing.T) {
	p, _ := newTestPool(t, 2)
	assert.False(t, p.FlushPage(pageid.ID(7)))
}

func TestFlushPage_CleanPageDoesNoIO(t *testing.T) {
	p, dm := newTestPool(t, 2)
	id, _, err := p.NewPage()
	require.NoError(t, err)
	require.True(t, p.UnpinPage(id, false))

	assert.True(t, p.FlushPage(id))
	assert.Empty(t, dm.writes)
}

func TestFlushPage_LegalWhilePinned(t *testing.T) {
	p, dm := newTestPool(t, 2)
	id, fr, err := p.NewPage()
	require.NoError(t, err)
	fr.Dirty = true

	assert.True(t, p.FlushPage(id)) // pin count is still 1
	assert.Contains(t, dm.writes, id)
	assert.False(t, fr.Dirty)
}

func TestDeletePage_NotResidentReturnsTrue(t *testing.T) {
	p, _ := newTestPool(t, 2)
	assert.True(t, p.DeletePage(pageid.ID(123)))
}

func TestDeletePage_RemovesCorrectPageTableEntry(t *testing.T) {
	// the page-table entry must be removed keyed by the caller's id, not
	// the frame's post-reset Invalid id.
	p, _ := newTestPool(t, 2)
	id, _, err := p.NewPage()
	require.NoError(t, err)
	require.True(t, p.UnpinPage(id, false))

	assert.True(t, p.DeletePage(id))
	_, stillThere := p.pageTable[id]
	assert.False(t, stillThere)
	assert.NotContains(t, p.pageTable, pageid.Invalid)
}

func TestNewPage_PrefersFreeListOverReplacerVictim(t *testing.T) {
	p, dm := newTestPool(t, 2)

	id0, _, err := p.NewPage()
	require.NoError(t, err)
	require.True(t, p.UnpinPage(id0, true)) // dirty, now sits in the replacer

	id1, _, err := p.NewPage()
	require.NoError(t, err)
	require.True(t, p.UnpinPage(id1, false))

	// deleting id1 puts its frame on the free list while id0's dirty frame
	// is still a replacer candidate; the next NewPage must take the free
	// frame without evicting id0 or writing anything (it's already
	// known-invalid).
	require.True(t, p.DeletePage(id1))

	writesBefore := len(dm.writes)
	_, _, err = p.NewPage()
	require.NoError(t, err)
	assert.Equal(t, writesBefore, len(dm.writes))
	_, stillResident := p.pageTable[id0]
	assert.True(t, stillResident)
}

func TestPartitionInvariant_PinnedFrameInNeitherList(t *testing.T) {
	p, _ := newTestPool(t, 3)
	id, _, err := p.NewPage()
	require.NoError(t, err)
	frameIdx := p.pageTable[id]

	assert.NotContains(t, p.freeList, frameIdx)
	// A pinned frame must not be chosen as a victim.
	v, ok := p.replacer.Victim()
	if ok {
		assert.NotEqual(t, frameIdx, v)
		p.replacer.Unpin(v) // put back what we peeked at
	}
}
