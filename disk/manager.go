// Package disk is the buffer pool's only collaborator below the frame
// boundary: a synchronous, page-sized block reader/writer. Its I/O is
// assumed infallible from the core's point of view; the core never
// retries or partially unwinds on an error from this layer, though the
// Go interface still surfaces one so a caller embedding the pool in a
// larger system can decide how to react (log, crash, etc).
package disk

import (
	"driftdb/common"
	"driftdb/pageid"
)

// Manager reads and writes exactly one page-sized block per call.
type Manager interface {
	// ReadPage reads page id's bytes into dst, which must be exactly
	// common.PageSize long.
	ReadPage(id pageid.ID, dst []byte) error

	// WritePage writes src, which must be exactly common.PageSize long,
	// to page id's backing block.
	WritePage(id pageid.ID, src []byte) error

	// Close releases the underlying file handle.
	Close() error
}

func checkLen(b []byte) {
	if len(b) != common.PageSize {
		panic("disk: buffer is not exactly one page in size")
	}
}
