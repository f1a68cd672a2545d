package disk

import (
	"io"
	"os"

	"go.uber.org/zap"

	"driftdb/common"
	"driftdb/pageid"
)

// FileManager is the default Manager: a single flat file addressed by
// page-id * common.PageSize offsets. It carries no page-allocator,
// free-list, or catalog bookkeeping of its own; page-id allocation is
// owned entirely by pageid.Allocator at the buffer pool layer.
type FileManager struct {
	file *os.File
	log  *zap.Logger
}

var _ Manager = (*FileManager)(nil)

// NewFileManager opens (creating if necessary) the backing file at path.
func NewFileManager(path string, log *zap.Logger) (*FileManager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	log.Info("disk manager opened", zap.String("path", path))
	return &FileManager{file: f, log: log}, nil
}

func (m *FileManager) ReadPage(id pageid.ID, dst []byte) error {
	checkLen(dst)
	off := int64(id) * int64(common.PageSize)
	n, err := m.file.ReadAt(dst, off)
	if err != nil && err != io.EOF {
		return err
	}
	// A page that was allocated but never written (e.g. a fresh, still
	// sparse file) reads back as zeros, so on a short/EOF read at the tail
	// the unread remainder of dst is zero-filled here.
	if n < len(dst) {
		for i := n; i < len(dst); i++ {
			dst[i] = 0
		}
	}
	return nil
}

func (m *FileManager) WritePage(id pageid.ID, src []byte) error {
	checkLen(src)
	off := int64(id) * int64(common.PageSize)
	n, err := m.file.WriteAt(src, off)
	if err != nil {
		return err
	}
	if n != common.PageSize {
		panic("disk: partial page write, this should never happen")
	}
	return nil
}

func (m *FileManager) Close() error {
	m.log.Info("disk manager closing")
	return m.file.Close()
}
