// Package bufferr holds the buffer pool's error taxonomy, as sentinel
// errors usable with errors.Is.
package bufferr

import "errors"

// ErrNoFrameAvailable is returned by NewPage/FetchPage when every frame
// is pinned and no victim can be found. Never retried internally.
var ErrNoFrameAvailable = errors.New("buffer: no frame available, every frame is pinned")
