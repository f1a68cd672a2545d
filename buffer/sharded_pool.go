package buffer

import (
	"fmt"

	"driftdb/frame"
	"driftdb/pageid"
)

// ShardedPool composes N independent Pool instances into one logical
// pool, routing by page-id modulo N. It is not part of the core itself;
// it is a thin router over instances that are each built exactly as a
// standalone Pool is.
type ShardedPool struct {
	shards []*Pool
}

// NewShardedPool wraps shards, which must already have been constructed
// with pageid.Allocators sharing the same stride (len(shards)) and
// distinct instance indices 0..len(shards)-1, in order, or routing will
// send a page-id to the wrong shard.
func NewShardedPool(shards []*Pool) *ShardedPool {
	if len(shards) == 0 {
		panic("buffer: sharded pool needs at least one shard")
	}
	return &ShardedPool{shards: shards}
}

func (s *ShardedPool) shardFor(id pageid.ID) *Pool {
	n := int32(len(s.shards))
	return s.shards[int32(id)%n]
}

// NewPage allocates a fresh page on the given shard index.
func (s *ShardedPool) NewPage(shard int) (pageid.ID, *frame.Frame, error) {
	if shard < 0 || shard >= len(s.shards) {
		return pageid.Invalid, nil, fmt.Errorf("buffer: shard %d out of range [0, %d)", shard, len(s.shards))
	}
	return s.shards[shard].NewPage()
}

func (s *ShardedPool) FetchPage(id pageid.ID) (*frame.Frame, error) {
	return s.shardFor(id).FetchPage(id)
}

func (s *ShardedPool) UnpinPage(id pageid.ID, isDirty bool) bool {
	return s.shardFor(id).UnpinPage(id, isDirty)
}

func (s *ShardedPool) FlushPage(id pageid.ID) bool {
	return s.shardFor(id).FlushPage(id)
}

func (s *ShardedPool) FlushAllPages() {
	for _, shard := range s.shards {
		shard.FlushAllPages()
	}
}

func (s *ShardedPool) DeletePage(id pageid.ID) bool {
	return s.shardFor(id).DeletePage(id)
}

// Close closes every shard's disk manager, returning the first error
// encountered (if any), after attempting to close all of them.
func (s *ShardedPool) Close() error {
	var firstErr error
	for _, shard := range s.shards {
		if err := shard.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
