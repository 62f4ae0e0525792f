package staging

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const keyShards = 32

// KeySet is a concurrent set of natural keys. Keys are spread over shards by
// hash so writers for unrelated keys rarely contend.
type KeySet struct {
	shards [keyShards]keyShard
}

type keyShard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewKeySet returns an empty set.
func NewKeySet() *KeySet {
	s := &KeySet{}
	for i := range s.shards {
		s.shards[i].keys = make(map[string]struct{})
	}
	return s
}

func (s *KeySet) shard(key string) *keyShard {
	return &s.shards[xxhash.Sum64String(key)%keyShards]
}

// AddIfAbsent claims key and reports whether the caller is the first to do so.
func (s *KeySet) AddIfAbsent(key string) bool {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.keys[key]; ok {
		return false
	}
	sh.keys[key] = struct{}{}
	return true
}

// Contains reports whether key has been claimed.
func (s *KeySet) Contains(key string) bool {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.keys[key]
	return ok
}

// Remove releases previously claimed keys.
func (s *KeySet) Remove(keys ...string) {
	for _, key := range keys {
		sh := s.shard(key)
		sh.mu.Lock()
		delete(sh.keys, key)
		sh.mu.Unlock()
	}
}

// Len counts the claimed keys.
func (s *KeySet) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.keys)
		sh.mu.Unlock()
	}
	return n
}
