// Package cache keeps comparison results for the lifetime of one process,
// keyed by a fingerprint of the inputs that produced them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Store is a key-value store with explicit invalidation.
type Store[V any] interface {
	Get(key string) (V, bool)
	Put(key string, v V)
	Invalidate(key string)
	Purge()
}

// MemStore is an in-memory Store safe for concurrent use.
type MemStore[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func NewMemStore[V any]() *MemStore[V] {
	return &MemStore[V]{items: make(map[string]V)}
}

func (s *MemStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *MemStore[V]) Put(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]V)
	}
	s.items[key] = v
}

func (s *MemStore[V]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

func (s *MemStore[V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]V)
}

func (s *MemStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Fingerprint hashes the contents of the files, in the given order, together
// with the comparator parameters. Renaming a file does not change it; editing
// one, reordering them or changing params does.
func Fingerprint(paths []string, params string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", err
		}
		n, err := io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", p, err)
		}
		// length separates files so concatenations do not collide
		fmt.Fprintf(h, "\x00%d\x00", n)
	}
	fmt.Fprintf(h, "params\x00%s", params)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Keys returns the stored keys in sorted order.
func (s *MemStore[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := lo.Keys(s.items)
	sort.Strings(keys)
	return keys
}
