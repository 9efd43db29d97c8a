package driver

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache is a bounded LRU over CompilationResult, keyed by the SHA-256
// fingerprint of the source text concatenated with the target name
// (spec.md §4.10). Eviction is least-recently-used once Size entries
// are held. Grounded on the teacher's internal/manifest SHA-256-digest
// pattern (crypto/sha256 + hex), extended here into an LRU since the
// manifest package only ever hashed once and never needed eviction.
//
// No third-party LRU library appears anywhere in the example pack, so
// this is a small hand-rolled container/list + map implementation
// rather than a borrowed dependency.
type Cache struct {
	mu    sync.Mutex
	size  int
	ll    *list.List
	items map[string]*list.Element

	inflight map[string]*inflightCall
}

type entry struct {
	key    string
	result *CompilationResult
}

type inflightCall struct {
	done   chan struct{}
	result *CompilationResult
	err    error
}

// NewCache returns a Cache bounded to size entries. size <= 0 disables
// the bound (no eviction).
func NewCache(size int) *Cache {
	return &Cache{
		size:     size,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		inflight: make(map[string]*inflightCall),
	}
}

// Fingerprint computes the cache key for a (source, target) pair.
func Fingerprint(source, target string) string {
	h := sha256.Sum256([]byte(source + target))
	return hex.EncodeToString(h[:])
}

// Get returns the cached result for key, if present, promoting it to
// most-recently-used.
func (c *Cache) Get(key string) (*CompilationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).result, true
}

// Put inserts result under key, evicting the least-recently-used entry
// if the cache is at capacity.
func (c *Cache) Put(key string, result *CompilationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry).result = result
		return
	}

	el := c.ll.PushFront(&entry{key: key, result: result})
	c.items[key] = el

	if c.size > 0 && c.ll.Len() > c.size {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
}

// compileImpl is the pipeline entry point CompileCached calls through;
// it is a variable rather than a direct call to Compile so tests can
// substitute a counting wrapper and observe how many times the
// pipeline itself actually ran under concurrent callers.
var compileImpl = Compile

// CompileCached runs Compile for (source, target), reusing a cached
// result when the fingerprint matches and otherwise compiling exactly
// once even under concurrent callers for the same fingerprint — later
// callers block on the in-flight compilation rather than duplicating
// the work (spec.md §4.10 cache semantics, "exactly once").
func (c *Cache) CompileCached(ctx context.Context, source, target string) (*CompilationResult, error) {
	key := Fingerprint(source, target)

	if result, ok := c.Get(key); ok {
		return result, nil
	}

	c.mu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-call.done
		return call.result, call.err
	}
	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	result, err := compileImpl(ctx, source, target)
	if err == nil && result != nil && result.Success {
		c.Put(key, result)
	}
	call.result, call.err = result, err
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	return result, err
}
