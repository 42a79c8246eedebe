package client

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// Key identifies a cache entry. Keys are built from string parts, e.g.
// posts list, a single post, a post's comments.
type Key string

const keySep = "\x1f"

func makeKey(parts ...string) Key {
	return Key(strings.Join(parts, keySep))
}

// PostsKey is the paginated post list.
func PostsKey() Key { return makeKey("posts") }

// PostKey is a single post.
func PostKey(id string) Key { return makeKey("posts", id) }

// CommentsKey is a post's comment list.
func CommentsKey(postID string) Key { return makeKey("comments", postID) }

// entry holds one cached value as its JSON encoding. valid is cleared by
// invalidation; the stale bytes stick around until the next successful
// read overwrites them.
type entry struct {
	data  []byte
	valid bool
}

// Store is a keyed client cache with optimistic mutation support. Values
// are stored as JSON so snapshots restore exactly. A Store belongs to
// one client session; it is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	inflight map[Key]map[int64]context.CancelFunc
	nextID   int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries:  make(map[Key]*entry),
		inflight: make(map[Key]map[int64]context.CancelFunc),
	}
}

// Get decodes the cached value for key into dest. It reports false when
// the key is absent or invalidated.
func (s *Store) Get(key Key, dest any) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || !e.valid {
		s.mu.Unlock()
		return false
	}
	data := e.data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

// Put stores v under key, replacing any previous value and clearing the
// invalidated mark.
func (s *Store) Put(key Key, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[key] = &entry{data: data, valid: true}
	s.mu.Unlock()
	return nil
}

// Invalidate marks keys stale so the next Read goes back to the server.
// The cached bytes are kept for inspection but no longer served.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	for _, key := range keys {
		if e, ok := s.entries[key]; ok {
			e.valid = false
		}
	}
	s.mu.Unlock()
}

// Peek returns the raw cached bytes for key regardless of validity.
func (s *Store) Peek(key Key) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, true
}

// Read returns the cached value for key, fetching it when absent or
// invalidated. The fetch runs under a cancellable context so that a
// concurrent mutation on the same key can cancel it; a cancelled fetch
// never writes the cache.
func (s *Store) Read(ctx context.Context, key Key, dest any, fetch func(context.Context) (any, error)) error {
	if s.Get(key, dest) {
		return nil
	}

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	id := s.registerInflight(key, cancel)
	defer s.unregisterInflight(key, id)

	v, err := fetch(rctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// Cancellation is re-checked under the lock: cancelInflight cancels
	// while holding it, so a cancelled fetch result can never land after
	// the optimistic write.
	s.mu.Lock()
	if rctx.Err() != nil {
		s.mu.Unlock()
		return rctx.Err()
	}
	s.entries[key] = &entry{data: data, valid: true}
	s.mu.Unlock()

	return json.Unmarshal(data, dest)
}

// Mutate runs the optimistic mutation protocol over keys: cancel
// in-flight reads, snapshot, apply the optimistic delta, perform the
// network call, restore every snapshot verbatim on failure, and mark
// every key invalidated regardless of outcome so the next read
// reconciles with the server.
func (s *Store) Mutate(ctx context.Context, keys []Key, apply func(), perform func(context.Context) error) error {
	s.cancelInflight(keys...)
	snap := s.snapshot(keys)

	if apply != nil {
		apply()
	}

	err := perform(ctx)
	if err != nil {
		s.restore(snap)
	}
	s.Invalidate(keys...)
	return err
}

type snapshotEntry struct {
	data    []byte
	valid   bool
	present bool
}

func (s *Store) snapshot(keys []Key) map[Key]snapshotEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(map[Key]snapshotEntry, len(keys))
	for _, key := range keys {
		e, ok := s.entries[key]
		if !ok {
			snap[key] = snapshotEntry{}
			continue
		}
		data := make([]byte, len(e.data))
		copy(data, e.data)
		snap[key] = snapshotEntry{data: data, valid: e.valid, present: true}
	}
	return snap
}

func (s *Store) restore(snap map[Key]snapshotEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, se := range snap {
		if !se.present {
			delete(s.entries, key)
			continue
		}
		s.entries[key] = &entry{data: se.data, valid: se.valid}
	}
}

func (s *Store) registerInflight(key Key, cancel context.CancelFunc) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.inflight[key] == nil {
		s.inflight[key] = make(map[int64]context.CancelFunc)
	}
	s.inflight[key][id] = cancel
	return id
}

func (s *Store) unregisterInflight(key Key, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight[key], id)
	if len(s.inflight[key]) == 0 {
		delete(s.inflight, key)
	}
}

func (s *Store) cancelInflight(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Cancel while holding the lock so Read's locked re-check observes
	// the cancellation before it can write a stale entry.
	for _, key := range keys {
		for _, cancel := range s.inflight[key] {
			cancel()
		}
		delete(s.inflight, key)
	}
}
