// Package cache keeps prepared statements for parameterized query text.
// Parameterized text never contains argument values, so the same template
// always maps to the same entry no matter what it was called with.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrNotFound = errors.New("statement not cached")

// Fingerprint is the cache key of query text.
func Fingerprint(query string) uint64 {
	return xxhash.Sum64String(query)
}

// entry fields other than query and stmt are guarded by StatementCache.mu.
type entry struct {
	query   string
	stmt    *sql.Stmt
	refs    int
	evicted bool
}

// StatementCache is an LRU of prepared statements. A statement handed out by
// GetOrPrepare stays open until its release func runs, even if the entry is
// evicted in the meantime.
type StatementCache struct {
	cache *lru.Cache[uint64, *entry]
	mu    sync.Mutex
}

// NewStatementCache returns a cache holding at most size statements.
// Evicted statements are closed once no caller holds them.
func NewStatementCache(size int) (*StatementCache, error) {
	s := &StatementCache{}
	cache, err := lru.NewWithEvict(size, s.evict)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// evict runs inside cache calls made with s.mu held.
func (s *StatementCache) evict(_ uint64, e *entry) {
	e.evicted = true
	if e.refs == 0 {
		e.stmt.Close()
	}
}

// Get reports whether query has a cached statement. The statement is not
// reserved; use GetOrPrepare to run it.
func (s *StatementCache) Get(query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Get(Fingerprint(query)); ok && e.query == query {
		return e.stmt, nil
	}
	return nil, ErrNotFound
}

// GetOrPrepare returns the cached statement for query, preparing it on db
// on a miss. The caller must call release once done with the statement.
func (s *StatementCache) GetOrPrepare(ctx context.Context, db *sql.DB, query string) (_ *sql.Stmt, release func(), err error) {
	key := Fingerprint(query)

	s.mu.Lock()
	if e, ok := s.cache.Get(key); ok && e.query == query {
		e.refs++
		s.mu.Unlock()
		return e.stmt, s.releaser(e), nil
	}
	s.mu.Unlock()

	// Prepare outside the lock; a concurrent miss on the same text may
	// prepare twice, and the loser is closed below.
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Get(key); ok && e.query == query {
		stmt.Close()
		e.refs++
		return e.stmt, s.releaser(e), nil
	}

	// Remove evicts a statement under a colliding fingerprint.
	s.cache.Remove(key)
	e := &entry{query: query, stmt: stmt, refs: 1}
	s.cache.Add(key, e)
	return stmt, s.releaser(e), nil
}

func (s *StatementCache) releaser(e *entry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			e.refs--
			if e.refs == 0 && e.evicted {
				e.stmt.Close()
			}
		})
	}
}

func (s *StatementCache) Len() int { return s.cache.Len() }

// Close evicts every entry. Statements still held are closed on release.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
