package dnskvserver

/*
 * store.go
 * Pending-upload and committed-value storage
 * Created 20250118
 * Last Modified 20250302
 */

import "sync"

// Store holds a server's state: chunk text accumulated per in-flight upload
// and committed values keyed by message key.  The server case-folds keys
// and transaction ids to uppercase before every call.  Implementations must
// be safe for use from multiple goroutines.
type Store interface {
	// Append adds chunk text to the pending upload for transaction id
	// tx, creating the entry on the first chunk.
	Append(tx, chunk string)

	// Take removes and returns the text accumulated for tx, along with
	// whether any was present.
	Take(tx string) (string, bool)

	// Put installs value under key, overwriting any prior value
	// outright.
	Put(key, value string)

	// Slice removes and returns up to n bytes from the front of the
	// value under key.  A slice of exactly n bytes leaves the
	// remainder behind, even an empty one, so the next read serves the
	// terminal short slice; a slice shorter than n removes the entry.
	// ok is false if no entry exists.
	Slice(key string, n int) (slice string, ok bool)
}

// MemStore is an in-memory Store.  Pending uploads and committed values
// live in separate maps, so a transaction id can never collide with a
// committed key.  Nothing survives a restart, and pending entries from
// abandoned uploads are never garbage-collected.
type MemStore struct {
	l         *sync.Mutex
	pending   map[string]string
	committed map[string]string
}

// NewMemStore returns a new, empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		l:         new(sync.Mutex),
		pending:   make(map[string]string),
		committed: make(map[string]string),
	}
}

// Append implements Store.Append.
func (s *MemStore) Append(tx, chunk string) {
	s.l.Lock()
	defer s.l.Unlock()
	s.pending[tx] += chunk
}

// Take implements Store.Take.
func (s *MemStore) Take(tx string) (string, bool) {
	s.l.Lock()
	defer s.l.Unlock()
	t, ok := s.pending[tx]
	delete(s.pending, tx)
	return t, ok
}

// Put implements Store.Put.
func (s *MemStore) Put(key, value string) {
	s.l.Lock()
	defer s.l.Unlock()
	s.committed[key] = value
}

// Slice implements Store.Slice.
func (s *MemStore) Slice(key string, n int) (string, bool) {
	s.l.Lock()
	defer s.l.Unlock()

	v, ok := s.committed[key]
	if !ok {
		return "", false
	}

	switch {
	case n < len(v):
		s.committed[key] = v[n:]
		return v[:n], true
	case n == len(v):
		/* Keep an empty remainder so the next read gets the
		terminal empty slice */
		s.committed[key] = ""
		return v, true
	default:
		delete(s.committed, key)
		return v, true
	}
}
