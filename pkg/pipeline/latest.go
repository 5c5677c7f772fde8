package pipeline

import "sync"

// Latest implements a "latest request wins" policy for results that arrive
// out of order. Each call to Begin returns a ticket; only the ticket of the
// most recent Begin for a key is current, so callers drop results whose
// ticket has gone stale instead of overwriting newer ones.
//
// The zero value is ready to use and safe for concurrent use.
type Latest struct {
	mu   sync.Mutex
	keys map[string]*latestKey
}

type latestKey struct {
	gen    uint64     // guarded by Latest.mu
	commit sync.Mutex // serializes Commit for one key
}

// Ticket identifies one request for a key.
type Ticket struct {
	Key        string
	Generation uint64
}

func (l *Latest) entry(key string) *latestKey {
	if l.keys == nil {
		l.keys = make(map[string]*latestKey)
	}
	k, ok := l.keys[key]
	if !ok {
		k = &latestKey{}
		l.keys[key] = k
	}
	return k
}

// Begin starts a new request for key, superseding every earlier one. It
// never waits for a Commit in progress.
func (l *Latest) Begin(key string) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := l.entry(key)
	k.gen++
	return Ticket{Key: key, Generation: k.gen}
}

// Current reports whether t is still the latest request for its key.
func (l *Latest) Current(t Ticket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	k, ok := l.keys[t.Key]
	return ok && k.gen == t.Generation
}

// Commit runs apply only if t is current, and reports whether it ran.
// Commits for the same key run one at a time, in order, so a stale ticket
// can never commit after a newer one. Commits for other keys and calls to
// Begin are not blocked while apply runs.
func (l *Latest) Commit(t Ticket, apply func()) bool {
	l.mu.Lock()
	k := l.entry(t.Key)
	l.mu.Unlock()

	k.commit.Lock()
	defer k.commit.Unlock()
	if !l.Current(t) {
		return false
	}
	apply()
	return true
}
