// Package cache remembers the content each schema was last generated from,
// so a save that leaves the bytes unchanged does not trigger a rebuild.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Digest returns the hex SHA-256 of content
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Tracker maps a path to the digest of its last successful generation
type Tracker struct {
	mu      sync.Mutex
	digests map[string]string
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{digests: make(map[string]string)}
}

// Unchanged reports whether content matches what was recorded for path
func (t *Tracker) Unchanged(path string, content []byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.digests[path]
	return ok && d == Digest(content)
}

// Record stores content as the latest generated version of path
func (t *Tracker) Record(path string, content []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.digests[path] = Digest(content)
}

// Forget drops path so its next version is always generated
func (t *Tracker) Forget(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.digests, path)
}
