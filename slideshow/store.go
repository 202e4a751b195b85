package slideshow

import (
	"image"
	"sync"
)

// Entry is one image in the show. Source and Caption are fixed at creation;
// the pixels arrive asynchronously from the loader.
type Entry struct {
	mu      sync.Mutex
	source  string
	caption string
	img     image.Image
	settled bool
	loadErr error
}

// Source returns the path or URL the entry was created from.
func (e *Entry) Source() string {
	return e.source
}

// Caption returns the caption text for the entry.
func (e *Entry) Caption() string {
	return e.caption
}

// SetImage stores the decoded image and marks the entry settled.
func (e *Entry) SetImage(img image.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.img = img
	e.settled = true
}

// Fail marks the entry settled without pixels. The slide still takes its
// turn in the rotation and renders best-effort.
func (e *Entry) Fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadErr = err
	e.settled = true
}

// Image returns the decoded image and whether one is available.
func (e *Entry) Image() (image.Image, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.img, e.img != nil
}

// Settled reports whether loading has finished for the entry, successfully
// or not.
func (e *Entry) Settled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settled
}

// LoadErr returns the decode error for a failed entry, or nil.
func (e *Entry) LoadErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Store holds the ordered set of slides. Insertion order is manifest order
// is display order; entries are never removed during a session.
type Store struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends an entry and returns it.
func (s *Store) Add(source, caption string) *Entry {
	e := &Entry{source: source, caption: caption}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return e
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entry returns the entry at index i, or nil if out of range.
func (s *Store) Entry(i int) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// Entries returns a snapshot of all entries in order.
func (s *Store) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// SettledCount returns how many entries have finished loading.
func (s *Store) SettledCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.Settled() {
			n++
		}
	}
	return n
}

// Ready reports whether playback can start: the store is non-empty and
// every entry has settled.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return false
	}
	for _, e := range s.entries {
		if !e.Settled() {
			return false
		}
	}
	return true
}
