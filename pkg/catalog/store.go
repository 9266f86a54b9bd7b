// Package catalog owns the authoritative ordered sequence of purchasable
// items, persisted as a JSON array rewritten in full on every mutation.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrOutOfRange reports an index outside the stored sequence.
var ErrOutOfRange = errors.New("catalog: index out of range")

// Item is one purchasable catalog entry. Price is kept exactly as the
// operator entered it, never normalized. Photo is a platform media
// reference, empty when the item has none. Items are addressed by their
// position in the persisted order; they are appended and removed, never
// updated in place.
type Item struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Photo       string `json:"photo,omitempty"`
}

func (i Item) HasPhoto() bool { return i.Photo != "" }

// Store serializes all catalog access behind one lock. Two mutating
// handlers racing a stale snapshot would break the positional-index
// contract, so reads and read-modify-write sequences share the mutex.
type Store struct {
	mu    sync.Mutex
	path  string
	items []Item
}

// Open loads the catalog from path. A missing or unreadable file reads
// as an empty catalog, never an error.
func Open(path string) *Store {
	s := &Store{path: path}
	s.items = readFile(path)
	return s
}

func readFile(path string) []Item {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

// List returns a snapshot of the catalog in persisted order.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item at the zero-based index.
func (s *Store) Get(index int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return Item{}, ErrOutOfRange
	}
	return s.items[index], nil
}

// Append adds item at the end and persists before returning. The stored
// sequence is untouched when the write fails.
func (s *Store) Append(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]Item, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, item)
	if err := s.persist(next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// RemoveAt deletes and returns the item at the zero-based index. Later
// items shift down by one. The stored sequence is untouched when the
// index is out of range or the write fails.
func (s *Store) RemoveAt(index int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return Item{}, ErrOutOfRange
	}
	removed := s.items[index]
	next := make([]Item, 0, len(s.items)-1)
	next = append(next, s.items[:index]...)
	next = append(next, s.items[index+1:]...)
	if err := s.persist(next); err != nil {
		return Item{}, err
	}
	s.items = next
	return removed, nil
}

// persist rewrites the whole file through a temp file and rename, so a
// failed write leaves the previous contents intact.
func (s *Store) persist(items []Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}
