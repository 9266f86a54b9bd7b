// Package session tracks where each sender is in a multi-step dialogue.
package session

import "sync"

// State is a sender's position in the add-item dialogue.
type State int

const (
	StateNone State = iota
	StateName
	StatePrice
	StateDescription
	StatePhoto
)

// Draft accumulates the fields collected so far. Fields only ever grow
// as the dialogue advances; Clear discards the draft as a whole, there
// is no partial rollback.
type Draft struct {
	Name        string
	Price       string
	Description string
}

// Store keeps one dialogue record per sender. Absence of a record means
// no open dialogue. Safe for concurrent use; same-sender updates are
// last-write-wins.
type Store struct {
	mu      sync.RWMutex
	records map[int64]*record
}

type record struct {
	state State
	draft Draft
}

func NewStore() *Store {
	return &Store{records: make(map[int64]*record)}
}

// State reports the sender's current dialogue position. No record reads
// as StateNone.
func (s *Store) State(senderID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[senderID]; ok {
		return r.state
	}
	return StateNone
}

// Draft returns a copy of the sender's collected fields.
func (s *Store) Draft(senderID int64) Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[senderID]; ok {
		return r.draft
	}
	return Draft{}
}

// Begin opens a session at StateName with an empty draft, replacing any
// previous record for the sender.
func (s *Store) Begin(senderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[senderID] = &record{state: StateName}
}

// Advance moves the sender to next, first applying update to the draft.
// A nil update keeps the draft as is. No-op when the sender has no open
// session.
func (s *Store) Advance(senderID int64, next State, update func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[senderID]
	if !ok {
		return
	}
	if update != nil {
		update(&r.draft)
	}
	r.state = next
}

// Clear closes the sender's session and returns the final draft.
func (s *Store) Clear(senderID int64) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[senderID]
	if !ok {
		return Draft{}
	}
	delete(s.records, senderID)
	return r.draft
}
