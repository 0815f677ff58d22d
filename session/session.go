// Package session owns the authenticated identity. The identity moves
// through three states: anonymous (no user), basic (confirmed by login) and
// enriched (customer-role identity merged with the customer record and a
// hydrated balance). It is persisted as a single JSON record at a fixed path
// and restored at startup without re-validation.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"bankportal/models"
)

// Store holds the current identity. Safe for concurrent use.
type Store struct {
	mutex    sync.RWMutex
	path     string
	user     *models.User
	enriched bool
}

type persisted struct {
	User     *models.User `json:"user"`
	Enriched bool         `json:"enriched"`
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load restores a persisted identity. A missing or unreadable file leaves
// the store anonymous; a stale identity is accepted as-is and re-validated
// only opportunistically by the caller.
func (s *Store) Load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil || p.User == nil {
		log.Printf("session: discarding unreadable state at %s", s.path)
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.user = p.User
	s.enriched = p.Enriched
}

// Current returns a copy of the identity, or false when anonymous.
func (s *Store) Current() (models.User, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Enriched reports whether the identity carries customer enrichment.
func (s *Store) Enriched() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.user != nil && s.enriched
}

// HasRole reports whether an identity is present with the given role.
func (s *Store) HasRole(role string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.user != nil && s.user.Role == role
}

// SetBasic installs a login identity without enrichment.
func (s *Store) SetBasic(u models.User) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.user = &u
	s.enriched = false
	s.persistLocked()
}

// SetEnriched installs a customer identity merged with its customer record.
func (s *Store) SetEnriched(u models.User) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.user = &u
	s.enriched = true
	s.persistLocked()
}

// Update merges a change into the current identity (after a transaction
// moved the balance, for instance) and persists it. A no-op when anonymous.
func (s *Store) Update(mutate func(*models.User)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.user == nil {
		return
	}
	mutate(s.user)
	s.persistLocked()
}

// Clear drops the identity and its persisted record unconditionally.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.user = nil
	s.enriched = false
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("session: removing %s: %v", s.path, err)
	}
}

func (s *Store) persistLocked() {
	raw, err := json.Marshal(persisted{User: s.user, Enriched: s.enriched})
	if err != nil {
		log.Printf("session: encoding state: %v", err)
		return
	}
	if err := writeFileAtomic(s.path, raw); err != nil {
		log.Printf("session: persisting state: %v", err)
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
