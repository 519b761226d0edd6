// Package store provides the flat user-record store backed by a single
// JSON document keyed by user id.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Subscription statuses. Status transitions Active -> Cancelled happen
// only through the cancellation tool, never by direct mutation.
const (
	StatusActive    = "Active"
	StatusCancelled = "Cancelled"
)

// ErrNotFound is returned when a user id has no record.
var ErrNotFound = errors.New("user not found")

// UserRecord is one user's subscription record.
type UserRecord struct {
	Name   string `json:"name"`
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// Store is a file-backed associative store. All operations serialize on
// the store mutex, so read-modify-write sequences cannot lose updates
// within a process.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open ensures the backing file exists and returns the store.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	return &Store{path: path}, nil
}

// Get returns the record for id, or ErrNotFound.
func (s *Store) Get(id string) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := db[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// SetStatus updates the status field of an existing record and persists
// the change. The whole read-modify-write runs under the store mutex.
func (s *Store) SetStatus(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	rec, ok := db[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	db[id] = rec
	return s.save(db)
}

// Put inserts or replaces a record. Used by seeding and tests.
func (s *Store) Put(id string, rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	db[id] = rec
	return s.save(db)
}

func (s *Store) load() (map[string]UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	db := make(map[string]UserRecord)
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("failed to parse database: %w", err)
	}
	return db, nil
}

func (s *Store) save(db map[string]UserRecord) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}
