// Package session keeps the signed-in user of the command-line client. The
// state lives in memory behind a RWMutex and is mirrored to a JSON file so
// it survives between invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// DefaultKey is the storage key the user is persisted under
const DefaultKey = "user"

// Store holds the current session user
type Store struct {
	path string
	key  string

	once sync.Once
	mu   sync.RWMutex
	user *entities.SessionUser
}

// NewStore creates a store persisted at path under key
func NewStore(path, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{path: path, key: key}
}

// Init loads the persisted user. Only the first call reads the file; a
// missing or unreadable file leaves the store signed out.
func (s *Store) Init() {
	s.once.Do(func() {
		entries, err := s.readFile()
		if err != nil {
			log.Warn().Err(err).Str("path", s.path).Msg("Ignoring unreadable session file")
			return
		}

		raw, ok := entries[s.key]
		if !ok {
			return
		}
		var user entities.SessionUser
		if err := json.Unmarshal(raw, &user); err != nil {
			log.Warn().Err(err).Str("path", s.path).Msg("Ignoring malformed session entry")
			return
		}

		s.mu.Lock()
		s.user = &user
		s.mu.Unlock()
	})
}

// Current returns the signed-in user, nil when signed out
func (s *Store) Current() *entities.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set replaces the current user and persists it
func (s *Store) Set(user *entities.SessionUser) error {
	if user == nil {
		return s.Clear()
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.update(func(entries map[string]json.RawMessage) {
		entries[s.key] = raw
	}); err != nil {
		return err
	}
	s.user = user
	return nil
}

// Clear signs the user out and removes the persisted entry
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return s.update(func(entries map[string]json.RawMessage) {
		delete(entries, s.key)
	})
}

func (s *Store) readFile() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// update rewrites the file with fn applied, keeping unrelated keys. The
// caller holds mu.
func (s *Store) update(fn func(map[string]json.RawMessage)) error {
	entries, err := s.readFile()
	if err != nil {
		entries = make(map[string]json.RawMessage)
	}
	fn(entries)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
