// Package handoff implements the one-shot envelope used to carry in-flight
// wizard state across the external identity-provider redirect. Envelopes are
// written once before redirecting and read-and-cleared exactly once on return.
package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-orderwizard/pkg/draft"
)

// DefaultKey is the well-known envelope name used when callers do not scope
// hand-offs themselves.
const DefaultKey = "orderwizard.handoff"

// Envelope is the state snapshot that survives the redirect. ReturnStep is a
// plain int (not wizard.Step) so the package stays dependency-free below the
// controller.
type Envelope struct {
	Draft      draft.OrderDraft `json:"draft"`
	ReturnStep int              `json:"returnStep"`
	Completed  []int            `json:"completed,omitempty"`
	SavedAt    time.Time        `json:"savedAt"`
}

// Store persists envelopes. Take removes the envelope as it reads so a hint
// is never applied twice. Two tabs racing through the redirect is out of
// scope: last writer wins, first reader takes.
type Store interface {
	Put(key string, env Envelope) error
	Take(key string) (Envelope, bool, error)
}

// MemoryStore keeps envelopes in process memory. Useful for tests and for
// single-process servers that never restart mid-redirect.
type MemoryStore struct {
	mu        sync.Mutex
	envelopes map[string]Envelope
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{envelopes: make(map[string]Envelope)}
}

// Put implements Store.
func (s *MemoryStore) Put(key string, env Envelope) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("handoff: key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelopes[key] = env
	return nil
}

// Take implements Store.
func (s *MemoryStore) Take(key string) (Envelope, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	env, ok := s.envelopes[key]
	if ok {
		delete(s.envelopes, key)
	}
	return env, ok, nil
}

// FileStore persists envelopes as JSON files under a directory, surviving
// process restarts during the redirect round trip.
type FileStore struct {
	dir string
}

// NewFileStore constructs a FileStore rooted at dir, creating it when needed.
func NewFileStore(dir string) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("handoff: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("handoff: create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Put implements Store.
func (s *FileStore) Put(key string, env Envelope) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("handoff: encode envelope: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("handoff: write envelope: %w", err)
	}
	return nil
}

// Take implements Store.
func (s *FileStore) Take(key string) (Envelope, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return Envelope{}, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Envelope{}, false, nil
	}
	if err != nil {
		return Envelope{}, false, fmt.Errorf("handoff: read envelope: %w", err)
	}

	// Remove before decoding so a malformed envelope is still consumed.
	_ = os.Remove(path)

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, false, fmt.Errorf("handoff: decode envelope: %w", err)
	}
	return env, true, nil
}

func (s *FileStore) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("handoff: key is required")
	}
	if strings.ContainsAny(key, "/\\") {
		return "", errors.New("handoff: key must not contain path separators")
	}
	return filepath.Join(s.dir, key+".json"), nil
}
