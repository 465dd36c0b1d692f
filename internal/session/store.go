// Package session persists the transcript and notepad to the local
// filesystem with JSON encoding, so a chat survives restarts.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/duetmind/duet/internal/chat"
)

const (
	transcriptFile = "transcript.json"
	notepadFile    = "notepad.md"
)

// Snapshot is the persisted state of a session.
type Snapshot struct {
	Messages []chat.Message `json:"messages"`
	Notepad  string         `json:"-"`
}

// Store reads and writes session snapshots under a base directory.
// Writes are atomic: data is written to a temp file and renamed into
// place, so a crash never leaves a torn file behind.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created if it
// doesn't exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string { return s.dir }

// Save persists the snapshot.
func (s *Store) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(struct {
		Messages []chat.Message `json:"messages"`
	}{Messages: snap.Messages}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	if err := atomicWriteFile(filepath.Join(s.dir, transcriptFile), data, 0644); err != nil {
		return err
	}
	return atomicWriteFile(filepath.Join(s.dir, notepadFile), []byte(snap.Notepad), 0644)
}

// Load reads the persisted snapshot. A missing or unreadable session is
// not an error: cold starts and corrupted files both come back as an
// empty snapshot so the app can begin fresh.
func (s *Store) Load() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot

	if data, err := os.ReadFile(filepath.Join(s.dir, transcriptFile)); err == nil {
		var decoded struct {
			Messages []chat.Message `json:"messages"`
		}
		if err := json.Unmarshal(data, &decoded); err == nil {
			snap.Messages = decoded.Messages
		}
	}

	if data, err := os.ReadFile(filepath.Join(s.dir, notepadFile)); err == nil {
		snap.Notepad = string(data)
	}

	return snap
}

// Clear removes the persisted session files.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{transcriptFile, notepadFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it into place.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
