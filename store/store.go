// Package store persists submissions as a single JSON document on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cppla/requestdesk/models"
)

// SubmissionStore owns the JSON file holding every submission in arrival order.
//
// All access goes through one mutex, so appends from concurrent requests in
// this process never lose each other. Other processes writing the same file
// still race with last-write-wins semantics.
type SubmissionStore struct {
	path string
	mu   sync.Mutex
}

// NewSubmissionStore returns a store backed by the file at path. Nothing is
// created until the first operation.
func NewSubmissionStore(path string) *SubmissionStore {
	return &SubmissionStore{path: path}
}

// Path reports the backing file location.
func (s *SubmissionStore) Path() string {
	return s.path
}

// EnsureInitialized creates the parent directory and an empty document when
// the backing file does not exist yet. An existing file is left untouched.
func (s *SubmissionStore) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked()
}

// Append adds sub to the end of the stored list and rewrites the whole file.
// Unreadable or corrupt content is replaced by a document holding only sub.
func (s *SubmissionStore) Append(sub models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(); err != nil {
		return err
	}
	doc, err := s.readLocked()
	if err != nil {
		doc = models.EmptyDocument()
	}
	doc.Submissions = append(doc.Submissions, sub)
	return s.writeLocked(doc)
}

// ReadAll returns the stored document. Any failure yields an empty document.
func (s *SubmissionStore) ReadAll() models.SubmissionDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLocked(); err != nil {
		return models.EmptyDocument()
	}
	doc, err := s.readLocked()
	if err != nil {
		return models.EmptyDocument()
	}
	return doc
}

func (s *SubmissionStore) ensureLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat store file: %w", err)
	}
	return s.writeLocked(models.EmptyDocument())
}

func (s *SubmissionStore) readLocked() (models.SubmissionDocument, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return models.SubmissionDocument{}, fmt.Errorf("read store file: %w", err)
	}
	var doc models.SubmissionDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return models.SubmissionDocument{}, fmt.Errorf("parse store file: %w", err)
	}
	if doc.Submissions == nil {
		doc.Submissions = []models.Submission{}
	}
	return doc, nil
}

// writeLocked replaces the file atomically via a sibling temp file.
func (s *SubmissionStore) writeLocked(doc models.SubmissionDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp store file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
