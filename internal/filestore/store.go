// Package filestore is the authoritative registry from file id to stored-file
// metadata. It never touches file bytes.
package filestore

import (
	"errors"
	"sync"
	"time"

	"resumehost/internal/model"
)

// ErrNotFound is returned for ids that were never registered.
var ErrNotFound = errors.New("file not found")

type entry struct {
	// writeMu serializes writers of one file; it is never held by the registry itself.
	writeMu sync.Mutex
	file    model.StoredFile
}

// Store is safe for concurrent use. The map lock only guards map and metadata
// access; writers of different files never contend on anything but that.
type Store struct {
	mu    sync.RWMutex
	files map[string]*entry
	ids   *IDGenerator
	now   func() time.Time
}

// New returns an empty Store using the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty Store whose ids and timestamps come from now.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		files: make(map[string]*entry),
		ids:   NewIDGenerator(now),
		now:   now,
	}
}

// Register creates a new stored file at version 1 and returns a copy of it.
func (s *Store) Register(name, diskPath, contentType string, sizeBytes int64) model.StoredFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.Next()
	for s.files[id] != nil {
		id = s.ids.Next()
	}
	e := &entry{file: model.StoredFile{
		ID:               id,
		OriginalName:     name,
		DiskPath:         diskPath,
		ContentType:      contentType,
		SizeBytes:        sizeBytes,
		Version:          1,
		LastModifiedTime: s.now().UTC(),
	}}
	s.files[id] = e
	return e.file
}

// Get returns a copy of the stored file.
func (s *Store) Get(id string) (model.StoredFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.files[id]
	if !ok {
		return model.StoredFile{}, ErrNotFound
	}
	return e.file, nil
}

// RecordWrite advances metadata after new bytes were persisted at the file's DiskPath.
// LastModifiedTime never moves backwards.
func (s *Store) RecordWrite(id string, newSize int64, ts time.Time) (model.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.files[id]
	if !ok {
		return model.StoredFile{}, ErrNotFound
	}
	e.file.SizeBytes = newSize
	e.file.Version++
	if ts = ts.UTC(); ts.After(e.file.LastModifiedTime) {
		e.file.LastModifiedTime = ts
	}
	return e.file, nil
}

// LockWrite acquires the per-file write lock. The caller must call unlock exactly once.
func (s *Store) LockWrite(id string) (unlock func(), err error) {
	s.mu.RLock()
	e, ok := s.files[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	e.writeMu.Lock()
	return e.writeMu.Unlock, nil
}

// Len reports how many files are registered.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
