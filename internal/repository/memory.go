package repository

import (
	"context"
	"sync"

	"resumehost/internal/model"
)

// MemoryRevisions keeps revisions in process memory. It is used when no database is configured.
type MemoryRevisions struct {
	mu   sync.RWMutex
	revs map[string][]model.Revision
}

var _ RevisionRepository = (*MemoryRevisions)(nil)

// NewMemoryRevisions returns an empty journal.
func NewMemoryRevisions() *MemoryRevisions {
	return &MemoryRevisions{revs: make(map[string][]model.Revision)}
}

func (m *MemoryRevisions) Append(ctx context.Context, rev model.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revs[rev.FileID] = append(m.revs[rev.FileID], rev)
	return nil
}

func (m *MemoryRevisions) ListByFile(ctx context.Context, fileID string, limit int) ([]model.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.revs[fileID]
	out := make([]model.Revision, 0, min(len(src), max(limit, 0)))
	for i := len(src) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (m *MemoryRevisions) Ping(context.Context) error {
	return nil
}
