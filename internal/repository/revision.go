package repository

import (
	"context"

	"resumehost/internal/model"
)

// RevisionRepository records the write history of stored files.
// Implementations only persist; they do not interpret revisions.
type RevisionRepository interface {
	// Append stores one revision.
	Append(ctx context.Context, rev model.Revision) error

	// ListByFile returns up to limit revisions of fileID, newest first.
	ListByFile(ctx context.Context, fileID string, limit int) ([]model.Revision, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
