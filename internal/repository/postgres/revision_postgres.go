package postgres

import (
	"context"
	"database/sql"

	"resumehost/internal/model"
	"resumehost/internal/repository"
)

// RevisionPostgres is a PostgreSQL implementation of repository.RevisionRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type RevisionPostgres struct {
	db *sql.DB
}

// NewRevisionPostgres creates a new RevisionPostgres repository.
func NewRevisionPostgres(db *sql.DB) *RevisionPostgres {
	return &RevisionPostgres{db: db}
}

var _ repository.RevisionRepository = (*RevisionPostgres)(nil)

// Append inserts one revision row. A duplicate (file_id, version) is ignored.
func (r *RevisionPostgres) Append(ctx context.Context, rev model.Revision) error {
	const q = `
		INSERT INTO file_revisions (file_id, version, size, event, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (file_id, version) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q,
		rev.FileID,
		rev.Version,
		rev.SizeBytes,
		string(rev.Event),
		rev.RecordedAt,
	)
	return err
}

// ListByFile returns the newest revisions of a file first.
func (r *RevisionPostgres) ListByFile(ctx context.Context, fileID string, limit int) ([]model.Revision, error) {
	const q = `
		SELECT file_id, version, size, event, recorded_at
		FROM file_revisions
		WHERE file_id = $1
		ORDER BY version DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, fileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Revision, 0)
	for rows.Next() {
		var (
			rev   model.Revision
			event string
		)
		if err := rows.Scan(
			&rev.FileID,
			&rev.Version,
			&rev.SizeBytes,
			&event,
			&rev.RecordedAt,
		); err != nil {
			return nil, err
		}
		rev.Event = model.RevisionEvent(event)
		items = append(items, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Ping checks DB connectivity.
func (r *RevisionPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
