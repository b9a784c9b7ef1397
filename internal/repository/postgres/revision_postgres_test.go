package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"resumehost/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRevisionPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRevisionPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rev := model.Revision{FileID: "1700000000000", Version: 2, SizeBytes: 4, Event: model.RevisionPut, RecordedAt: now}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO file_revisions").
			WithArgs(rev.FileID, rev.Version, rev.SizeBytes, "put", rev.RecordedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(ctx, rev)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO file_revisions").
			WithArgs(rev.FileID, rev.Version, rev.SizeBytes, "put", rev.RecordedAt).
			WillReturnError(errors.New("db error"))

		err := repo.Append(ctx, rev)

		assert.EqualError(t, err, "db error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRevisionPostgres_ListByFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRevisionPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"file_id", "version", "size", "event", "recorded_at"}).
			AddRow("f1", 2, 4, "put", now).
			AddRow("f1", 1, 3, "upload", now.Add(-time.Minute))

		mock.ExpectQuery("SELECT file_id, version, size, event, recorded_at FROM file_revisions").
			WithArgs("f1", 20).
			WillReturnRows(rows)

		revs, err := repo.ListByFile(ctx, "f1", 20)

		assert.NoError(t, err)
		assert.Len(t, revs, 2)
		assert.Equal(t, int64(2), revs[0].Version)
		assert.Equal(t, model.RevisionPut, revs[0].Event)
		assert.Equal(t, model.RevisionUpload, revs[1].Event)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT file_id").
			WithArgs("none", 20).
			WillReturnRows(sqlmock.NewRows([]string{"file_id", "version", "size", "event", "recorded_at"}))

		revs, err := repo.ListByFile(ctx, "none", 20)

		assert.NoError(t, err)
		assert.NotNil(t, revs)
		assert.Empty(t, revs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT file_id").
			WithArgs("f1", 20).
			WillReturnError(errors.New("query error"))

		revs, err := repo.ListByFile(ctx, "f1", 20)

		assert.Error(t, err)
		assert.Nil(t, revs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan error", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"file_id", "version", "size", "event", "recorded_at"}).
			AddRow("f1", "not-a-number", 4, "put", now)
		mock.ExpectQuery("SELECT file_id").
			WithArgs("f1", 20).
			WillReturnRows(rows)

		_, err := repo.ListByFile(ctx, "f1", 20)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRevisionPostgres_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))

	assert.EqualError(t, NewRevisionPostgres(db).Ping(context.Background()), "down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
