package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resumehost/internal/filestore"
	"resumehost/internal/identity"
	"resumehost/internal/logging"
	"resumehost/internal/model"
	"resumehost/internal/repository"
	"resumehost/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("file not found")
	ErrReaderNil  = errors.New("reader is nil")
	// ErrIO wraps every storage read/write failure.
	ErrIO = errors.New("storage i/o failure")
)

const (
	defaultRevisionLimit = 20
	maxRevisionLimit     = 100
)

// Content is an open GetFile stream. The caller must Close it.
type Content struct {
	io.ReadCloser
	Size int64
	File model.StoredFile
}

// WOPIService implements the WOPI host operations and the upload bootstrap.
type WOPIService interface {
	// Upload persists r as a new stored file and registers it.
	Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*model.StoredFile, error)

	// Get returns the registered metadata of a file.
	Get(ctx context.Context, id string) (*model.StoredFile, error)

	// CheckFileInfo describes a file for the WOPI client.
	CheckFileInfo(ctx context.Context, id string) (*model.FileInfo, error)

	// GetFile opens the current bytes of a file.
	GetFile(ctx context.Context, id string) (*Content, error)

	// PutFile replaces the full content of a file with r.
	PutFile(ctx context.Context, id string, r io.Reader, size int64) (*model.StoredFile, error)

	// Revisions lists the write history of a file, newest first.
	Revisions(ctx context.Context, id string, limit int) ([]model.Revision, error)
}

// Option configures a wopiService.
type Option func(*wopiService)

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *wopiService) { s.logger = l }
}

// WithMetrics records operation outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(s *wopiService) { s.metrics = m }
}

// WithClock overrides the time source used for write timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *wopiService) { s.now = now }
}

type wopiService struct {
	files     *filestore.Store
	store     storage.Storage
	revisions repository.RevisionRepository
	identity  identity.Provider
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

// NewWOPIService constructs a new WOPIService.
func NewWOPIService(files *filestore.Store, store storage.Storage, revisions repository.RevisionRepository, ids identity.Provider, opts ...Option) WOPIService {
	s := &wopiService{
		files:     files,
		store:     store,
		revisions: revisions,
		identity:  ids,
		logger:    logging.Discard(),
		tracer:    otel.Tracer("resumehost/service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *wopiService) Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*model.StoredFile, error) {
	ctx, span := s.tracer.Start(ctx, "wopi.Upload", trace.WithAttributes(
		attribute.String("file.name", originalName),
		attribute.Int64("file.size", size),
	))
	defer span.End()

	if r == nil {
		s.metrics.observe("upload", ErrReaderNil)
		return nil, ErrReaderNil
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.NewString() + filepath.Ext(originalName)
	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalName,
		},
	})
	if err != nil {
		err = fmt.Errorf("%w: upload to storage: %w", ErrIO, err)
		s.fail(span, "upload", err)
		return nil, err
	}
	// The client went away while the bytes were landing: nobody will learn
	// the id, so the object is removed instead of registered.
	if err := ctx.Err(); err != nil {
		s.discard(ctx, info.Key)
		s.fail(span, "upload", err)
		return nil, err
	}

	f := s.files.Register(originalName, info.Key, contentType, info.Size)
	span.SetAttributes(attribute.String("file.id", f.ID))
	s.metrics.observe("upload", nil)
	s.journal(ctx, f, model.RevisionUpload)
	s.logger.Info("file_registered",
		"component", "wopi",
		"file_id", f.ID,
		"original_name", f.OriginalName,
		"size", f.SizeBytes,
	)
	return &f, nil
}

func (s *wopiService) discard(ctx context.Context, key string) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.store.Delete(dctx, key); err != nil {
		s.logger.Warn("abandoned_upload_cleanup_failed",
			"component", "wopi",
			"key", key,
			"error", err.Error(),
		)
	}
}

func (s *wopiService) Get(ctx context.Context, id string) (*model.StoredFile, error) {
	f, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *wopiService) CheckFileInfo(ctx context.Context, id string) (*model.FileInfo, error) {
	ctx, span := s.tracer.Start(ctx, "wopi.CheckFileInfo", trace.WithAttributes(attribute.String("file.id", id)))
	defer span.End()

	f, err := s.lookup(id)
	if err != nil {
		s.fail(span, "check_file_info", err)
		return nil, err
	}
	who, err := s.identity.Identify(ctx, id)
	if err != nil {
		err = fmt.Errorf("identify: %w", err)
		s.fail(span, "check_file_info", err)
		return nil, err
	}

	s.metrics.observe("check_file_info", nil)
	return &model.FileInfo{
		BaseFileName:     f.OriginalName,
		OwnerID:          who.OwnerID,
		Size:             f.SizeBytes,
		Version:          strconv.FormatInt(f.Version, 10),
		UserID:           who.UserID,
		UserFriendlyName: who.UserFriendlyName,
		LastModifiedTime: f.LastModifiedTime.UTC().Format(time.RFC3339Nano),
		UserCanWrite:     who.Permissions.UserCanWrite,
		DisablePrint:     who.Permissions.DisablePrint,
		DisableExport:    who.Permissions.DisableExport,
		DisableCopy:      who.Permissions.DisableCopy,
		SupportsUpdate:   who.Permissions.UserCanWrite,
		SupportsLocks:    false,
	}, nil
}

func (s *wopiService) GetFile(ctx context.Context, id string) (*Content, error) {
	ctx, span := s.tracer.Start(ctx, "wopi.GetFile", trace.WithAttributes(attribute.String("file.id", id)))
	defer span.End()

	f, err := s.lookup(id)
	if err != nil {
		s.fail(span, "get_file", err)
		return nil, err
	}
	rc, info, err := s.store.Get(ctx, f.DiskPath)
	if err != nil {
		err = fmt.Errorf("%w: open %s: %w", ErrIO, id, err)
		s.fail(span, "get_file", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("file.size", info.Size))
	s.metrics.observe("get_file", nil)
	return &Content{ReadCloser: rc, Size: info.Size, File: f}, nil
}

// PutFile holds the file's write lock across the storage replace and the
// metadata update, so concurrent writers of one file are applied one at a
// time and metadata always describes the bytes on disk.
func (s *wopiService) PutFile(ctx context.Context, id string, r io.Reader, size int64) (*model.StoredFile, error) {
	ctx, span := s.tracer.Start(ctx, "wopi.PutFile", trace.WithAttributes(
		attribute.String("file.id", id),
		attribute.Int64("file.size", size),
	))
	defer span.End()

	if id == "" {
		s.fail(span, "put_file", ErrIDRequired)
		return nil, ErrIDRequired
	}
	if r == nil {
		s.fail(span, "put_file", ErrReaderNil)
		return nil, ErrReaderNil
	}

	unlock, err := s.files.LockWrite(id)
	if err != nil {
		err = translate(err)
		s.fail(span, "put_file", err)
		return nil, err
	}
	defer unlock()

	f, err := s.lookup(id)
	if err != nil {
		s.fail(span, "put_file", err)
		return nil, err
	}

	info, err := s.store.Put(ctx, f.DiskPath, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: f.ContentType,
	})
	if err != nil {
		err = fmt.Errorf("%w: write %s: %w", ErrIO, id, err)
		s.fail(span, "put_file", err)
		return nil, err
	}

	updated, err := s.files.RecordWrite(id, info.Size, s.now())
	if err != nil {
		err = translate(err)
		s.fail(span, "put_file", err)
		return nil, err
	}

	s.metrics.observe("put_file", nil)
	s.journal(ctx, updated, model.RevisionPut)
	s.logger.Debug("file_written",
		"component", "wopi",
		"file_id", id,
		"size", updated.SizeBytes,
		"version", updated.Version,
	)
	return &updated, nil
}

func (s *wopiService) Revisions(ctx context.Context, id string, limit int) ([]model.Revision, error) {
	if _, err := s.lookup(id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRevisionLimit
	}
	if limit > maxRevisionLimit {
		limit = maxRevisionLimit
	}
	return s.revisions.ListByFile(ctx, id, limit)
}

func (s *wopiService) lookup(id string) (model.StoredFile, error) {
	if id == "" {
		return model.StoredFile{}, ErrIDRequired
	}
	f, err := s.files.Get(id)
	if err != nil {
		return model.StoredFile{}, translate(err)
	}
	return f, nil
}

// journal appends a revision. The write already succeeded, so a journal
// failure is logged and not returned.
func (s *wopiService) journal(ctx context.Context, f model.StoredFile, ev model.RevisionEvent) {
	rev := model.Revision{
		FileID:     f.ID,
		Version:    f.Version,
		SizeBytes:  f.SizeBytes,
		Event:      ev,
		RecordedAt: f.LastModifiedTime,
	}
	if err := s.revisions.Append(ctx, rev); err != nil {
		s.logger.Warn("revision_journal_failed",
			"component", "wopi",
			"file_id", f.ID,
			"version", f.Version,
			"error", err.Error(),
		)
	}
}

func (s *wopiService) fail(span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.observe(op, err)
	if errors.Is(err, ErrIO) {
		s.logger.Error("wopi_storage_error", "component", "wopi", "operation", op, "error", err.Error())
	}
}

func translate(err error) error {
	if errors.Is(err, filestore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
