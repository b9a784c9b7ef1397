package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"resumehost/internal/config"
)

// ErrObjectNotFound is returned by MinIO.Get for keys with no object.
var ErrObjectNotFound = errors.New("object not found")

// objectAPI is the slice of *minio.Client the backend uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// MinIO keeps stored files in an S3-compatible bucket under the "files/" prefix.
// PutObject swaps the whole object in one request, so a reader sees either the
// previous or the next body of a document.
type MinIO struct {
	api    objectAPI
	bucket string
	prefix string
	now    func() time.Time

	// streamTimeout caps how long a body returned by Get may stay open.
	streamTimeout time.Duration
}

var _ Storage = (*MinIO)(nil)

// NewMinIO connects to the endpoint and creates the bucket when it is missing.
func NewMinIO(cfg config.MinIOConfig) (*MinIO, error) {
	switch {
	case cfg.Endpoint == "":
		return nil, fmt.Errorf("minio endpoint is required")
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return nil, fmt.Errorf("minio credentials are required")
	case cfg.Bucket == "":
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}
	return newMinIO(cli, cfg.Bucket), nil
}

func newMinIO(api objectAPI, bucket string) *MinIO {
	return &MinIO{
		api:           api,
		bucket:        bucket,
		prefix:        "files/",
		now:           time.Now,
		streamTimeout: 10 * time.Minute,
	}
}

// objectKey maps a storage key to a bucket key. Keys are relative and may
// not climb out of the prefix.
func (m *MinIO) objectKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), m.prefix)
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return m.prefix + clean, nil
}

// Put streams r into the bucket, replacing any previous body.
func (m *MinIO) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if r == nil {
		return ObjectInfo{}, fmt.Errorf("reader is required")
	}
	objKey, err := m.objectKey(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	contentType := opt.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := opt.Size
	if size < 0 {
		size = -1
	}
	up, err := m.api.PutObject(ctx, m.bucket, objKey, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put object %s: %w", objKey, err)
	}
	modified := up.LastModified
	if modified.IsZero() {
		modified = m.now()
	}
	return ObjectInfo{
		Key:          objKey,
		Size:         up.Size,
		ETag:         up.ETag,
		ContentType:  contentType,
		LastModified: modified,
		Metadata:     opt.Metadata,
	}, nil
}

// Get stats the object before opening it so a missing key fails here and
// not on the first Read.
//
// A *minio.Object issues its GET on the first Read, which for an HTTP
// response happens after the handler has returned and its request context
// has ended. The object is therefore opened on a context detached from ctx's
// cancellation and released when the returned reader is closed.
func (m *MinIO) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	objKey, err := m.objectKey(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := m.api.StatObject(ctx, m.bucket, objKey, minio.StatObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, translateMinIOError(objKey, err)
	}
	streamCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.streamTimeout)
	obj, err := m.api.GetObject(streamCtx, m.bucket, objKey, minio.GetObjectOptions{})
	if err != nil {
		cancel()
		return nil, ObjectInfo{}, translateMinIOError(objKey, err)
	}
	return &objectStream{ReadCloser: obj, cancel: cancel}, ObjectInfo{
		Key:          objKey,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}, nil
}

// Delete removes the object. Missing objects are not an error.
func (m *MinIO) Delete(ctx context.Context, key string) error {
	objKey, err := m.objectKey(key)
	if err != nil {
		return err
	}
	if err := m.api.RemoveObject(ctx, m.bucket, objKey, minio.RemoveObjectOptions{}); err != nil {
		if errors.Is(translateMinIOError(objKey, err), ErrObjectNotFound) {
			return nil
		}
		return fmt.Errorf("remove object %s: %w", objKey, err)
	}
	return nil
}

// objectStream releases the object's context once the body is consumed.
type objectStream struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (o *objectStream) Close() error {
	defer o.cancel()
	return o.ReadCloser.Close()
}

func translateMinIOError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	default:
		return fmt.Errorf("object %s: %w", key, err)
	}
}
