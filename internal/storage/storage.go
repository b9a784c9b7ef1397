// Package storage holds the byte backends behind stored files: local disk
// (the default, where DiskPath is an absolute path) and S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrInvalidKey is returned for keys that are empty or escape the backend root.
var ErrInvalidKey = errors.New("invalid storage key")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
// Key is the location to pass back to Get/Put: an absolute path for Local, an object key for MinIO.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the byte backend used by the WOPI service.
type Storage interface {
	// Put replaces the object at key with the full content of r. Replacement is
	// atomic: readers observe either the previous or the new content, and a
	// failed Put leaves the previous content in place.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
