package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores objects as files under a root directory.
// Put writes to <root>/tmp first and renames onto the target, so a reader
// holding an open descriptor keeps the old bytes and later opens see the new ones.
type Local struct {
	root string
}

var _ Storage = (*Local)(nil)

// NewLocal creates the root (and its tmp directory) if needed.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute root directory.
func (l *Local) Root() string {
	return l.root
}

// Put atomically replaces the file at key.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if r == nil {
		return ObjectInfo{}, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	dst, err := l.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ObjectInfo{}, err
	}

	tmp, err := os.CreateTemp(filepath.Join(l.root, "tmp"), "put-*")
	if err != nil {
		return ObjectInfo{}, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return ObjectInfo{}, err
	}
	if opt.Size >= 0 && opt.Size != n {
		cleanup()
		return ObjectInfo{}, fmt.Errorf("short write: expected %d bytes, got %d", opt.Size, n)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return ObjectInfo{}, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return ObjectInfo{}, err
	}
	// Last chance to abandon the write before it becomes visible.
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmpPath)
		return ObjectInfo{}, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return ObjectInfo{}, err
	}

	st, err := os.Stat(dst)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          dst,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the file at key.
func (l *Local) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	path, err := l.resolve(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("%s is a directory", path)
	}
	return f, ObjectInfo{Key: path, Size: st.Size(), LastModified: st.ModTime()}, nil
}

// Delete removes the file at key. Missing files are ignored.
func (l *Local) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a relative key or an absolute path inside root to an absolute path.
func (l *Local) resolve(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	var p string
	if filepath.IsAbs(key) {
		p = filepath.Clean(key)
	} else {
		p = filepath.Join(l.root, filepath.Clean(filepath.FromSlash(key)))
	}
	rel, err := filepath.Rel(l.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return p, nil
}
