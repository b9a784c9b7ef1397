package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"resumehost/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("connection reset")
	}
	n := min(len(p), f.after)
	for i := range n {
		p[i] = 'x'
	}
	f.after -= n
	return n, nil
}

func readAll(t *testing.T, s Storage, key string) []byte {
	t.Helper()
	rc, _, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return b
}

func TestLocal_PutGet(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	info, err := l.Put(ctx, "resume.docx", strings.NewReader("abc"), PutObjectOptions{Size: 3})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(info.Key))
	assert.Equal(t, filepath.Join(l.Root(), "resume.docx"), info.Key)
	assert.Equal(t, int64(3), info.Size)

	// The absolute key round-trips.
	assert.Equal(t, []byte("abc"), readAll(t, l, info.Key))

	binary := []byte{0x00, 0xff, 0x50, 0x4b, 0x03, 0x04, 0x00}
	_, err = l.Put(ctx, info.Key, bytes.NewReader(binary), PutObjectOptions{Size: -1})
	require.NoError(t, err)
	assert.Equal(t, binary, readAll(t, l, info.Key))

	entries, err := os.ReadDir(filepath.Join(l.Root(), "tmp"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must not linger")
}

func TestLocal_FailedPutKeepsPreviousContent(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	info, err := l.Put(ctx, "a.docx", strings.NewReader("original"), PutObjectOptions{Size: -1})
	require.NoError(t, err)

	t.Run("reader error", func(t *testing.T) {
		_, err := l.Put(ctx, info.Key, &failingReader{after: 3}, PutObjectOptions{Size: -1})
		require.Error(t, err)
		assert.Equal(t, []byte("original"), readAll(t, l, info.Key))
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := l.Put(ctx, info.Key, strings.NewReader("xy"), PutObjectOptions{Size: 10})
		require.Error(t, err)
		assert.Equal(t, []byte("original"), readAll(t, l, info.Key))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := l.Put(cctx, info.Key, strings.NewReader("new"), PutObjectOptions{Size: 3})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []byte("original"), readAll(t, l, info.Key))
	})
}

func TestLocal_ReaderKeepsOldBytesAcrossReplace(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	info, err := l.Put(ctx, "a", strings.NewReader("old-content"), PutObjectOptions{Size: -1})
	require.NoError(t, err)

	rc, _, err := l.Get(ctx, info.Key)
	require.NoError(t, err)
	defer rc.Close()

	_, err = l.Put(ctx, info.Key, strings.NewReader("new"), PutObjectOptions{Size: -1})
	require.NoError(t, err)

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "old-content", string(b))
	assert.Equal(t, []byte("new"), readAll(t, l, info.Key))
}

func TestLocal_ConcurrentPutsNeverTear(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	a := bytes.Repeat([]byte("A"), 1<<20)
	b := bytes.Repeat([]byte("B"), 1<<20)
	info, err := l.Put(ctx, "doc", bytes.NewReader(a), PutObjectOptions{Size: -1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		payload := a
		if i%2 == 1 {
			payload = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Put(ctx, info.Key, bytes.NewReader(payload), PutObjectOptions{Size: int64(len(payload))})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got := readAll(t, l, info.Key)
	assert.True(t, bytes.Equal(got, a) || bytes.Equal(got, b), "content must match one payload in full")
}

func TestLocal_Errors(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = NewLocal("  ")
	assert.Error(t, err)

	for _, key := range []string{"", "../escape", "/etc/passwd", "."} {
		_, err := l.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{Size: -1})
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}

	_, _, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.Put(ctx, "x", nil, PutObjectOptions{})
	assert.Error(t, err)

	assert.NoError(t, l.Delete(ctx, "missing"))
}

func TestLocal_Delete(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	info, err := l.Put(ctx, "a", strings.NewReader("x"), PutObjectOptions{Size: 1})
	require.NoError(t, err)
	require.NoError(t, l.Delete(ctx, info.Key))
	_, _, err = l.Get(ctx, info.Key)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew(t *testing.T) {
	s, err := New(config.StorageConfig{Driver: "local", UploadDir: t.TempDir()}, config.MinIOConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	_, err = New(config.StorageConfig{Driver: "minio"}, config.MinIOConfig{})
	assert.ErrorContains(t, err, "minio endpoint is required")

	_, err = New(config.StorageConfig{Driver: "ftp"}, config.MinIOConfig{})
	assert.ErrorContains(t, err, "unsupported storage driver")
}
