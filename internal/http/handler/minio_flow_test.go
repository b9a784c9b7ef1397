package handler

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"resumehost/internal/config"
	"resumehost/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Object struct {
	body        []byte
	contentType string
	modified    time.Time
}

// s3Stub answers the handful of S3 calls minio-go makes for a single bucket.
type s3Stub struct {
	mu      sync.Mutex
	objects map[string]s3Object
}

func newS3Stub() *s3Stub {
	return &s3Stub{objects: map[string]s3Object{}}
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.URL.Query()["location"]; ok {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
			`<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
		return
	}

	_, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if key == "" {
		// Bucket-level HEAD (exists) and PUT (create).
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, err := readS3Body(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.objects[key] = s3Object{body: body, contentType: r.Header.Get("Content-Type"), modified: time.Now().UTC()}
		s.mu.Unlock()
		w.Header().Set("ETag", `"`+strconv.Itoa(len(body))+`"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead, http.MethodGet:
		s.mu.Lock()
		obj, ok := s.objects[key]
		s.mu.Unlock()
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			}
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.body)))
		w.Header().Set("Content-Type", obj.contentType)
		w.Header().Set("ETag", `"`+strconv.Itoa(len(obj.body))+`"`)
		w.Header().Set("Last-Modified", obj.modified.Format(http.TimeFormat))
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(obj.body)
		}
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

// readS3Body strips aws-chunked framing when the client streams a signed payload.
func readS3Body(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return io.ReadAll(r.Body)
	}
	br := bufio.NewReader(r.Body)
	var out []byte
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimRight(line, "\r\n"), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, err
		}
		out = append(out, chunk...)
		if _, err := br.Discard(2); err != nil {
			return nil, err
		}
	}
}

func TestWOPIFlow_MinIOBodyOutlivesRequestDeadline(t *testing.T) {
	srv := httptest.NewServer(newS3Stub())
	defer srv.Close()

	remote, err := storage.NewMinIO(config.MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "resumes",
	})
	require.NoError(t, err)

	// newHostAppWith bounds every WOPI request with a 5s deadline.
	app := newHostAppWith(t, remote)
	up := upload(t, app, "resume.docx", "abc")

	body, version := contents(t, app, up.FileID)
	assert.Equal(t, "abc", body)
	assert.Equal(t, "1", version)

	resp := putContents(t, app, up.FileID, "xyz!")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, version = contents(t, app, up.FileID)
	assert.Equal(t, "xyz!", body)
	assert.Equal(t, "2", version)
	assert.Equal(t, float64(4), fileInfo(t, app, up.FileID)["Size"])
}
