package model

import "time"

// StoredFile is a file registered with the host.
// DiskPath is an absolute filesystem path for the local backend and an object key for MinIO.
type StoredFile struct {
	ID               string    `json:"id"`
	OriginalName     string    `json:"original_name"`
	DiskPath         string    `json:"-"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size"`
	Version          int64     `json:"version"`
	LastModifiedTime time.Time `json:"last_modified_time"`
}

// FileInfo is the CheckFileInfo response body. Field names are fixed by the WOPI protocol.
type FileInfo struct {
	BaseFileName     string `json:"BaseFileName"`
	OwnerID          string `json:"OwnerId"`
	Size             int64  `json:"Size"`
	Version          string `json:"Version"`
	UserID           string `json:"UserId"`
	UserFriendlyName string `json:"UserFriendlyName"`
	LastModifiedTime string `json:"LastModifiedTime"`
	UserCanWrite     bool   `json:"UserCanWrite"`
	DisablePrint     bool   `json:"DisablePrint"`
	DisableExport    bool   `json:"DisableExport"`
	DisableCopy      bool   `json:"DisableCopy"`
	SupportsUpdate   bool   `json:"SupportsUpdate"`
	SupportsLocks    bool   `json:"SupportsLocks"`
}

// RevisionEvent names what produced a revision.
type RevisionEvent string

const (
	RevisionUpload RevisionEvent = "upload"
	RevisionPut    RevisionEvent = "put"
)

// Revision is one journal entry: a file reached Version with SizeBytes at RecordedAt.
type Revision struct {
	FileID     string        `json:"file_id"`
	Version    int64         `json:"version"`
	SizeBytes  int64         `json:"size"`
	Event      RevisionEvent `json:"event"`
	RecordedAt time.Time     `json:"recorded_at"`
}
