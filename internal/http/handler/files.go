package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"resumehost/internal/model"
	"resumehost/internal/service"
)

// Launcher builds the editor launch URL for a file.
type Launcher interface {
	URL(fileID string) (string, error)
}

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	FileID    string `json:"fileId"`
	EditorURL string `json:"editorUrl,omitempty"`
}

// EditorResponse is returned by GET /editor/:fileId.
type EditorResponse struct {
	FileID       string `json:"fileId"`
	EditorURL    string `json:"editorUrl"`
	ReadyGraceMS int64  `json:"readyGraceMs"`
}

// RevisionList wraps the revision history of a file.
type RevisionList struct {
	Data []model.Revision `json:"data"`
}

// UploadFile godoc
// @Summary Upload a resume
// @Description Stores the multipart field "file" and registers it for editing.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /upload [post]
func UploadFile(svc service.WOPIService, launcher Launcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		stored, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "failed to store file")
		}

		// A misconfigured editor address must not lose the upload; the
		// client can still ask /editor/:fileId later.
		url, _ := launcher.URL(stored.ID)
		return c.JSON(UploadResponse{FileID: stored.ID, EditorURL: url})
	}
}

// EditorURL godoc
// @Summary Editor launch URL for a file
// @Tags files
// @Produce json
// @Param fileId path string true "File id"
// @Success 200 {object} EditorResponse
// @Failure 404 {object} errorPayload
// @Router /editor/{fileId} [get]
func EditorURL(svc service.WOPIService, launcher Launcher, readyGraceMS int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := svc.Get(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return wopiError(c, err, "failed to read file")
		}
		url, err := launcher.URL(f.ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "EDITOR_MISCONFIGURED", "editor url is not configured")
		}
		return c.JSON(EditorResponse{FileID: f.ID, EditorURL: url, ReadyGraceMS: readyGraceMS})
	}
}

// ListRevisions godoc
// @Summary Write history of a file, newest first
// @Tags files
// @Produce json
// @Param fileId path string true "File id"
// @Param limit query int false "Max entries (default 20, max 100)"
// @Success 200 {object} RevisionList
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /files/{fileId}/revisions [get]
func ListRevisions(svc service.WOPIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 0)
		if limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		revs, err := svc.Revisions(c.UserContext(), c.Params("fileId"), limit)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if revs == nil {
			revs = []model.Revision{}
		}
		return c.JSON(RevisionList{Data: revs})
	}
}
