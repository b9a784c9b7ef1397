package handler

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"resumehost/internal/service"
)

// ItemVersionHeader carries the file version on GetFile and PutFile responses.
const ItemVersionHeader = "X-WOPI-ItemVersion"

// CheckFileInfo godoc
// @Summary WOPI CheckFileInfo
// @Tags wopi
// @Produce json
// @Param fileId path string true "File id"
// @Success 200 {object} model.FileInfo
// @Failure 404 {object} errorPayload
// @Router /wopi/files/{fileId} [get]
func CheckFileInfo(svc service.WOPIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := svc.CheckFileInfo(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return wopiError(c, err, "failed to read file")
		}
		return c.JSON(info)
	}
}

// GetFileContents godoc
// @Summary WOPI GetFile
// @Tags wopi
// @Produce octet-stream
// @Param fileId path string true "File id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /wopi/files/{fileId}/contents [get]
func GetFileContents(svc service.WOPIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content, err := svc.GetFile(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return wopiError(c, err, "failed to read file")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		c.Set(ItemVersionHeader, strconv.FormatInt(content.File.Version, 10))
		// fasthttp closes the stream once the body is written.
		return c.SendStream(content, int(content.Size))
	}
}

// PutFileContents godoc
// @Summary WOPI PutFile
// @Description Replaces the whole file with the request body. Any content type is accepted.
// @Tags wopi
// @Accept */*
// @Param fileId path string true "File id"
// @Success 200
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /wopi/files/{fileId}/contents [post]
func PutFileContents(svc service.WOPIService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.BodyRaw()
		f, err := svc.PutFile(c.UserContext(), c.Params("fileId"), bytes.NewReader(body), int64(len(body)))
		if err != nil {
			return wopiError(c, err, "failed to write file")
		}
		c.Set(ItemVersionHeader, strconv.FormatInt(f.Version, 10))
		return c.Status(fiber.StatusOK).Send(nil)
	}
}

// wopiError maps service errors to responses. Unknown and empty ids are
// both reported as a missing file.
func wopiError(c *fiber.Ctx, err error, ioMessage string) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusNotFound, "FILE_NOT_FOUND", "file not found")
	case errors.Is(err, service.ErrIO):
		return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", ioMessage)
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
