package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"resumehost/internal/ai"
	"resumehost/internal/assist"
)

// Assistant is the resume-writing collaborator behind /assist.
type Assistant interface {
	ExtractKeywords(ctx context.Context, jobDescription string) ([]string, error)
	ImproveBullet(ctx context.Context, keywords []string, bullet string) (string, error)
	NewBullet(ctx context.Context, keyword string, lines int, withHeader bool) (string, error)
	ScoreATS(ctx context.Context, resume, jobDescription string) (assist.ATSResult, error)
}

var _ Assistant = (*assist.Assistant)(nil)

type keywordsRequest struct {
	JobDescription string `json:"jobDescription"`
}

type keywordsResponse struct {
	Keywords []string `json:"keywords"`
}

type improveBulletRequest struct {
	Keywords []string `json:"keywords"`
	Bullet   string   `json:"bullet"`
}

type newBulletRequest struct {
	Keyword    string `json:"keyword"`
	Lines      int    `json:"lines"`
	WithHeader bool   `json:"withHeader"`
}

type bulletResponse struct {
	Bullet string `json:"bullet"`
}

type atsRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// ExtractKeywords godoc
// @Summary Extract keywords from a job description
// @Tags assist
// @Accept json
// @Produce json
// @Param body body keywordsRequest true "Job description"
// @Success 200 {object} keywordsResponse
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /assist/keywords [post]
func ExtractKeywords(a Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req keywordsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		kws, err := a.ExtractKeywords(c.UserContext(), req.JobDescription)
		if err != nil {
			return assistError(c, err)
		}
		if kws == nil {
			kws = []string{}
		}
		return c.JSON(keywordsResponse{Keywords: kws})
	}
}

// ImproveBullet godoc
// @Summary Rewrite a bullet point around keywords
// @Tags assist
// @Accept json
// @Produce json
// @Param body body improveBulletRequest true "Bullet and keywords"
// @Success 200 {object} bulletResponse
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /assist/bullet [post]
func ImproveBullet(a Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req improveBulletRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		text, err := a.ImproveBullet(c.UserContext(), req.Keywords, req.Bullet)
		if err != nil {
			return assistError(c, err)
		}
		return c.JSON(bulletResponse{Bullet: text})
	}
}

// NewBullet godoc
// @Summary Write a new bullet point about a keyword
// @Tags assist
// @Accept json
// @Produce json
// @Param body body newBulletRequest true "Keyword, line count, header flag"
// @Success 200 {object} bulletResponse
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /assist/bullet/new [post]
func NewBullet(a Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := newBulletRequest{Lines: 1}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		text, err := a.NewBullet(c.UserContext(), req.Keyword, req.Lines, req.WithHeader)
		if err != nil {
			return assistError(c, err)
		}
		return c.JSON(bulletResponse{Bullet: text})
	}
}

// ScoreATS godoc
// @Summary Score a resume against a job description
// @Tags assist
// @Accept json
// @Produce json
// @Param body body atsRequest true "Resume text and job description"
// @Success 200 {object} assist.ATSResult
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /assist/ats [post]
func ScoreATS(a Assistant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req atsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := a.ScoreATS(c.UserContext(), req.Resume, req.JobDescription)
		if err != nil {
			return assistError(c, err)
		}
		return c.JSON(res)
	}
}

func assistError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, assist.ErrInvalidInput):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, ai.ErrInvalidConfiguration):
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "generative service is not configured")
	default:
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "generative service unavailable")
	}
}
