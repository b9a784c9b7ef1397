// Package assist holds the resume-writing prompts behind the /assist
// endpoints. Each operation is one prompt to an ai.Completer plus light
// parsing of the answer.
package assist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"resumehost/internal/ai"
)

// ErrInvalidInput is returned before the model is called when a required
// field is empty or out of range.
var ErrInvalidInput = errors.New("invalid input")

// maxATSInput caps each document sent for scoring, in characters.
const maxATSInput = 3000

var scorePattern = regexp.MustCompile(`Score:\s*(\d+)%`)

// ATSResult is a model-assigned match score with its suggestions.
type ATSResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Assistant runs the resume prompts against a Completer.
type Assistant struct {
	completer ai.Completer
}

// New returns an Assistant backed by c.
func New(c ai.Completer) *Assistant {
	return &Assistant{completer: c}
}

// ExtractKeywords asks for the 10-15 most important keywords of a job
// description and returns them trimmed, in model order.
func (a *Assistant) ExtractKeywords(ctx context.Context, jobDescription string) ([]string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	prompt := "Extract 10-15 most important technical and professional keywords from this job description. " +
		"Return ONLY a comma-separated list without numbering or explanations:\n\n" + jobDescription

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, kw := range strings.Split(text, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords, nil
}

// ImproveBullet rewrites an existing bullet point to work in the keywords.
func (a *Assistant) ImproveBullet(ctx context.Context, keywords []string, bullet string) (string, error) {
	if strings.TrimSpace(bullet) == "" {
		return "", fmt.Errorf("%w: bullet is required", ErrInvalidInput)
	}
	prompt := fmt.Sprintf("Improve this resume bullet point: %q by incorporating these keywords: %s.\n"+
		"Keep it professional, concise, and impactful. Return ONLY the improved bullet point without explanations.",
		bullet, strings.Join(keywords, ", "))
	return a.completer.Complete(ctx, prompt)
}

// NewBullet writes a fresh bullet point about keyword. One line targets
// about 18 words, anything longer about 32. With withHeader the bullet
// starts with "<keyword>: ".
func (a *Assistant) NewBullet(ctx context.Context, keyword string, lines int, withHeader bool) (string, error) {
	if strings.TrimSpace(keyword) == "" {
		return "", fmt.Errorf("%w: keyword is required", ErrInvalidInput)
	}
	if lines < 1 {
		return "", fmt.Errorf("%w: lines must be at least 1", ErrInvalidInput)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional resume bullet point about %s. Make it %d-line length (approximately %d words). ",
		keyword, lines, wordTarget(lines))
	if withHeader {
		fmt.Fprintf(&b, "Start with a header in the format: %q followed by the content.", keyword+": ")
	}
	b.WriteString(" Return ONLY the bullet point text without any additional text or formatting symbols.")
	return a.completer.Complete(ctx, b.String())
}

// ScoreATS rates a resume against a job description. A missing score line
// yields a score of 0; feedback is the answer with the score line removed.
func (a *Assistant) ScoreATS(ctx context.Context, resume, jobDescription string) (ATSResult, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jobDescription) == "" {
		return ATSResult{}, fmt.Errorf("%w: resume and job description are required", ErrInvalidInput)
	}
	prompt := "Rate this resume against the job description on a scale of 0-100% and provide 3 concise improvement suggestions. Use this format exactly:\n" +
		"Score: XX%\nFeedback:\n1. [suggestion]\n2. [suggestion]\n3. [suggestion]\n\n" +
		"Resume:\n" + truncate(resume, maxATSInput) + "\n\n" +
		"Job Description:\n" + truncate(jobDescription, maxATSInput)

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return ATSResult{}, err
	}
	return parseATS(text), nil
}

func parseATS(text string) ATSResult {
	var res ATSResult
	if m := scorePattern.FindStringSubmatchIndex(text); m != nil {
		if n, err := strconv.Atoi(text[m[2]:m[3]]); err == nil {
			res.Score = min(n, 100)
		}
		text = text[:m[0]] + text[m[1]:]
	}
	res.Feedback = strings.TrimSpace(text)
	return res
}

func wordTarget(lines int) int {
	if lines == 1 {
		return 18
	}
	return 32
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
