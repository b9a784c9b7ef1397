package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"resumehost/internal/config"
)

type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// GeminiCompleter calls Google Gemini through the genai SDK. Calls go through
// a circuit breaker, and retryable failures are retried with exponential
// backoff and jitter.
type GeminiCompleter struct {
	model      string
	generate   generateFunc
	breaker    *gobreaker.CircuitBreaker[string]
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

var _ Completer = (*GeminiCompleter)(nil)

// NewCompleter returns a Gemini-backed Completer, or Unconfigured when no API key is set.
func NewCompleter(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (Completer, error) {
	if cfg.APIKey == "" {
		logger.Warn("generative_service_disabled", "component", "ai", "reason", "GEMINI_API_KEY not set")
		return Unconfigured{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %w", ErrInvalidConfiguration, err)
	}

	gen := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return newGeminiCompleter(cfg.Model, gen, cfg.MaxRetries, time.Second, logger), nil
}

func newGeminiCompleter(model string, gen generateFunc, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *GeminiCompleter {
	settings := gobreaker.Settings{
		Name:        "gemini-" + model,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit_breaker_state_changed",
				"component", "ai",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
		// Configuration errors say nothing about service health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidConfiguration) || errors.Is(err, context.Canceled)
		},
	}
	return &GeminiCompleter{
		model:      model,
		generate:   gen,
		breaker:    gobreaker.NewCircuitBreaker[string](settings),
		maxRetries: max(maxRetries, 0),
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Complete implements Completer. The returned text is trimmed.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("resumehost/ai").Start(ctx, "gemini.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.model),
		attribute.Int("input.prompt_length", len(prompt)),
	)

	text, err := g.breaker.Execute(func() (string, error) {
		return g.completeWithRetry(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("output.text_length", len(text)))
	return text, nil
}

func (g *GeminiCompleter) completeWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("retrying_generation",
				"component", "ai",
				"attempt", attempt,
				"max_retries", g.maxRetries,
				"error", lastErr.Error())
			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := g.generate(ctx, g.model, prompt)
		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" {
				return "", fmt.Errorf("%w: empty response", ErrServiceUnavailable)
			}
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			break
		}
	}
	return "", classify(lastErr)
}

func (g *GeminiCompleter) backoff(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt-1))) * g.baseDelay
	var jitter time.Duration
	if span := int64(base) / 10; span > 0 {
		jitter = time.Duration(rand.Int64N(span))
	}
	return min(base+jitter, 30*time.Second)
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if code, ok := apiErrorCode(err); ok {
		switch code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

func classify(err error) error {
	if code, ok := apiErrorCode(err); ok {
		switch code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
}
