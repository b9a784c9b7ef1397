// Package ai is the generative-text collaborator: given a prompt it returns
// generated text or fails. Everything the resume assistant does is a prompt
// over this one call.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrServiceUnavailable means the model could not be reached or gave no usable answer.
	ErrServiceUnavailable = errors.New("generative service unavailable")
	// ErrInvalidConfiguration means the collaborator is not set up (missing key, rejected credentials, unknown model).
	ErrInvalidConfiguration = errors.New("generative service not configured")
)

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Unconfigured fails every call with ErrInvalidConfiguration. The server runs
// with it when no API key is set, so WOPI features keep working.
type Unconfigured struct{}

// Complete implements Completer.
func (Unconfigured) Complete(context.Context, string) (string, error) {
	return "", ErrInvalidConfiguration
}
