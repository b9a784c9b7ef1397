package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumehost/internal/logging"
)

var (
	// ErrEditorUnavailable is returned when no editor channel is attached.
	ErrEditorUnavailable = errors.New("editor unavailable")
	// ErrTextTimeout is returned when the editor does not answer a text request in time.
	ErrTextTimeout = errors.New("editor did not return text in time")
)

// DefaultReadyGrace is how long Handshake waits after Host_PostmessageReady
// when the editor does not acknowledge the load.
const DefaultReadyGrace = 700 * time.Millisecond

// State is the lifecycle position of a Session.
type State int

const (
	StateUnloaded State = iota
	StateAwaitingReady
	StateReady
	StateAwaitingText
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateAwaitingReady:
		return "awaiting_ready"
	case StateReady:
		return "ready"
	case StateAwaitingText:
		return "awaiting_text"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithReadyGrace sets the handshake wait. Non-positive values are ignored.
func WithReadyGrace(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithSessionLogger sets the logger for non-fatal failures.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithSessionClock overrides the SendTime source.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// Session drives one embedded editor. Failures are returned and logged but
// never poison the session; a later call may succeed once an editor is
// attached again.
type Session struct {
	handshakeMu sync.Mutex

	mu      sync.Mutex
	ch      Channel
	ready   bool
	pending int

	grace    time.Duration
	now      func() time.Time
	newToken func() string
	logger   *slog.Logger
}

// NewSession returns an unloaded Session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		grace:    DefaultReadyGrace,
		now:      time.Now,
		newToken: uuid.NewString,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.ch == nil:
		return StateUnloaded
	case !s.ready:
		return StateAwaitingReady
	case s.pending > 0:
		return StateAwaitingText
	default:
		return StateReady
	}
}

// Attach binds the session to a freshly loaded editor frame. Attaching a
// new frame requires a new handshake.
func (s *Session) Attach(ch Channel) {
	s.mu.Lock()
	s.ch = ch
	s.ready = false
	s.mu.Unlock()
}

// Detach forgets the editor frame.
func (s *Session) Detach() {
	s.Attach(nil)
}

// Handshake announces the host and waits the ready grace, or less if the
// editor reports the document loaded first. After the wait the session is
// Ready even without an acknowledgement; messages sent before the editor
// finished loading may be dropped by it.
func (s *Session) Handshake(ctx context.Context) error {
	s.handshakeMu.Lock()
	defer s.handshakeMu.Unlock()

	ch, ready := s.current()
	if ch == nil {
		return s.unavailable("handshake")
	}
	if ready {
		return nil
	}

	loaded := make(chan struct{}, 1)
	unsubscribe := ch.Subscribe(func(raw []byte) {
		if isDocumentLoaded(raw) {
			select {
			case loaded <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := s.post(ctx, ch, HostReady(s.now())); err != nil {
		s.logger.Warn("editor_handshake_failed", "component", "bridge", "error", err.Error())
		return err
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()
	select {
	case <-loaded:
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	if s.ch == ch {
		s.ready = true
	}
	s.mu.Unlock()
	return nil
}

// Insert pastes text at the editor cursor, handshaking first if needed.
func (s *Session) Insert(ctx context.Context, text string) error {
	ch, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	if err := s.post(ctx, ch, Paste(s.now(), text)); err != nil {
		s.logger.Warn("editor_insert_failed", "component", "bridge", "error", err.Error())
		return err
	}
	return nil
}

// FetchText asks the editor page for the document text and waits up to
// timeout for the answer. The listener registered for the answer is
// removed on every return path. Answers carrying another request's
// correlation id are ignored; answers without one are accepted.
func (s *Session) FetchText(ctx context.Context, timeout time.Duration) (string, error) {
	ch, err := s.ensureReady(ctx)
	if err != nil {
		return "", err
	}

	token := s.newToken()
	answer := make(chan string, 1)
	unsubscribe := ch.Subscribe(func(raw []byte) {
		resp, ok := parseTextResponse(raw)
		if !ok || (resp.CorrelationID != "" && resp.CorrelationID != token) {
			return
		}
		select {
		case answer <- resp.ResumeText:
		default:
		}
	})
	defer unsubscribe()

	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
	}()

	if err := s.post(ctx, ch, GetText(token)); err != nil {
		s.logger.Warn("editor_fetch_text_failed", "component", "bridge", "error", err.Error())
		return "", err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case text := <-answer:
		return text, nil
	case <-timer.C:
		s.logger.Warn("editor_fetch_text_timeout", "component", "bridge", "correlation_id", token, "timeout", timeout.String())
		return "", ErrTextTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ensureReady returns the attached channel once it has completed a
// handshake. A frame attached while an earlier handshake was running gets
// its own handshake before anything is posted to it.
func (s *Session) ensureReady(ctx context.Context) (Channel, error) {
	for {
		ch, ready := s.current()
		if ch == nil {
			return nil, s.unavailable("ensure_ready")
		}
		if ready {
			return ch, nil
		}
		if err := s.Handshake(ctx); err != nil {
			return nil, err
		}
	}
}

func (s *Session) current() (Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch, s.ready
}

func (s *Session) unavailable(op string) error {
	s.logger.Warn("editor_unavailable", "component", "bridge", "operation", op)
	return ErrEditorUnavailable
}

func (s *Session) post(ctx context.Context, ch Channel, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return ch.Post(ctx, payload)
}
