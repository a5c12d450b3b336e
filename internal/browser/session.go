// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/pacing"
)

// Session represents the live browser tab. It carries the one piece of
// workflow state that outlives individual operations: the one-shot
// form-submission flag.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    config.Interface
	pacer  *pacing.Pacer

	onClose func()

	mu            sync.Mutex
	isClosed      bool
	formSubmitted bool
}

// NewSession creates a Session wrapper around an existing tab context.
func NewSession(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg config.Interface,
	pacer *pacing.Pacer,
	logger *zap.Logger,
	onClose func(),
) (*Session, error) {
	sessionID := uuid.New().String()

	return &Session{
		id:      sessionID,
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.Named("Session").With(zap.String("session_id", sessionID)),
		cfg:     cfg,
		pacer:   pacer,
		onClose: onClose,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Initialize creates the tab target and applies session-wide settings.
func (s *Session) Initialize(ctx context.Context) error {
	// Ensure the target (tab) is created and CDP is connected.
	if err := chromedp.Run(s.ctx); err != nil {
		return fmt.Errorf("failed to initialize browser target connection: %w", err)
	}

	var tasks chromedp.Tasks

	if headerCfg := s.cfg.Network().Headers; len(headerCfg) > 0 {
		headers := make(network.Headers)
		for k, v := range headerCfg {
			headers[k] = v
		}
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}

	b := s.cfg.Browser()
	tasks = append(tasks, chromedp.EmulateViewport(
		int64(b.ViewportWidth()), int64(b.ViewportHeight())))

	if err := s.runActions(ctx, tasks); err != nil {
		return fmt.Errorf("failed to run session initialization tasks: %w", err)
	}

	s.logger.Debug("Session initialized.")
	return nil
}

// Closed reports whether Close has already run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isClosed
}

// Close tears down the tab. Idempotent: a second call is a no-op.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")

	if s.cancel != nil {
		s.cancel()
	}
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

// TryMarkSubmitted flips the one-shot submission flag. It returns true when
// the caller won the transition, false when the form was already submitted
// earlier in this session. The flag never resets.
func (s *Session) TryMarkSubmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formSubmitted {
		return false
	}
	s.formSubmitted = true
	return true
}

// Submitted reports whether the signup form has been submitted in this session.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formSubmitted
}

// stabilize waits for the document to be ready, then gives late asset and
// script activity a bounded settle window.
func (s *Session) stabilize(ctx context.Context) error {
	stabCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := chromedp.Run(stabCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("WaitReady failed during stabilization.", zap.Error(err))
	}

	if wait := s.cfg.Network().PostLoadWait; wait > 0 {
		if err := chromedp.Run(stabCtx, chromedp.Sleep(wait)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	return nil
}

// runActions executes chromedp actions, ensuring they respect both the
// session lifetime (s.ctx) and the incoming request context.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}
