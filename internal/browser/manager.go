// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/pacing"
)

// defaultUserAgent is applied when no user agent is configured.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// Manager owns the browser process and the single live session. The browser
// is launched lazily on the first Acquire call; later calls return the same
// session. At most one session exists at a time.
type Manager struct {
	logger *zap.Logger
	cfg    config.Interface

	mu sync.Mutex

	// allocatorCtx manages the browser process. Session contexts derive from it.
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc

	session *Session

	// wg tracks the active session for a graceful shutdown.
	wg sync.WaitGroup
}

// NewManager creates a Manager. No browser process is started until Acquire.
func NewManager(logger *zap.Logger, cfg config.Interface) *Manager {
	return &Manager{
		logger: logger.Named("BrowserManager"),
		cfg:    cfg,
	}
}

// Acquire returns the live session, launching the browser and creating the
// tab on first use. A launch failure is returned to the caller without retry.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil && !m.session.Closed() {
		return m.session, nil
	}

	if m.allocatorCtx == nil || m.allocatorCtx.Err() != nil {
		if err := m.launchBrowser(); err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
	}

	sess, err := m.newSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.session = sess
	return sess, nil
}

// launchBrowser prepares allocator options and starts the browser process.
// The allocator derives from the background context so the browser outlives
// the tool call that triggered the launch.
func (m *Manager) launchBrowser() error {
	m.logger.Info("Initializing browser allocator...")

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), m.buildAllocatorOptions()...)
	m.allocatorCtx = allocCtx
	m.allocatorCancel = cancel

	// Confirm the browser starts and responds before handing out sessions.
	testCtx, cancelTest := context.WithTimeout(allocCtx, 30*time.Second)
	testCtx, cancelTestCtx := chromedp.NewContext(testCtx)
	defer cancelTestCtx()
	defer cancelTest()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		m.allocatorCancel()
		m.allocatorCtx = nil
		return fmt.Errorf("browser failed to start or respond: %w", err)
	}

	m.logger.Info("Browser launched successfully and is responsive.")
	return nil
}

// buildAllocatorOptions assembles the launch flags for the browser instance.
func (m *Manager) buildAllocatorOptions() []chromedp.ExecAllocatorOption {
	browserCfg := m.cfg.Browser()

	ua := browserCfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	// Options are listed explicitly instead of extending
	// DefaultExecAllocatorOptions: the defaults carry enable-automation,
	// which advertises automation to the page.
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", browserCfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-gpu", browserCfg.Headless),
		chromedp.Flag("mute-audio", true),
		chromedp.WindowSize(browserCfg.ViewportWidth(), browserCfg.ViewportHeight()),
		chromedp.UserAgent(ua),
	}

	// Custom arguments from the config file.
	for _, arg := range browserCfg.Args {
		parts := strings.SplitN(arg, "=", 2)
		flagName := strings.TrimPrefix(parts[0], "--")

		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(flagName, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(flagName, true))
		}
	}

	// Flags required for running inside containers.
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-setuid-sandbox", true),
		)
	}

	return opts
}

// newSession creates the tab context and initializes a Session on it.
// Caller holds m.mu.
func (m *Manager) newSession(ctx context.Context) (*Session, error) {
	ctxOpts := []chromedp.ContextOption{}
	if m.cfg.Browser().Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(m.logger.Sugar().Debugf))
	}
	sessCtx, sessCancel := chromedp.NewContext(m.allocatorCtx, ctxOpts...)

	pacer := pacing.New(m.cfg.Pacing(), m.logger)

	m.wg.Add(1)
	sess, err := NewSession(sessCtx, sessCancel, m.cfg, pacer, m.logger, m.wg.Done)
	if err != nil {
		m.wg.Done()
		sessCancel()
		return nil, err
	}

	if err := sess.Initialize(ctx); err != nil {
		_ = sess.Close(ctx)
		return nil, err
	}
	return sess, nil
}

// Shutdown closes the live session if any and terminates the browser process.
// Safe to call when nothing was ever launched.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.mu.Unlock()

	if sess != nil {
		if err := sess.Close(ctx); err != nil {
			m.logger.Warn("Session close failed during shutdown.", zap.Error(err))
		}
	}

	// Wait for the session teardown, respecting the caller's deadline.
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("Shutdown deadline exceeded. Forcing browser termination.", zap.Error(ctx.Err()))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allocatorCancel != nil {
		m.logger.Info("Shutting down browser process...")
		m.allocatorCancel()
		<-m.allocatorCtx.Done()
		m.allocatorCancel = nil
		m.allocatorCtx = nil
	}
	return nil
}
