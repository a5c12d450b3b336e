// internal/agent/interfaces.go
package agent

import (
	"context"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/resolve"
)

// SessionContext is the slice of the browser session the tool layer uses.
// *browser.Session satisfies it; tests substitute mocks.
type SessionContext interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	ExecuteScript(ctx context.Context, script string, res interface{}) error
	Summarize(ctx context.Context) (*browser.PageSummary, error)
	Screenshot(ctx context.Context) ([]byte, error)
	CurrentURL(ctx context.Context) (string, error)
	TryMarkSubmitted() bool
	Submitted() bool
	Close(ctx context.Context) error
}

var _ SessionContext = (*browser.Session)(nil)

// SessionProvider hands out the live session and tears the browser down.
type SessionProvider interface {
	Acquire(ctx context.Context) (SessionContext, error)
	Shutdown(ctx context.Context) error
}

// elementResolver abstracts the strategy-list resolver for testing.
type elementResolver interface {
	Resolve(ctx context.Context, target string, strategies []resolve.Strategy, requireVisible bool) (*resolve.Resolution, error)
}

// managerProvider adapts *browser.Manager to the SessionProvider interface.
type managerProvider struct {
	m *browser.Manager
}

// NewManagerProvider wraps a browser manager as a SessionProvider.
func NewManagerProvider(m *browser.Manager) SessionProvider {
	return &managerProvider{m: m}
}

func (p *managerProvider) Acquire(ctx context.Context) (SessionContext, error) {
	sess, err := p.m.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (p *managerProvider) Shutdown(ctx context.Context) error {
	return p.m.Shutdown(ctx)
}
