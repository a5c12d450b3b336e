// internal/agent/mocks_test.go
package agent

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/resolve"
)

// -- MockSession --

type MockSession struct {
	mock.Mock
}

var _ SessionContext = (*MockSession)(nil)

func (m *MockSession) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockSession) Click(ctx context.Context, selector string) error {
	return m.Called(ctx, selector).Error(0)
}

func (m *MockSession) Type(ctx context.Context, selector, text string) error {
	return m.Called(ctx, selector, text).Error(0)
}

func (m *MockSession) ExecuteScript(ctx context.Context, script string, res interface{}) error {
	return m.Called(ctx, script, res).Error(0)
}

func (m *MockSession) Summarize(ctx context.Context) (*browser.PageSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*browser.PageSummary), args.Error(1)
}

func (m *MockSession) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSession) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSession) TryMarkSubmitted() bool {
	return m.Called().Bool(0)
}

func (m *MockSession) Submitted() bool {
	return m.Called().Bool(0)
}

func (m *MockSession) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// -- MockProvider --

type MockProvider struct {
	mock.Mock
}

var _ SessionProvider = (*MockProvider)(nil)

func (m *MockProvider) Acquire(ctx context.Context) (SessionContext, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(SessionContext), args.Error(1)
}

func (m *MockProvider) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// -- MockResolver --

type MockResolver struct {
	mock.Mock
}

var _ elementResolver = (*MockResolver)(nil)

func (m *MockResolver) Resolve(ctx context.Context, target string, strategies []resolve.Strategy, requireVisible bool) (*resolve.Resolution, error) {
	args := m.Called(ctx, target, strategies, requireVisible)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resolve.Resolution), args.Error(1)
}

// -- mockConfig --

type mockConfig struct {
	agent config.AgentConfig
}

var _ config.Interface = (*mockConfig)(nil)

func (m *mockConfig) Logger() config.LoggerConfig   { return config.LoggerConfig{} }
func (m *mockConfig) Browser() config.BrowserConfig { return config.BrowserConfig{} }
func (m *mockConfig) Network() config.NetworkConfig { return config.NetworkConfig{} }
func (m *mockConfig) Pacing() config.PacingConfig   { return config.PacingConfig{} }
func (m *mockConfig) Agent() config.AgentConfig     { return m.agent }

func (m *mockConfig) SetBrowserHeadless(bool)                   {}
func (m *mockConfig) SetBrowserDebug(bool)                      {}
func (m *mockConfig) SetPacingEnabled(bool)                     {}
func (m *mockConfig) SetNetworkNavigationTimeout(time.Duration) {}
func (m *mockConfig) SetNetworkPostLoadWait(time.Duration)      {}
func (m *mockConfig) SetAgentAutoScreenshot(b bool)             { m.agent.AutoScreenshot = b }
