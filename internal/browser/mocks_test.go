// internal/browser/mocks_test.go
package browser

import (
	"time"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// mockConfig is a minimal config.Interface implementation for tests.
type mockConfig struct {
	logger  config.LoggerConfig
	browser config.BrowserConfig
	network config.NetworkConfig
	pacing  config.PacingConfig
	agent   config.AgentConfig
}

var _ config.Interface = (*mockConfig)(nil)

func newMockConfig() *mockConfig {
	return &mockConfig{
		browser: config.BrowserConfig{
			Headless: true,
			Viewport: map[string]int{"width": 1280, "height": 800},
		},
		network: config.NetworkConfig{
			NavigationTimeout: 45 * time.Second,
			PostLoadWait:      0,
		},
		pacing: config.PacingConfig{Enabled: false},
	}
}

func (m *mockConfig) Logger() config.LoggerConfig   { return m.logger }
func (m *mockConfig) Browser() config.BrowserConfig { return m.browser }
func (m *mockConfig) Network() config.NetworkConfig { return m.network }
func (m *mockConfig) Pacing() config.PacingConfig   { return m.pacing }
func (m *mockConfig) Agent() config.AgentConfig     { return m.agent }

func (m *mockConfig) SetBrowserHeadless(b bool) { m.browser.Headless = b }
func (m *mockConfig) SetBrowserDebug(b bool)    { m.browser.Debug = b }
func (m *mockConfig) SetPacingEnabled(b bool)   { m.pacing.Enabled = b }
func (m *mockConfig) SetNetworkNavigationTimeout(d time.Duration) {
	m.network.NavigationTimeout = d
}
func (m *mockConfig) SetNetworkPostLoadWait(d time.Duration) { m.network.PostLoadWait = d }
func (m *mockConfig) SetAgentAutoScreenshot(b bool)          { m.agent.AutoScreenshot = b }
