// File: internal/pacing/pacing.go
// Package pacing provides human-pacing wrappers around browser input: typing
// with jittered inter-key delays and pauses with a configurable mean and
// spread. When pacing is disabled the wrappers degrade to plain driver
// actions with no artificial delays.
package pacing

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// Pacer generates delays for a single session. Delays are drawn from the
// configured distributions; the zero level of every knob is clamped so a
// misconfigured negative jitter never produces a negative sleep.
type Pacer struct {
	cfg    config.PacingConfig
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Pacer seeded from the wall clock.
func New(cfg config.PacingConfig, logger *zap.Logger) *Pacer {
	return &Pacer{
		cfg:    cfg,
		logger: logger.Named("Pacing"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Enabled reports whether human pacing is active.
func (p *Pacer) Enabled() bool { return p.cfg.Enabled }

// KeyDelay returns the next inter-key delay: mean plus uniform jitter in
// [-jitter, +jitter], clamped at zero. Returns 0 when pacing is disabled.
func (p *Pacer) KeyDelay() time.Duration {
	if !p.cfg.Enabled {
		return 0
	}
	p.mu.Lock()
	jitter := (p.rng.Float64()*2 - 1) * p.cfg.KeyDelayJitterMs
	p.mu.Unlock()

	ms := p.cfg.KeyDelayMeanMs + jitter
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// PauseDuration returns the next cognitive-pause duration, drawn from a
// normal distribution with the configured mean and standard deviation and
// clamped at zero. Returns 0 when pacing is disabled.
func (p *Pacer) PauseDuration() time.Duration {
	if !p.cfg.Enabled {
		return 0
	}
	p.mu.Lock()
	noise := p.rng.NormFloat64() * p.cfg.PauseStdDevMs
	p.mu.Unlock()

	ms := p.cfg.PauseMeanMs + noise
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// CognitivePause returns an action that sleeps for one pause duration,
// respecting context cancellation. A no-op when pacing is disabled.
func (p *Pacer) CognitivePause() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		d := p.PauseDuration()
		if d == 0 {
			return nil
		}
		return chromedp.Sleep(d).Do(ctx)
	})
}

// Type returns an action that focuses the element and writes text into it.
// With pacing enabled the text is sent one character at a time with an
// inter-key delay between characters; otherwise the whole value is sent in
// one driver call.
func (p *Pacer) Type(selector, text string) chromedp.Action {
	if !p.cfg.Enabled {
		return chromedp.Tasks{
			chromedp.WaitVisible(selector, chromedp.ByQuery),
			chromedp.Click(selector, chromedp.ByQuery),
			chromedp.SendKeys(selector, text, chromedp.ByQuery),
		}
	}

	return chromedp.ActionFunc(func(ctx context.Context) error {
		focus := chromedp.Tasks{
			chromedp.ScrollIntoView(selector, chromedp.ByQuery),
			chromedp.WaitVisible(selector, chromedp.ByQuery),
			chromedp.Click(selector, chromedp.ByQuery),
		}
		if err := focus.Do(ctx); err != nil {
			return fmt.Errorf("pacing: failed to focus %q: %w", selector, err)
		}

		for _, r := range text {
			if err := chromedp.Sleep(p.KeyDelay()).Do(ctx); err != nil {
				return err
			}
			// Target the active element so a page that moves focus mid-type
			// still receives the remaining characters somewhere sane.
			send := chromedp.SendKeys("document.activeElement", string(r), chromedp.ByJSPath)
			if err := send.Do(ctx); err != nil {
				return fmt.Errorf("pacing: failed to send key %q: %w", r, err)
			}
		}
		return nil
	})
}
