// internal/browser/summarizer.go
package browser

import (
	"context"
	_ "embed"
	"fmt"
	"time"
)

//go:embed js/page_summary.js
var pageSummaryScript string

// Collection caps for a page summary. The extraction script enforces the
// same limits; the Go side clamps again so a hostile or buggy page cannot
// inflate the snapshot.
const (
	MaxHeadings   = 10
	MaxClickables = 30
	MaxInputs     = 40
)

// BoundingBox is an element's rendered rectangle in CSS pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Clickable describes one visible click target.
type Clickable struct {
	Text string      `json:"text"`
	X    int         `json:"x"`
	Y    int         `json:"y"`
	Box  BoundingBox `json:"box"`
}

// Input describes one visible form control.
type Input struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
}

// PageSummary is an ephemeral snapshot of the visible page structure,
// rebuilt fresh on every call and never mutated in place.
type PageSummary struct {
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Headings   []string    `json:"headings"`
	Clickables []Clickable `json:"clickables"`
	Inputs     []Input     `json:"inputs"`
}

// clamp truncates every collection to its cap, preserving order.
func (p *PageSummary) clamp() {
	if len(p.Headings) > MaxHeadings {
		p.Headings = p.Headings[:MaxHeadings]
	}
	if len(p.Clickables) > MaxClickables {
		p.Clickables = p.Clickables[:MaxClickables]
	}
	if len(p.Inputs) > MaxInputs {
		p.Inputs = p.Inputs[:MaxInputs]
	}
}

// Summarize reads the current page's DOM and returns a bounded snapshot of
// its visible interactive elements. It has no side effects on the page and
// performs no extra load waits.
func (s *Session) Summarize(ctx context.Context) (*PageSummary, error) {
	sumCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var summary PageSummary
	if err := s.ExecuteScript(sumCtx, pageSummaryScript, &summary); err != nil {
		return nil, fmt.Errorf("page summary extraction failed: %w", err)
	}
	summary.clamp()
	return &summary, nil
}
