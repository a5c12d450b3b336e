// internal/resolve/resolver.go
// Package resolve locates DOM elements through ordered selector strategy
// lists. Resolution is a short-circuiting search: candidates are evaluated
// in declared order against the live DOM and the first structural match
// wins, regardless of how many later candidates might also match.
package resolve

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

//go:embed js/probe.js
var probeScript string

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DOM is the slice of the browser session the resolver needs.
type DOM interface {
	ExecuteScript(ctx context.Context, script string, res interface{}) error
}

// Resolution is a successful lookup.
type Resolution struct {
	// Target is the identifier that was resolved (a semantic field name or
	// a free-text label).
	Target string
	// Selector is a concrete selector addressing the matched element.
	Selector string
	// Strategy is the candidate selector that produced the match.
	Strategy string
}

// Resolver evaluates strategy lists against a live page.
type Resolver struct {
	dom    DOM
	logger *zap.Logger
}

// New creates a Resolver bound to a DOM.
func New(dom DOM, logger *zap.Logger) *Resolver {
	return &Resolver{dom: dom, logger: logger.Named("Resolver")}
}

// Resolve tries each candidate in order and returns the first one for which
// a matching element exists. When requireVisible is set, hidden elements are
// skipped; form-field resolution leaves it unset (existence-only), click
// targets set it to avoid acting on hidden duplicates.
//
// A failed resolution returns a NotFoundError wrapping ErrNotFound; it is a
// recoverable outcome, never a panic.
func (r *Resolver) Resolve(ctx context.Context, target string, strategies []Strategy, requireVisible bool) (*Resolution, error) {
	for _, strat := range strategies {
		selector, err := r.probe(ctx, strat, requireVisible)
		if err != nil {
			return nil, fmt.Errorf("probe failed for target %q: %w", target, err)
		}
		if selector == "" {
			continue
		}
		r.logger.Debug("Resolved target.",
			zap.String("target", target),
			zap.String("strategy", strat.Selector),
			zap.String("selector", selector))
		return &Resolution{
			Target:   target,
			Selector: selector,
			Strategy: strat.Selector,
		}, nil
	}
	return nil, &NotFoundError{Target: target}
}

// probe evaluates one strategy and returns a concrete selector for the first
// match in document order, or "" when nothing matches.
func (r *Resolver) probe(ctx context.Context, strat Strategy, requireVisible bool) (string, error) {
	selArg, err := json.Marshal(strat.Selector)
	if err != nil {
		return "", err
	}
	textArg, err := json.Marshal(strat.Text)
	if err != nil {
		return "", err
	}

	script := fmt.Sprintf("(%s)(%s, %s, %t)",
		strings.TrimSpace(probeScript), selArg, textArg, requireVisible)

	var selector string
	if err := r.dom.ExecuteScript(ctx, script, &selector); err != nil {
		return "", err
	}
	return selector, nil
}
