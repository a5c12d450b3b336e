// internal/agent/tools.go
package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/resolve"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Toolset implements the tool surface exposed to the orchestration layer.
// Every method returns a ToolResult and never an error: failures are
// structured values the model can react to. A weighted semaphore serializes
// tool execution, since the single page supports no concurrent operations.
type Toolset struct {
	provider SessionProvider
	cfg      config.Interface
	logger   *zap.Logger
	filler   *FormFiller

	sem *semaphore.Weighted
}

// NewToolset creates the tool surface on top of a session provider.
func NewToolset(provider SessionProvider, cfg config.Interface, logger *zap.Logger) *Toolset {
	return &Toolset{
		provider: provider,
		cfg:      cfg,
		logger:   logger.Named("Tools"),
		filler:   NewFormFiller(logger),
		sem:      semaphore.NewWeighted(1),
	}
}

// Execute dispatches a named tool call with raw arguments. Unknown tools and
// malformed arguments yield structured failures; panics are caught at this
// boundary so a tool bug never kills the agent loop.
func (t *Toolset) Execute(ctx context.Context, name string, args map[string]interface{}) (result ToolResult) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return fail(ErrCodeExecutionFailure, fmt.Sprintf("tool execution canceled: %v", err))
	}
	defer t.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Tool panicked.", zap.String("tool", name), zap.Any("panic", r))
			result = fail(ErrCodeToolPanic, fmt.Sprintf("tool %s panicked: %v", name, r))
		}
	}()

	t.logger.Info("Executing tool.", zap.String("tool", name))

	switch ToolName(name) {
	case ToolOpenURL:
		var in OpenURLInput
		if err := decodeArgs(args, &in); err != nil {
			return fail(ErrCodeInvalidParameters, err.Error())
		}
		return t.OpenURL(ctx, in.URL)
	case ToolAnalyzePage:
		var in AnalyzePageInput
		if err := decodeArgs(args, &in); err != nil {
			return fail(ErrCodeInvalidParameters, err.Error())
		}
		return t.AnalyzePage(ctx, in.IncludeImage)
	case ToolClickSidebar:
		var in ClickSidebarInput
		if err := decodeArgs(args, &in); err != nil {
			return fail(ErrCodeInvalidParameters, err.Error())
		}
		return t.ClickSidebar(ctx, in.Label)
	case ToolFillSignupForm:
		var in FormValues
		if err := decodeArgs(args, &in); err != nil {
			return fail(ErrCodeInvalidParameters, err.Error())
		}
		return t.FillSignupForm(ctx, in)
	case ToolFinalizeSession:
		return t.FinalizeSession(ctx)
	default:
		return fail(ErrCodeUnknownTool, fmt.Sprintf("unknown tool: %s", name))
	}
}

// decodeArgs round-trips a loose argument map into a typed input struct.
func decodeArgs(args map[string]interface{}, target interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

// OpenURL navigates the session to the given URL, creating the browser
// session on first use.
func (t *Toolset) OpenURL(ctx context.Context, url string) ToolResult {
	if url == "" {
		return fail(ErrCodeInvalidParameters, "url must not be empty")
	}

	sess, err := t.provider.Acquire(ctx)
	if err != nil {
		return fail(ErrCodeSessionFailure, err.Error())
	}

	if err := sess.Navigate(ctx, url); err != nil {
		return fail(classifyError(err), err.Error())
	}

	// The landed location can differ from the request after redirects.
	location, err := sess.CurrentURL(ctx)
	if err != nil {
		t.logger.Debug("Could not read post-navigation location.", zap.Error(err))
		location = url
	}

	return success(map[string]interface{}{
		"opened": url,
		"url":    location,
	})
}

// AnalyzePage summarizes the current page. A screenshot is attached when
// requested or when auto-screenshot is configured; a capture failure
// degrades to a summary-only result.
func (t *Toolset) AnalyzePage(ctx context.Context, includeImage bool) ToolResult {
	sess, err := t.provider.Acquire(ctx)
	if err != nil {
		return fail(ErrCodeSessionFailure, err.Error())
	}

	summary, err := sess.Summarize(ctx)
	if err != nil {
		return fail(classifyError(err), err.Error())
	}

	data := map[string]interface{}{"analysis": summary}

	if includeImage || t.cfg.Agent().AutoScreenshot {
		shot, shotErr := sess.Screenshot(ctx)
		if shotErr != nil {
			t.logger.Warn("Screenshot capture failed; returning summary only.", zap.Error(shotErr))
		} else {
			data["base64"] = base64.StdEncoding.EncodeToString(shot)
		}
	}

	return success(data)
}

// ClickSidebar resolves a free-text navigation label and clicks the first
// visible match. A missing element is a recoverable "not_found" outcome.
func (t *Toolset) ClickSidebar(ctx context.Context, label string) ToolResult {
	if label == "" {
		return fail(ErrCodeInvalidParameters, "label must not be empty")
	}

	sess, err := t.provider.Acquire(ctx)
	if err != nil {
		return fail(ErrCodeSessionFailure, err.Error())
	}

	resolver := resolve.New(sess, t.logger)
	res, err := resolver.Resolve(ctx, label, resolve.LabelStrategies(label), true)
	if err != nil {
		if errors.Is(err, resolve.ErrNotFound) {
			return fail(ErrCodeElementNotFound, "not_found")
		}
		return fail(classifyError(err), err.Error())
	}

	if err := sess.Click(ctx, res.Selector); err != nil {
		return fail(classifyError(err), err.Error())
	}

	return success(map[string]interface{}{
		"clicked":  label,
		"selector": res.Selector,
	})
}

// FillSignupForm fills the fixed signup fields and submits the form, subject
// to the session's one-shot submission guard.
func (t *Toolset) FillSignupForm(ctx context.Context, values FormValues) ToolResult {
	sess, err := t.provider.Acquire(ctx)
	if err != nil {
		return fail(ErrCodeSessionFailure, err.Error())
	}
	return t.filler.Fill(ctx, sess, values)
}

// FinalizeSession terminates the browser. Teardown is attempted regardless
// of earlier errors and reports what happened instead of failing silently.
func (t *Toolset) FinalizeSession(ctx context.Context) ToolResult {
	if err := t.provider.Shutdown(ctx); err != nil {
		return fail(ErrCodeExecutionFailure, fmt.Sprintf("browser teardown failed: %v", err))
	}
	return success(map[string]interface{}{"message": "Browser session terminated."})
}
