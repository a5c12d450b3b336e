// internal/agent/form_filler.go
package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/resolve"
)

// requestSubmitScript asks the first form on the page to submit itself,
// going through requestSubmit so validation and submit handlers still run.
const requestSubmitScript = `(() => {
	const form = document.querySelector('form');
	if (!form) return false;
	if (form.requestSubmit) { form.requestSubmit(); } else { form.submit(); }
	return true;
})()`

// FormFiller applies the element resolver across the fixed set of semantic
// signup fields, writes the provided values, and triggers submission.
type FormFiller struct {
	logger *zap.Logger

	// newResolver is swappable for tests.
	newResolver func(sess SessionContext) elementResolver
}

// NewFormFiller creates a FormFiller.
func NewFormFiller(logger *zap.Logger) *FormFiller {
	l := logger.Named("FormFiller")
	return &FormFiller{
		logger: l,
		newResolver: func(sess SessionContext) elementResolver {
			return resolve.New(sess, l)
		},
	}
}

// Fill iterates the semantic field list once, filling every field it can
// resolve, then attempts submission. A single missing field is skipped
// silently; only the filled-field count is observable. Re-invocation after a
// successful submission is rejected without touching the DOM.
func (f *FormFiller) Fill(ctx context.Context, sess SessionContext, values FormValues) ToolResult {
	if sess.Submitted() {
		return fail(ErrCodeFormAlreadySubmitted, "Form already submitted")
	}

	resolver := f.newResolver(sess)
	filled := 0
	filledSelectors := make(map[string]string)

	for _, field := range resolve.FieldOrder {
		value, ok := values.valueFor(field)
		if !ok || value == "" {
			continue
		}

		// Field resolution is existence-only; fields are independent, so a
		// miss never aborts the pass.
		res, err := resolver.Resolve(ctx, field, resolve.FieldStrategies[field], false)
		if err != nil {
			if errors.Is(err, resolve.ErrNotFound) {
				f.logger.Debug("Form field not present on page, skipping.",
					zap.String("field", field))
				continue
			}
			return fail(classifyError(err), err.Error())
		}

		if err := sess.Type(ctx, res.Selector, value); err != nil {
			f.logger.Warn("Failed to write form field, skipping.",
				zap.String("field", field), zap.Error(err))
			continue
		}
		filledSelectors[field] = res.Selector
		filled++
	}

	submitted := f.submit(ctx, sess, resolver, filledSelectors)
	if submitted {
		// One-way transition, permanent for the session's lifetime.
		sess.TryMarkSubmitted()
	}

	return success(map[string]interface{}{
		"filled":    filled,
		"submitted": submitted,
	})
}

// submit tries the submission strategies in order and reports whether any of
// them fired: click the resolved submit control, ask the form to submit
// itself, and finally press Enter in the password field.
func (f *FormFiller) submit(ctx context.Context, sess SessionContext, resolver elementResolver, filledSelectors map[string]string) bool {
	// Strategy 1: click the submit control.
	res, err := resolver.Resolve(ctx, "submit", resolve.SubmitStrategies, true)
	if err == nil {
		if clickErr := sess.Click(ctx, res.Selector); clickErr == nil {
			return true
		}
		f.logger.Debug("Submit button click failed, trying fallback.")
	} else if !errors.Is(err, resolve.ErrNotFound) {
		f.logger.Warn("Submit control resolution failed.", zap.Error(err))
	}

	// Strategy 2: programmatic form submission.
	var requested bool
	if err := sess.ExecuteScript(ctx, requestSubmitScript, &requested); err == nil && requested {
		return true
	}

	// Strategy 3: Enter in the password field.
	if sel, ok := filledSelectors["password"]; ok {
		if err := sess.Type(ctx, sel, "\r"); err == nil {
			return true
		}
	}

	f.logger.Warn("All submission strategies failed.")
	return false
}
