// internal/resolve/strategies.go
package resolve

import (
	"fmt"
	"strings"
)

// Strategy is a single structural query: a CSS selector, optionally
// constrained to elements whose text contains a case-insensitive substring.
type Strategy struct {
	// Selector is the CSS selector evaluated against the live DOM.
	Selector string
	// Text, when non-empty, restricts matches to elements whose visible
	// text contains it (case-insensitive).
	Text string
}

// FieldStrategies maps each semantic signup-form field to its ordered
// candidate list. Order encodes priority: the first candidate with at least
// one structural match wins.
//
// The password and confirmPassword lists are disjoint by construction:
// password candidates exclude attributes containing "confirm" while every
// confirmPassword candidate requires one.
var FieldStrategies = map[string][]Strategy{
	"firstName": {
		{Selector: `input[name="firstName"]`},
		{Selector: `input#firstName`},
		{Selector: `input[autocomplete="given-name"]`},
		{Selector: `input[name*="first" i]`},
		{Selector: `input[id*="first" i]`},
		{Selector: `input[placeholder*="first" i]`},
	},
	"lastName": {
		{Selector: `input[name="lastName"]`},
		{Selector: `input#lastName`},
		{Selector: `input[autocomplete="family-name"]`},
		{Selector: `input[name*="last" i]`},
		{Selector: `input[id*="last" i]`},
		{Selector: `input[placeholder*="last" i]`},
	},
	"email": {
		{Selector: `input[type="email"]`},
		{Selector: `input[name="email"]`},
		{Selector: `input#email`},
		{Selector: `input[autocomplete="email"]`},
		{Selector: `input[name*="email" i]`},
		{Selector: `input[placeholder*="email" i]`},
	},
	"password": {
		{Selector: `input[name="password"]`},
		{Selector: `input#password`},
		{Selector: `input[type="password"]:not([name*="confirm" i]):not([id*="confirm" i]):not([placeholder*="confirm" i]):not([aria-label*="confirm" i])`},
	},
	"confirmPassword": {
		{Selector: `input[name="confirmPassword"]`},
		{Selector: `input#confirmPassword`},
		{Selector: `input[type="password"][name*="confirm" i]`},
		{Selector: `input[type="password"][id*="confirm" i]`},
		{Selector: `input[type="password"][placeholder*="confirm" i]`},
		{Selector: `input[type="password"][aria-label*="confirm" i]`},
	},
}

// FieldOrder fixes the iteration order of the signup form fields.
var FieldOrder = []string{"firstName", "lastName", "email", "password", "confirmPassword"}

// SubmitStrategies is the ordered candidate list for the form's submit
// control.
var SubmitStrategies = []Strategy{
	{Selector: `button[type="submit"]`},
	{Selector: `input[type="submit"]`},
	{Selector: `form button:not([type="button"])`},
	{Selector: `button`, Text: "sign up"},
	{Selector: `button`, Text: "submit"},
	{Selector: `button`, Text: "register"},
}

// cssEscape makes a label safe for embedding inside a double-quoted CSS
// attribute string.
func cssEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// LabelStrategies builds the candidate list for a free-text click target
// such as a sidebar or navigation entry. Matching never goes beyond
// case-insensitive substring comparison, either inside the selector or
// against element text.
func LabelStrategies(label string) []Strategy {
	esc := cssEscape(label)
	slug := strings.ToLower(strings.ReplaceAll(label, " ", ""))
	dashed := strings.ToLower(strings.ReplaceAll(label, " ", "-"))

	strategies := []Strategy{
		{Selector: fmt.Sprintf(`a[aria-label*="%s" i]`, esc)},
		{Selector: fmt.Sprintf(`a[title*="%s" i]`, esc)},
		{Selector: `a`, Text: label},
		{Selector: `button`, Text: label},
		{Selector: `[role="button"], [role="link"], [role="menuitem"]`, Text: label},
	}
	if slug != "" {
		strategies = append(strategies,
			Strategy{Selector: fmt.Sprintf(`a[href*="%s" i]`, cssEscape(slug))})
	}
	if dashed != slug && dashed != "" {
		strategies = append(strategies,
			Strategy{Selector: fmt.Sprintf(`a[href*="%s" i]`, cssEscape(dashed))})
	}
	return strategies
}
