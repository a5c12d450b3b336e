// internal/agent/declarations.go
package agent

import (
	"google.golang.org/genai"
)

// Declarations returns the schema of the tool surface in the form the model
// consumes. Names and parameter shapes line up with Toolset.Execute.
func Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        string(ToolOpenURL),
			Description: "Open a URL in the browser session, creating the session on first use. A second call reuses the same session.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"url": {
						Type:        genai.TypeString,
						Description: "The absolute URL to navigate to.",
					},
				},
				Required: []string{"url"},
			},
		},
		{
			Name:        string(ToolAnalyzePage),
			Description: "Summarize the current page: title, URL, visible headings, clickable elements, and form inputs. Optionally attach a screenshot as base64.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"include_image": {
						Type:        genai.TypeBoolean,
						Description: "When true, attach a viewport screenshot to the result.",
					},
				},
			},
		},
		{
			Name:        string(ToolClickSidebar),
			Description: "Click a sidebar or navigation element by its visible text label, e.g. 'Sign Up'.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"label": {
						Type:        genai.TypeString,
						Description: "The visible text of the element to click.",
					},
				},
				Required: []string{"label"},
			},
		},
		{
			Name:        string(ToolFillSignupForm),
			Description: "Fill the signup form fields and submit it. Can only succeed once per session; a second call is rejected.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"firstName":       {Type: genai.TypeString},
					"lastName":        {Type: genai.TypeString},
					"email":           {Type: genai.TypeString},
					"password":        {Type: genai.TypeString},
					"confirmPassword": {Type: genai.TypeString},
				},
				Required: []string{"firstName", "lastName", "email", "password", "confirmPassword"},
			},
		},
		{
			Name:        string(ToolFinalizeSession),
			Description: "Terminate the browser session. Call this when the workflow is complete.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
			},
		},
	}
}
