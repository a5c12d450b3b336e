// internal/agent/models.go
package agent

// ToolName identifies one operation on the agent-facing tool surface.
type ToolName string

const (
	ToolOpenURL         ToolName = "open_url"
	ToolAnalyzePage     ToolName = "analyze_page"
	ToolClickSidebar    ToolName = "click_sidebar"
	ToolFillSignupForm  ToolName = "fill_signup_form"
	ToolFinalizeSession ToolName = "finalize_session"
)

// ToolResult is the structured outcome of a tool invocation. Failures are
// values, never panics or errors escaping the tool boundary: the caller (the
// model) decides whether and how to continue.
type ToolResult struct {
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	ErrorCode ErrorCode              `json:"error_code,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Payload flattens the result into the map shape fed back to the model:
// {"success": ..., "error"?: ..., <data keys>...}.
func (r ToolResult) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Data)+3)
	for k, v := range r.Data {
		out[k] = v
	}
	out["success"] = r.Success
	if r.Error != "" {
		out["error"] = r.Error
	}
	if r.ErrorCode != "" {
		out["error_code"] = string(r.ErrorCode)
	}
	return out
}

// success builds a successful result with the given data payload.
func success(data map[string]interface{}) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// fail builds a failed result carrying an error code and message.
func fail(code ErrorCode, msg string) ToolResult {
	return ToolResult{Success: false, Error: msg, ErrorCode: code}
}

// -- Tool input schemas --

// OpenURLInput are the arguments of the open_url tool.
type OpenURLInput struct {
	URL string `json:"url"`
}

// AnalyzePageInput are the arguments of the analyze_page tool.
type AnalyzePageInput struct {
	IncludeImage bool `json:"include_image"`
}

// ClickSidebarInput are the arguments of the click_sidebar tool.
type ClickSidebarInput struct {
	Label string `json:"label"`
}

// FormValues are the semantic signup-form fields. Field names line up with
// the strategy lists in the resolve package.
type FormValues struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// valueFor returns the value to write for a semantic field name.
func (v FormValues) valueFor(field string) (string, bool) {
	switch field {
	case "firstName":
		return v.FirstName, true
	case "lastName":
		return v.LastName, true
	case "email":
		return v.Email, true
	case "password":
		return v.Password, true
	case "confirmPassword":
		return v.ConfirmPassword, true
	default:
		return "", false
	}
}
