// internal/llmclient/loop_test.go
package llmclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	"github.com/xkilldash9x/pagepilot/internal/agent"
)

// scriptedGenerator plays back model turns in order and records the history
// it was handed on each call.
type scriptedGenerator struct {
	turns     []*genai.Content
	errs      []error
	calls     int
	histories [][]*genai.Content
}

func (s *scriptedGenerator) Generate(_ context.Context, _ string, history []*genai.Content, _ []*genai.FunctionDeclaration) (*genai.Content, error) {
	snapshot := make([]*genai.Content, len(history))
	copy(snapshot, history)
	s.histories = append(s.histories, snapshot)

	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.turns) {
		return genai.NewContentFromText("nothing left", genai.RoleModel), nil
	}
	return s.turns[i], nil
}

// recordingExecutor returns canned results per tool name and records calls.
type recordingExecutor struct {
	results map[string]agent.ToolResult
	calls   []string
	args    []map[string]interface{}
}

func (r *recordingExecutor) Execute(_ context.Context, name string, args map[string]interface{}) agent.ToolResult {
	r.calls = append(r.calls, name)
	r.args = append(r.args, args)
	if result, ok := r.results[name]; ok {
		return result
	}
	return agent.ToolResult{Success: true, Data: map[string]interface{}{}}
}

func callTurn(name string, args map[string]interface{}) *genai.Content {
	return &genai.Content{
		Role: genai.RoleModel,
		Parts: []*genai.Part{
			{FunctionCall: &genai.FunctionCall{Name: name, Args: args}},
		},
	}
}

func TestRunStopsWhenModelStopsCallingTools(t *testing.T) {
	llm := &scriptedGenerator{
		turns: []*genai.Content{genai.NewContentFromText("all done", genai.RoleModel)},
	}
	tools := &recordingExecutor{}
	runner := NewRunner(llm, tools, 5, zaptest.NewLogger(t))

	require.NoError(t, runner.Run(context.Background(), "sign up on example.com"))
	assert.Equal(t, 1, llm.calls)
	assert.Empty(t, tools.calls)
}

func TestRunExecutesToolsAndFinalizes(t *testing.T) {
	llm := &scriptedGenerator{
		turns: []*genai.Content{
			callTurn("open_url", map[string]interface{}{"url": "https://example.com"}),
			callTurn("finalize_session", nil),
		},
	}
	tools := &recordingExecutor{}
	runner := NewRunner(llm, tools, 5, zaptest.NewLogger(t))

	require.NoError(t, runner.Run(context.Background(), "open the site and finish"))
	assert.Equal(t, []string{"open_url", "finalize_session"}, tools.calls)
	assert.Equal(t, "https://example.com", tools.args[0]["url"])
	// Two model turns: the finalize turn ends the loop.
	assert.Equal(t, 2, llm.calls)
}

func TestRunFeedsToolResultsBackAsFunctionResponses(t *testing.T) {
	llm := &scriptedGenerator{
		turns: []*genai.Content{
			callTurn("click_sidebar", map[string]interface{}{"label": "Sign Up"}),
			genai.NewContentFromText("adjusting", genai.RoleModel),
		},
	}
	tools := &recordingExecutor{
		results: map[string]agent.ToolResult{
			"click_sidebar": {Success: false, Error: "not_found", ErrorCode: "ELEMENT_NOT_FOUND"},
		},
	}
	runner := NewRunner(llm, tools, 5, zaptest.NewLogger(t))

	require.NoError(t, runner.Run(context.Background(), "click the sidebar"))
	require.Equal(t, 2, llm.calls)

	// Second turn history: objective, model call, tool response.
	second := llm.histories[1]
	require.Len(t, second, 3)
	last := second[2]
	assert.Equal(t, genai.RoleUser, last.Role)
	require.Len(t, last.Parts, 1)
	fr := last.Parts[0].FunctionResponse
	require.NotNil(t, fr)
	assert.Equal(t, "click_sidebar", fr.Name)
	assert.Equal(t, false, fr.Response["success"])
	assert.Equal(t, "not_found", fr.Response["error"])
}

func TestRunContinuesWhenFinalizeFails(t *testing.T) {
	llm := &scriptedGenerator{
		turns: []*genai.Content{
			callTurn("finalize_session", nil),
			callTurn("finalize_session", nil),
		},
	}
	calls := 0
	tools := execFunc(func(ctx context.Context, name string, args map[string]interface{}) agent.ToolResult {
		calls++
		if calls == 1 {
			return agent.ToolResult{Success: false, Error: "browser teardown failed"}
		}
		return agent.ToolResult{Success: true, Data: map[string]interface{}{"message": "Browser session terminated."}}
	})
	runner := NewRunner(llm, tools, 5, zaptest.NewLogger(t))

	require.NoError(t, runner.Run(context.Background(), "finish up"))
	assert.Equal(t, 2, calls)
}

// execFunc adapts a function to the toolExecutor interface.
type execFunc func(ctx context.Context, name string, args map[string]interface{}) agent.ToolResult

func (f execFunc) Execute(ctx context.Context, name string, args map[string]interface{}) agent.ToolResult {
	return f(ctx, name, args)
}

func TestRunErrorsWhenTurnBudgetExhausted(t *testing.T) {
	llm := &scriptedGenerator{
		turns: []*genai.Content{
			callTurn("analyze_page", nil),
			callTurn("analyze_page", nil),
			callTurn("analyze_page", nil),
		},
	}
	tools := &recordingExecutor{}
	runner := NewRunner(llm, tools, 2, zaptest.NewLogger(t))

	err := runner.Run(context.Background(), "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turn budget exhausted after 2 turns")
	assert.Equal(t, 2, llm.calls)
}

func TestRunPropagatesModelFailure(t *testing.T) {
	llm := &scriptedGenerator{errs: []error{errors.New("rate limited")}}
	runner := NewRunner(llm, &recordingExecutor{}, 5, zaptest.NewLogger(t))

	err := runner.Run(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model turn 1 failed")
}

func TestRunRejectsEmptyObjective(t *testing.T) {
	runner := NewRunner(&scriptedGenerator{}, &recordingExecutor{}, 5, zaptest.NewLogger(t))
	require.Error(t, runner.Run(context.Background(), ""))
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&scriptedGenerator{}, &recordingExecutor{}, 5, zaptest.NewLogger(t))
	err := runner.Run(ctx, "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
