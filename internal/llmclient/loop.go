// internal/llmclient/loop.go
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xkilldash9x/pagepilot/internal/agent"
)

const systemPrompt = `You are a web navigation agent controlling a real browser through tools.
Work toward the user's objective one tool call at a time. Always call
analyze_page after navigation or clicks to see the current page before
acting on it. When the objective is complete, or cannot be completed,
call finalize_session to close the browser and then stop.

Tool failures come back as structured results with success=false and an
error message. A "not_found" error means the element does not exist on
the current page; re-analyze the page and adjust instead of repeating
the same call. The signup form can only be submitted once.`

// generator produces one model turn. *Client satisfies it.
type generator interface {
	Generate(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error)
}

// toolExecutor dispatches one tool call. *agent.Toolset satisfies it.
type toolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]interface{}) agent.ToolResult
}

// Runner drives the model/tool conversation until the model stops calling
// tools, the session is finalized, or the turn budget runs out.
type Runner struct {
	llm      generator
	tools    toolExecutor
	maxTurns int
	logger   *zap.Logger
}

// NewRunner assembles an agent loop. maxTurns below 1 falls back to a
// single turn.
func NewRunner(llm generator, tools toolExecutor, maxTurns int, logger *zap.Logger) *Runner {
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Runner{
		llm:      llm,
		tools:    tools,
		maxTurns: maxTurns,
		logger:   logger.Named("AgentLoop"),
	}
}

// Run executes the loop for a single objective. It returns nil when the
// model finishes cleanly and an error when the model fails or the turn
// budget is exhausted with the objective still open.
func (r *Runner) Run(ctx context.Context, objective string) error {
	if objective == "" {
		return fmt.Errorf("objective must not be empty")
	}

	history := []*genai.Content{
		genai.NewContentFromText(objective, genai.RoleUser),
	}
	declarations := agent.Declarations()

	for turn := 1; turn <= r.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("agent loop interrupted: %w", err)
		}

		r.logger.Debug("Requesting model turn.", zap.Int("turn", turn))

		reply, err := r.llm.Generate(ctx, systemPrompt, history, declarations)
		if err != nil {
			return fmt.Errorf("model turn %d failed: %w", turn, err)
		}
		history = append(history, reply)

		calls := functionCalls(reply)
		if len(calls) == 0 {
			r.logger.Info("Model finished without further tool calls.", zap.Int("turns", turn))
			return nil
		}

		finalized := false
		responses := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result := r.tools.Execute(ctx, call.Name, call.Args)
			r.logger.Info("Tool call completed.",
				zap.String("tool", call.Name),
				zap.Bool("success", result.Success),
			)

			responses = append(responses, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: result.Payload(),
				},
			})

			if call.Name == string(agent.ToolFinalizeSession) && result.Success {
				finalized = true
			}
		}

		history = append(history, &genai.Content{
			Role:  genai.RoleUser,
			Parts: responses,
		})

		if finalized {
			r.logger.Info("Session finalized.", zap.Int("turns", turn))
			return nil
		}
	}

	return fmt.Errorf("turn budget exhausted after %d turns", r.maxTurns)
}

func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}
