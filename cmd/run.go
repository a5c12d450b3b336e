// -- cmd/run.go --
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/agent"
	"github.com/xkilldash9x/pagepilot/internal/browser"
	"github.com/xkilldash9x/pagepilot/internal/llmclient"
	"github.com/xkilldash9x/pagepilot/internal/observability"
)

const shutdownGrace = 15 * time.Second

// newRunCmd creates the `run` command, which drives the agent loop against
// a natural-language objective.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [objective...]",
		Short: "Runs the browser agent against a natural-language objective",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			objective := strings.Join(args, " ")

			manager := browser.NewManager(logger, cfg)
			provider := agent.NewManagerProvider(manager)
			toolset := agent.NewToolset(provider, cfg, logger)

			// The browser is torn down no matter how the loop ends. A fresh
			// context with its own deadline lets teardown proceed even when
			// the run context was canceled.
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				if err := manager.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Browser teardown reported an error.", zap.Error(err))
				}
				observability.Sync()
			}()

			llm, err := llmclient.NewClient(ctx, cfg.Agent(), logger)
			if err != nil {
				return fmt.Errorf("failed to create LLM client: %w", err)
			}

			runner := llmclient.NewRunner(llm, toolset, cfg.Agent().MaxTurns, logger)

			logger.Info("Starting agent run.",
				zap.String("objective", objective),
				zap.Int("max_turns", cfg.Agent().MaxTurns),
			)

			if err := runner.Run(ctx, objective); err != nil {
				return fmt.Errorf("agent run failed: %w", err)
			}

			logger.Info("Agent run completed.")
			return nil
		},
	}

	return runCmd
}
