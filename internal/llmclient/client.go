// internal/llmclient/client.go
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// generativeModel is the slice of the Gemini SDK the client depends on.
type generativeModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client wraps a Gemini model with configuration-driven generation settings
// and a client-side rate limit.
type Client struct {
	model   generativeModel
	cfg     config.LLMConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient is a factory that creates an LLM client for the configured
// provider. A missing API key is not an error here: construction succeeds
// and the first generation call reports the credential failure instead.
func NewClient(ctx context.Context, cfg config.AgentConfig, logger *zap.Logger) (*Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		return newGeminiClient(ctx, cfg.LLM, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: '%s'. Supported: [%s]", cfg.LLM.Provider, config.ProviderGemini)
	}
}

func newGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Client, error) {
	log := logger.Named("llm_client.gemini")

	if cfg.APIKey == "" {
		log.Warn("No Gemini API key configured. Generation calls will fail until one is provided.",
			zap.String("env", "GEMINI_API_KEY"))
	}

	sdkClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return newClient(sdkClient.Models, cfg, log), nil
}

func newClient(model generativeModel, cfg config.LLMConfig, logger *zap.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(cfg.RequestsPerMinute / 60.0)
	}

	return &Client{
		model:   model,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Generate sends the conversation to the model and returns the first
// candidate. The call honors the configured rate limit and per-request
// timeout. Failures are returned to the caller unretried.
func (c *Client) Generate(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	callCtx := ctx
	if c.cfg.APITimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.cfg.APITimeout)
		defer cancel()
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Temperature),
	}
	if c.cfg.TopP > 0 {
		genCfg.TopP = genai.Ptr(c.cfg.TopP)
	}
	if c.cfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(c.cfg.MaxTokens)
	}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(tools) > 0 {
		genCfg.Tools = []*genai.Tool{{FunctionDeclarations: tools}}
	}

	resp, err := c.model.GenerateContent(callCtx, c.cfg.Model, history, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini API returned no candidates")
	}

	if resp.UsageMetadata != nil {
		c.logger.Debug("LLM generation complete.",
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount),
		)
	}

	return resp.Candidates[0].Content, nil
}
