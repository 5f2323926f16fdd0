// Package llm wraps the upstream text-completion services behind one
// interface so the pipeline does not care which provider answers.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/user/mleague-analyst/internal/config"
	"go.uber.org/zap"
)

// Request is a single-shot completion call.
type Request struct {
	Stage       string // synthesis, extraction, narration; used in logs and metrics
	System      string
	Prompt      string
	Temperature float64
}

// Client is implemented by every provider and by MockClient.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// NewClient builds the provider selected in cfg. The caller is expected to
// check cfg.APIKey first; an empty key is rejected here as well.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderAnthropic:
		return newAnthropicClient(cfg, logger), nil
	case config.ProviderOpenAI, "":
		return newOpenAIClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// withTimeout bounds one upstream call. Calls are never retried.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
