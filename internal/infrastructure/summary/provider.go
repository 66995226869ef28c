package summary

import (
	"coindigest/internal/config"
	"coindigest/internal/ports"
)

// NewProvider selects the configured provider implementation. Unknown
// provider names yield nil, which disables summaries entirely.
func NewProvider(cfg config.SummaryConfig) ports.SummaryProvider {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	default:
		return nil
	}
}
