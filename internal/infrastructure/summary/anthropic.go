package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"coindigest/internal/config"
	"coindigest/internal/domain"
	"coindigest/internal/ports"
)

const anthropicMaxTokens = 1024

// AnthropicProvider generates digest commentary through the Anthropic
// messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  anthropic.Model
	apiKey string
}

var _ ports.SummaryProvider = (*AnthropicProvider)(nil)

// NewAnthropicProvider builds a provider from configuration. The model
// defaults to the latest Haiku.
func NewAnthropicProvider(cfg config.SummaryConfig) *AnthropicProvider {
	model := anthropic.ModelClaudeHaiku4_5
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AnthropicProvider{
		client: &client,
		model:  model,
		apiKey: cfg.APIKey,
	}
}

// Name identifies the provider in logs.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Available reports whether credentials are configured.
func (p *AnthropicProvider) Available() bool { return p.apiKey != "" }

// Generate asks the model for a short sentiment commentary.
func (p *AnthropicProvider) Generate(ctx context.Context, input domain.SummaryInput) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: analystSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(input))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return strings.TrimSpace(resp.Content[0].Text), nil
}
