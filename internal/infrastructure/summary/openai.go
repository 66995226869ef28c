package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"coindigest/internal/config"
	"coindigest/internal/domain"
	"coindigest/internal/ports"
)

// OpenAIProvider generates digest commentary through the OpenAI chat API.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.ChatModel
	apiKey string
}

var _ ports.SummaryProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider from configuration. The model defaults
// to gpt-4o-mini.
func NewOpenAIProvider(cfg config.SummaryConfig) *OpenAIProvider {
	model := openai.ChatModelGPT4oMini
	if cfg.Model != "" {
		model = openai.ChatModel(cfg.Model)
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &OpenAIProvider{
		client: &client,
		model:  model,
		apiKey: cfg.APIKey,
	}
}

// Name identifies the provider in logs.
func (p *OpenAIProvider) Name() string { return "openai" }

// Available reports whether credentials are configured.
func (p *OpenAIProvider) Available() bool { return p.apiKey != "" }

// Generate asks the model for a short sentiment commentary.
func (p *OpenAIProvider) Generate(ctx context.Context, input domain.SummaryInput) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analystSystemPrompt),
			openai.UserMessage(buildUserPrompt(input)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
