package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sandevgo/affibot/internal/core"
)

const openAIBaseURL = "https://api.openai.com/v1/"

// OpenAI talks to the OpenAI API through the official SDK.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI provider. An empty baseURL targets api.openai.com.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	return &OpenAI{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithHeader("User-Agent", core.AffiUserAgent),
			// Retries belong to the caller; a failed answer is reported, not replayed.
			option.WithMaxRetries(0),
		),
		model: model,
	}
}

func (o *OpenAI) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserContent),
		},
		MaxTokens: openai.Int(int64(maxTokens(req))),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", generationError(fmt.Errorf("openai http %d: %s", apiErr.StatusCode, apiErr.Message))
		}
		return "", generationError(err)
	}

	if len(resp.Choices) == 0 {
		return "", generationError(errors.New("empty choices"))
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", generationError(errors.New("empty completion content"))
	}
	return text, nil
}

func (o *OpenAI) Models(ctx context.Context) ([]core.Model, error) {
	iter := o.client.Models.ListAutoPaging(ctx)

	var models []core.Model
	for iter.Next() {
		m := iter.Current()
		models = append(models, core.Model{
			ID:   m.ID,
			Name: m.ID,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	return models, nil
}
