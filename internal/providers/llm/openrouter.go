package llm

import (
	"context"

	"github.com/sandevgo/affibot/internal/core"
)

const openRouterBaseURL = "https://openrouter.ai/api"

type OpenRouter struct {
	*OpenAICompatible
}

func NewOpenRouter(apiKey, model string) *OpenRouter {
	return newOpenRouterAt(openRouterBaseURL, apiKey, model)
}

func newOpenRouterAt(baseURL, apiKey, model string) *OpenRouter {
	return &OpenRouter{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			ExtraHeaders: map[string]string{
				"HTTP-Referer": core.AffiRepositoryURL,
				"X-Title":      core.AffiName,
			},
		}),
	}
}

// Models returns the OpenRouter catalogue, which carries context lengths.
func (o *OpenRouter) Models(ctx context.Context) ([]core.Model, error) {
	return o.listModels(ctx)
}
