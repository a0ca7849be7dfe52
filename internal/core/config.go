package core

import "context"

type PromptConfig interface {
	GetKnowledgePath() string
	GetPersonaPath() string
}

type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	SetModel(model string) error
	GetOpenAIAPIKey() string
	GetOpenRouterAPIKey() string
	GetAnthropicAPIKey() string
	GetOllamaBaseURL() string
	GetOllamaAPIKey() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
}

type GlobalState interface {
	ChangeModel(ctx context.Context, model string) error
	CurrentModel() string
	AvailableModels(ctx context.Context) ([]Model, error)
}
