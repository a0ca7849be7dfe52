package memory

import (
	"os"
	"strings"

	"github.com/sandevgo/affibot/configs"
	"github.com/sandevgo/affibot/internal/core"
)

// SysPrompt assembles the advisor system prompt from the persona and the
// knowledge document. Runtime files override the embedded defaults and are
// re-read on every call so edits apply without a restart.
type SysPrompt struct {
	cfg core.PromptConfig
}

func NewSysPrompt(cfg core.PromptConfig) *SysPrompt {
	return &SysPrompt{
		cfg: cfg,
	}
}

func (p *SysPrompt) Build() string {
	readFile := func(path, fallback string) string {
		if path == "" {
			return fallback
		}
		content, err := os.ReadFile(path)
		if err != nil || strings.TrimSpace(string(content)) == "" {
			return fallback
		}
		return string(content)
	}

	persona := strings.TrimSpace(readFile(p.cfg.GetPersonaPath(), configs.Persona))
	knowledge := strings.TrimSpace(readFile(p.cfg.GetKnowledgePath(), configs.Knowledge))

	if strings.Contains(persona, configs.KnowledgePlaceholder) {
		return strings.ReplaceAll(persona, configs.KnowledgePlaceholder, knowledge)
	}
	return persona + "\nReference this information: " + knowledge
}
