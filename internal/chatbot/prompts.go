package chatbot

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type PromptConfig struct {
	TutorPrompt   string `yaml:"tutor_prompt"`
	FallbackReply string `yaml:"fallback_reply"`
}

const defaultTutorPrompt = `You are an expert English language tutor.

Context: %CONTEXT%

User's question: %MESSAGE%

Give a clear, encouraging answer with short examples the learner can reuse.`

const defaultFallbackReply = "I'm having trouble answering right now. Please try again in a moment."

func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		TutorPrompt:   defaultTutorPrompt,
		FallbackReply: defaultFallbackReply,
	}
}

// LoadPromptConfig reads prompt overrides from a YAML file. An empty path
// means defaults; a set-but-unreadable path is an error.
func LoadPromptConfig(path string) (PromptConfig, error) {
	cfg := DefaultPromptConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read prompt config: %w", err)
	}
	var overrides PromptConfig
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return cfg, fmt.Errorf("parse prompt config: %w", err)
	}
	if strings.TrimSpace(overrides.TutorPrompt) != "" {
		cfg.TutorPrompt = overrides.TutorPrompt
	}
	if strings.TrimSpace(overrides.FallbackReply) != "" {
		cfg.FallbackReply = overrides.FallbackReply
	}
	return cfg, nil
}

// BuildPrompt substitutes the conversation context and the user message into
// the tutor prompt template.
func (pc PromptConfig) BuildPrompt(contextString, message string) string {
	prompt := strings.ReplaceAll(pc.TutorPrompt, "%CONTEXT%", contextString)
	return strings.ReplaceAll(prompt, "%MESSAGE%", message)
}
