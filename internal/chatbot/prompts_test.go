package chatbot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptConfigDefaults(t *testing.T) {
	cfg, err := LoadPromptConfig("")
	if err != nil {
		t.Fatalf("LoadPromptConfig: %v", err)
	}
	if cfg.TutorPrompt != defaultTutorPrompt || cfg.FallbackReply != defaultFallbackReply {
		t.Fatalf("empty path should yield defaults")
	}
}

func TestLoadPromptConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := "tutor_prompt: \"Answer %MESSAGE% using %CONTEXT%\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadPromptConfig(path)
	if err != nil {
		t.Fatalf("LoadPromptConfig: %v", err)
	}
	if cfg.TutorPrompt != "Answer %MESSAGE% using %CONTEXT%" {
		t.Fatalf("TutorPrompt = %q", cfg.TutorPrompt)
	}
	if cfg.FallbackReply != defaultFallbackReply {
		t.Fatalf("unset fields should keep defaults, got %q", cfg.FallbackReply)
	}
}

func TestLoadPromptConfigMissingFile(t *testing.T) {
	if _, err := LoadPromptConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("unreadable explicit path should error")
	}
}

func TestBuildPrompt(t *testing.T) {
	cfg := PromptConfig{TutorPrompt: "ctx=[%CONTEXT%] msg=[%MESSAGE%]"}
	got := cfg.BuildPrompt("User: hi\nBot: hello", "what is a verb?")
	if got != "ctx=[User: hi\nBot: hello] msg=[what is a verb?]" {
		t.Fatalf("BuildPrompt = %q", got)
	}
}

func TestBuildPromptDefaultTemplate(t *testing.T) {
	cfg := DefaultPromptConfig()
	got := cfg.BuildPrompt("", "what is a verb?")
	if strings.Contains(got, "%CONTEXT%") || strings.Contains(got, "%MESSAGE%") {
		t.Fatalf("placeholders left unsubstituted: %q", got)
	}
	if !strings.Contains(got, "what is a verb?") {
		t.Fatalf("message missing from prompt: %q", got)
	}
}
