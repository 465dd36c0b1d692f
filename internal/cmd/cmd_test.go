package cmd

import (
	"strings"
	"testing"

	"github.com/duetmind/duet/internal/config"
)

func TestRootCommandSubcommands(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}
	if rootCmd.Use != "duet" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "duet")
	}

	expectedCmds := []string{"config", "session", "version"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	err := runConfigSet(configSetCmd, []string{"nonsense.key", "value"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown configuration key") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigSetValidatesEnums(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"provider.backend", "anthropic"},
		{"discussion.mode", "freeform"},
		{"discussion.fixed_turns", "many"},
		{"tui.show_notepad", "yes"},
	}

	for _, tt := range tests {
		if err := runConfigSet(configSetCmd, []string{tt.key, tt.value}); err == nil {
			t.Errorf("runConfigSet(%q, %q) accepted an invalid value", tt.key, tt.value)
		}
	}
}

func TestWelcomeText(t *testing.T) {
	cfg := config.Default()
	got := welcomeText(cfg)
	for _, want := range []string{"Cognito", "Muse", cfg.Agents.Cognito.Model, "2 turns"} {
		if !strings.Contains(got, want) {
			t.Errorf("welcomeText missing %q in %q", want, got)
		}
	}

	cfg.Discussion.Mode = "ai-driven"
	got = welcomeText(cfg)
	if !strings.Contains(got, "until both agents agree") {
		t.Errorf("welcomeText missing AI-driven wording in %q", got)
	}

	cfg.Discussion.Mode = "fixed"
	cfg.Discussion.FixedTurns = 1
	if got := welcomeText(cfg); !strings.Contains(got, "1 turn.") {
		t.Errorf("welcomeText did not singularize turn count: %q", got)
	}
}
