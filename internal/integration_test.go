// Package internal contains integration tests that verify the packages
// work together: a full discussion flow over a stub provider, with the
// transcript and notepad persisted and restored through the session store.
package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/logging"
	"github.com/duetmind/duet/internal/notepad"
	"github.com/duetmind/duet/internal/orchestrator"
	"github.com/duetmind/duet/internal/prompt"
	"github.com/duetmind/duet/internal/provider"
	"github.com/duetmind/duet/internal/session"
)

// scriptedClient returns canned responses in call order.
type scriptedClient struct {
	mu        sync.Mutex
	calls     int
	responses []string
}

func (c *scriptedClient) Name() provider.BackendName { return "scripted" }

func (c *scriptedClient) Generate(ctx context.Context, req provider.Request) (*provider.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls >= len(c.responses) {
		return nil, fmt.Errorf("unexpected call %d", c.calls)
	}
	text := c.responses[c.calls]
	c.calls++
	return &provider.Result{Text: text}, nil
}

func TestDiscussionFlowPersistsAndRestores(t *testing.T) {
	dir := t.TempDir()
	store, err := session.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	client := &scriptedClient{responses: []string{
		"Opening thoughts.\n```json\n{\"notepad_modifications\":[{\"action\":\"append\",\"content\":\"- premise established\"}]}\n```",
		"A creative angle.",
		"Refining the argument.",
		"Another perspective.",
		"The final answer.\n```json\n{\"notepad_modifications\":[{\"action\":\"replace_all\",\"content\":\"# Summary\\nDone.\"}]}\n```",
	}}

	log := chat.NewLog()
	pad := notepad.NewEngine(prompt.InitialNotepad)
	orch := orchestrator.New(client, log, pad, logging.Nop())
	orch.SetSettings(orchestrator.Settings{
		Mode:           chat.ModeFixedTurns,
		FixedTurns:     2,
		MaxAutoRetries: 0,
		Cognito:        orchestrator.AgentSettings{Model: "model-c"},
		Muse:           orchestrator.AgentSettings{Model: "model-m"},
	})

	// Autosave after every transcript or notepad change, as the TUI
	// wiring does.
	autosave := func() {
		if err := store.Save(session.Snapshot{
			Messages: log.Messages(),
			Notepad:  pad.Content(),
		}); err != nil {
			t.Errorf("autosave: %v", err)
		}
	}
	log.OnChange(autosave)
	pad.OnChange(autosave)

	if err := orch.Start(context.Background(), "What is consciousness?", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if client.calls != 5 {
		t.Errorf("provider calls = %d, want 5", client.calls)
	}
	if got := pad.Content(); got != "# Summary\nDone." {
		t.Errorf("notepad = %q, want final replacement", got)
	}

	// Reload the session as a fresh process would.
	restored := store.Load()
	if len(restored.Messages) == 0 {
		t.Fatal("no messages persisted")
	}
	if restored.Notepad != pad.Content() {
		t.Errorf("persisted notepad = %q, want %q", restored.Notepad, pad.Content())
	}

	var final *chat.Message
	for i := range restored.Messages {
		if restored.Messages[i].Purpose == chat.PurposeFinalResponse {
			final = &restored.Messages[i]
		}
	}
	if final == nil {
		t.Fatal("no final response persisted")
	}
	if !strings.Contains(final.Text, "The final answer.") {
		t.Errorf("final response text = %q", final.Text)
	}

	log2 := chat.NewLogFromMessages(restored.Messages)
	if log2.Len() != len(restored.Messages) {
		t.Errorf("restored log length = %d, want %d", log2.Len(), len(restored.Messages))
	}
}
