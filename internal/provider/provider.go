// Package provider abstracts the AI backends that power the two agents.
// Both backends speak plain HTTPS so the binary has no SDK dependency and
// any OpenAI-compatible server works out of the box.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/config"
)

// BackendName identifies a supported AI backend.
type BackendName string

const (
	BackendGemini BackendName = "gemini"
	BackendOpenAI BackendName = "openai"
)

// ThinkingConfig controls model reasoning effort. Budget of -1 means
// automatic, 0 disables thinking. Level is used by models that take a
// named level instead of a token budget.
type ThinkingConfig struct {
	Budget int
	Level  string
}

// Request is one generation call.
type Request struct {
	Model             string
	Prompt            string
	SystemInstruction string
	Image             *chat.Image
	Thinking          *ThinkingConfig
}

// Result is the text a backend produced, with reasoning separated out
// when the backend reports it.
type Result struct {
	Text     string
	Thoughts string
	Duration time.Duration
}

// Client generates text from a prompt. Implementations must honor
// context cancellation and map backend failures onto the shared error
// sentinels.
type Client interface {
	Name() BackendName
	Generate(ctx context.Context, req Request) (*Result, error)
}

// ErrUnknownBackend is returned when the configured backend is unsupported.
var ErrUnknownBackend = fmt.Errorf("unknown provider backend")

// NewFromConfig builds a Client from configuration.
func NewFromConfig(cfg *config.Config) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing config")
	}

	switch strings.ToLower(cfg.Provider.Backend) {
	case string(BackendGemini), "":
		return NewGeminiClient(cfg.Provider.Gemini), nil
	case string(BackendOpenAI):
		return NewOpenAIClient(cfg.Provider.OpenAI), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Provider.Backend)
	}
}

// defaultHTTPClient has no overall timeout: generation calls can run for
// minutes and are bounded by the request context instead.
func defaultHTTPClient() *http.Client {
	return &http.Client{}
}
