package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duetmind/duet/internal/config"
	"github.com/duetmind/duet/internal/errors"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		backend string
		want    BackendName
		wantErr bool
	}{
		{"gemini", BackendGemini, false},
		{"", BackendGemini, false},
		{"openai", BackendOpenAI, false},
		{"GEMINI", BackendGemini, false},
		{"anthropic", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Provider.Backend = tt.backend

			client, err := NewFromConfig(cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBackend) {
					t.Fatalf("err = %v, want ErrUnknownBackend", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFromConfig() error = %v", err)
			}
			if client.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", client.Name(), tt.want)
			}
		})
	}
}

func TestGeminiGenerateSplitsThoughts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "key123" {
			t.Errorf("api key header = %q", got)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "persona" {
			t.Errorf("systemInstruction = %+v", req.SystemInstruction)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "thinking...", "thought": true},
						{"text": "the answer"},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewGeminiClient(config.GeminiConfig{APIKey: "key123", Endpoint: srv.URL})
	got, err := client.Generate(context.Background(), Request{
		Model:             "test-model",
		Prompt:            "question",
		SystemInstruction: "persona",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Text != "the answer" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Thoughts != "thinking..." {
		t.Errorf("Thoughts = %q", got.Thoughts)
	}
}

func TestGeminiGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"forbidden", http.StatusForbidden, `{"error":{"message":"permission denied"}}`, errors.ErrInvalidAPIKey},
		{"bad key", http.StatusBadRequest, `{"error":{"message":"API key not valid. Please pass a valid API key."}}`, errors.ErrInvalidAPIKey},
		{"quota", http.StatusTooManyRequests, `{"error":{"message":"quota exhausted"}}`, errors.ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewGeminiClient(config.GeminiConfig{APIKey: "k", Endpoint: srv.URL})
			_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGeminiGenerateMissingKey(t *testing.T) {
	client := NewGeminiClient(config.GeminiConfig{})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, errors.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGeminiGenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(config.GeminiConfig{APIKey: "k", Endpoint: srv.URL})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, errors.ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGeminiGenerateCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewGeminiClient(config.GeminiConfig{APIKey: "k", Endpoint: srv.URL})
	_, err := client.Generate(ctx, Request{Model: "m", Prompt: "p"})
	if !errors.IsCancellation(err) {
		t.Errorf("err = %v, want cancellation", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sek" {
			t.Errorf("Authorization = %q", got)
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{
					"content":           "the answer",
					"reasoning_content": "thinking...",
				},
			}},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.OpenAIConfig{APIKey: "sek", BaseURL: srv.URL})
	got, err := client.Generate(context.Background(), Request{
		Model:             "o4-mini",
		Prompt:            "question",
		SystemInstruction: "persona",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Text != "the answer" || got.Thoughts != "thinking..." {
		t.Errorf("Result = %+v", got)
	}
}

func TestOpenAIGenerateErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := client.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if !errors.Is(err, errors.ErrInvalidAPIKey) {
		t.Errorf("err = %v, want ErrInvalidAPIKey", err)
	}
}

func TestLookupModel(t *testing.T) {
	if m, ok := LookupModel("gemini-2.5-flash"); !ok || m.APIName != "gemini-2.5-flash" {
		t.Errorf("LookupModel = %+v, %v", m, ok)
	}
	if _, ok := LookupModel("no-such-model"); ok {
		t.Error("LookupModel found an unknown model")
	}
}
