package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/duetmind/duet/internal/config"
	"github.com/duetmind/duet/internal/errors"
)

const geminiDefaultEndpoint = "https://generativelanguage.googleapis.com"

// GeminiClient speaks the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewGeminiClient creates a Gemini client from config.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = geminiDefaultEndpoint
	}
	return &GeminiClient{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		http:     defaultHTTPClient(),
	}
}

func (c *GeminiClient) Name() BackendName { return BackendGemini }

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	Thought    bool              `json:"thought,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiThinkingConfig struct {
	ThinkingBudget  *int   `json:"thinkingBudget,omitempty"`
	ThinkingLevel   string `json:"thinkingLevel,omitempty"`
	IncludeThoughts bool   `json:"includeThoughts,omitempty"`
}

type geminiGenerationConfig struct {
	ThinkingConfig *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error"`
}

// Generate calls models/{model}:generateContent and splits thought parts
// from answer parts.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if c.apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.ErrCancelled
		}
		return nil, fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp.StatusCode, decoded.Error)
	}

	var text, thoughts strings.Builder
	if len(decoded.Candidates) > 0 {
		for _, part := range decoded.Candidates[0].Content.Parts {
			if part.Thought {
				thoughts.WriteString(part.Text)
			} else {
				text.WriteString(part.Text)
			}
		}
	}

	if text.Len() == 0 && thoughts.Len() == 0 {
		return nil, errors.ErrEmptyResponse
	}

	return &Result{
		Text:     text.String(),
		Thoughts: thoughts.String(),
		Duration: time.Since(start),
	}, nil
}

func (c *GeminiClient) buildRequest(req Request) geminiRequest {
	parts := make([]geminiPart, 0, 2)
	if req.Image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: req.Image.MimeType,
			Data:     req.Image.Data,
		}})
	}
	parts = append(parts, geminiPart{Text: req.Prompt})

	out := geminiRequest{
		Contents: []geminiContent{{Parts: parts, Role: "user"}},
	}

	if req.SystemInstruction != "" {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}

	if tc := req.Thinking; tc != nil {
		inner := &geminiThinkingConfig{IncludeThoughts: true}
		if UsesThinkingLevel(req.Model) {
			inner.ThinkingLevel = tc.Level
		} else if tc.Budget != -1 {
			// -1 leaves the budget to the model
			budget := tc.Budget
			inner.ThinkingBudget = &budget
		}
		out.GenerationConfig = &geminiGenerationConfig{ThinkingConfig: inner}
	}

	return out
}

func (c *GeminiClient) apiError(status int, apiErr *geminiError) error {
	message := ""
	if apiErr != nil {
		message = apiErr.Message
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", errors.ErrQuotaExceeded, message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", errors.ErrInvalidAPIKey, message)
	case status == http.StatusBadRequest && strings.Contains(message, "API key not valid"):
		return fmt.Errorf("%w: %s", errors.ErrInvalidAPIKey, message)
	}
	return fmt.Errorf("gemini API error (status %d): %s", status, message)
}
