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

// OpenAIClient speaks the OpenAI chat completions API, which many local
// and hosted servers also implement.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewOpenAIClient creates an OpenAI-compatible client from config.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    defaultHTTPClient(),
	}
}

func (c *OpenAIClient) Name() BackendName { return BackendOpenAI }

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate calls /chat/completions. Reasoning models that return
// reasoning_content get it surfaced as Thoughts.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if c.apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.ErrCancelled
		}
		return nil, fmt.Errorf("calling openai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var decoded openAIResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		message := ""
		if decoded.Error != nil {
			message = decoded.Error.Message
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", errors.ErrInvalidAPIKey, message)
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: %s", errors.ErrQuotaExceeded, message)
		}
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, message)
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return nil, errors.ErrEmptyResponse
	}

	return &Result{
		Text:     decoded.Choices[0].Message.Content,
		Thoughts: decoded.Choices[0].Message.ReasoningContent,
		Duration: time.Since(start),
	}, nil
}

func (c *OpenAIClient) buildRequest(req Request) openAIRequest {
	var messages []openAIMessage

	if req.SystemInstruction != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.SystemInstruction})
	}

	if req.Image != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MimeType, req.Image.Data)
		messages = append(messages, openAIMessage{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "text", Text: req.Prompt},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL}},
			},
		})
	} else {
		messages = append(messages, openAIMessage{Role: "user", Content: req.Prompt})
	}

	return openAIRequest{Model: req.Model, Messages: messages}
}
