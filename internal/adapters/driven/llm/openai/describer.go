// Package openai describes images through an OpenAI-compatible chat
// completions API. Groq and other compatible providers work by changing
// the base URL.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/embedding"
	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/llm"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// Ensure Describer implements the interface.
var _ driven.ImageDescriber = (*Describer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	GroqBaseURL    = "https://api.groq.com/openai/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the describer.
type Config struct {
	// APIKey is the provider API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Vision attaches the image itself to the request. Only enable it
	// for models that accept image input.
	Vision bool
}

// Describer generates searchable descriptions of images.
type Describer struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	vision  bool
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is a chat message. Content is either a string or a
// list of content parts.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewDescriber creates a new describer.
func NewDescriber(cfg Config) (*Describer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Describer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		vision:  cfg.Vision,
	}, nil
}

// Describe returns a description of the image built from its OCR text.
func (d *Describer) Describe(ctx context.Context, image []byte, ocrText string) (string, error) {
	var userContent any = llm.DescribePrompt(ocrText)
	if d.vision && len(image) > 0 {
		dataURL := "data:" + llm.ImageMIME(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
		userContent = []contentPart{
			{Type: "text", Text: llm.DescribePrompt(ocrText)},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		}
	}

	reqBody := chatCompletionRequest{
		Model: d.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: llm.SystemPrompt},
			{Role: "user", Content: userContent},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", embedding.TransportError("openai", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", embedding.StatusError("openai", resp.StatusCode, body)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the chat model being used.
func (d *Describer) ModelName() string {
	return d.model
}
