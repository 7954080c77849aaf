// Package ollama describes images with a local Ollama chat model.
package ollama

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
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 300 * time.Second // Local models can be slow
)

// Config holds configuration for the Ollama describer.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the chat model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 300s).
	Timeout time.Duration

	// Vision attaches the image for multimodal models such as llava.
	Vision bool
}

// Describer generates image descriptions using Ollama.
type Describer struct {
	client  *http.Client
	baseURL string
	model   string
	vision  bool
}

// chatRequest is the Ollama /api/chat request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

// options contains model generation options.
type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatMessage is the Ollama chat message format.
type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// chatResponse is the Ollama /api/chat response format.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewDescriber creates a new Ollama describer.
func NewDescriber(cfg Config) *Describer {
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
		model:   cfg.Model,
		vision:  cfg.Vision,
	}
}

// Describe returns a description of the image built from its OCR text.
func (d *Describer) Describe(ctx context.Context, image []byte, ocrText string) (string, error) {
	user := chatMessage{Role: "user", Content: llm.DescribePrompt(ocrText)}
	if d.vision && len(image) > 0 {
		user.Images = []string{base64.StdEncoding.EncodeToString(image)}
	}

	reqBody := chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemPrompt},
			user,
		},
		Stream: false,
		Options: &options{
			NumPredict:  1000,
			Temperature: 0.3,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", embedding.TransportError("ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", embedding.StatusError("ollama", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

// ModelName returns the name of the chat model being used.
func (d *Describer) ModelName() string {
	return d.model
}
