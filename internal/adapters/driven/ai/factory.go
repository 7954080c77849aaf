// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/aditya-mahendru/docMgr/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/aditya-mahendru/docMgr/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/aditya-mahendru/docMgr/internal/adapters/driven/llm/ollama"
	openaillm "github.com/aditya-mahendru/docMgr/internal/adapters/driven/llm/openai"
	"github.com/aditya-mahendru/docMgr/internal/config"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	Describer        driven.ImageDescriber // nil when descriptions are off or unavailable.
	Warnings         []string              // Non-fatal issues found while starting.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	if r.EmbeddingService != nil {
		return r.EmbeddingService.Close()
	}
	return nil
}

// Init creates the embedding service and, if enabled, the image describer.
// A misconfigured embedding provider is an error. An unreachable one is a
// warning, since calls are retried when documents are processed. A
// describer that cannot be created is a warning and images fall back to
// OCR text.
func Init(cfg *config.Config) (*InitResult, error) {
	svc, err := CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	result := &InitResult{EmbeddingService: svc}
	if err := ping(svc); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("embedding service %s unreachable: %v", svc.ModelName(), err))
	}

	if cfg.Vision.Describe {
		describer, err := CreateDescriber(cfg.Vision)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("image descriptions disabled: %v", err))
		} else {
			result.Describer = describer
		}
	}

	return result, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(cfg config.EmbeddingConfig) error {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	return ping(svc)
}

func ping(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service named by cfg.Provider.
// An empty provider selects the local hashing embedder.
func CreateEmbeddingService(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderLocal, "":
		return local.NewEmbeddingService(cfg.Dimensions), nil

	case config.ProviderOllama:
		return createOllamaEmbedding(cfg), nil

	case config.ProviderOpenAI:
		return createOpenAIEmbedding(cfg)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateDescriber creates the image describer named by cfg.Provider.
// Groq is reached through its OpenAI-compatible API.
func CreateDescriber(cfg config.VisionConfig) (driven.ImageDescriber, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openaillm.GroqBaseURL
		}
		return createOpenAIDescriber(cfg, baseURL)

	case config.ProviderOpenAI:
		return createOpenAIDescriber(cfg, cfg.BaseURL)

	case config.ProviderOllama:
		return ollamallm.NewDescriber(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Vision:  cfg.Multimodal,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(cfg config.EmbeddingConfig) driven.EmbeddingService {
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout.Std(),
		Dimensions: dimensions,
		KeepAlive:  cfg.KeepAlive,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.Timeout.Std(),
		Dimensions: cfg.Dimensions,
	})
}

// createOpenAIDescriber creates a describer for an OpenAI-compatible API.
func createOpenAIDescriber(cfg config.VisionConfig, baseURL string) (driven.ImageDescriber, error) {
	return openaillm.NewDescriber(openaillm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
		Model:   cfg.Model,
		Vision:  cfg.Multimodal,
	})
}
