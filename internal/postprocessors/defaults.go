package postprocessors

import (
	"fmt"

	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in chunkers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("token", buildTokenChunker)
}

// NewDefaultRegistry returns a registry with the built-in chunkers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// buildTokenChunker creates a token chunker from generic config.
// Supported config keys:
//   - max_tokens (int): Tokens per chunk (default: 500)
//   - overlap_tokens (int): Tokens shared by adjacent chunks (default: 50)
//   - tokenizer (string): "word" or a tiktoken encoding (default: cl100k_base)
func buildTokenChunker(cfg map[string]any) (driven.Chunker, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size, ok := getIntFromConfig(cfg, "max_tokens"); ok {
			opts = append(opts, chunker.WithMaxTokens(size))
		}
		if overlap, ok := getIntFromConfig(cfg, "overlap_tokens"); ok {
			opts = append(opts, chunker.WithOverlap(overlap))
		}
		if name, ok := cfg["tokenizer"].(string); ok {
			tokenizer, err := chunker.NewTokenizer(name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, chunker.WithTokenizer(tokenizer))
		}
	}

	p, err := chunker.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("token chunker: %w", err)
	}
	return p, nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/YAML parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
