package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/logger"
	"github.com/aditya-mahendru/docMgr/internal/similarity"
)

// Embedding gateway defaults.
const (
	DefaultEmbeddingBatchSize = 32
	DefaultEmbeddingTimeout   = 30 * time.Second
	DefaultMaxAttempts        = 3
	DefaultInitialBackoff     = 200 * time.Millisecond
	DefaultMaxBackoff         = 5 * time.Second
	DefaultBackoffMultiplier  = 2.0
)

// RetryPolicy bounds retries of a failed embedding call.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls per batch, including the first.
	MaxAttempts int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between retries.
	MaxBackoff time.Duration

	// Multiplier grows the wait after each retry.
	Multiplier float64
}

// DefaultRetryPolicy returns three attempts with exponential backoff from 200ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		Multiplier:     DefaultBackoffMultiplier,
	}
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.InitialBackoff <= 0 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialBackoff) * math.Pow(mult, float64(attempt-1))
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// GatewayConfig configures an EmbeddingGateway. Zero fields take defaults.
type GatewayConfig struct {
	// BatchSize is the number of texts sent per backend call.
	BatchSize int

	// Timeout bounds each backend call.
	Timeout time.Duration

	// Retry is the retry policy for transient failures.
	Retry RetryPolicy

	// RequestsPerSecond limits backend calls. Zero means unlimited.
	RequestsPerSecond float64
}

// EmbeddingGateway wraps an EmbeddingService with batching, bounded
// retry and per-call timeouts. Retries only follow transient failures.
// A batch either embeds completely or fails with
// domain.ErrEmbeddingUnavailable.
type EmbeddingGateway struct {
	service driven.EmbeddingService
	cfg     GatewayConfig
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewEmbeddingGateway creates a gateway over service.
func NewEmbeddingGateway(service driven.EmbeddingService, cfg GatewayConfig) *EmbeddingGateway {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultEmbeddingBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEmbeddingTimeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = DefaultMaxAttempts
	}

	g := &EmbeddingGateway{
		service: service,
		cfg:     cfg,
		sleep:   sleepContext,
	}
	if cfg.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return g
}

// ModelName returns the backend model name.
func (g *EmbeddingGateway) ModelName() string {
	return g.service.ModelName()
}

// Dimensions returns the backend vector size.
func (g *EmbeddingGateway) Dimensions() int {
	return g.service.Dimensions()
}

// Embed embeds a single text.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per text, in order. An empty or blank text
// fails with *domain.InputError before any backend call, and so does a text
// the backend maps to the zero vector, since it cannot be scored.
func (g *EmbeddingGateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, &domain.InputError{Index: i, Reason: "empty text"}
		}
	}

	vectors := make([][]float32, 0, len(texts))
	dims := 0
	for start := 0; start < len(texts); start += g.cfg.BatchSize {
		end := min(start+g.cfg.BatchSize, len(texts))
		batch, err := g.embedWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		for i, vec := range batch {
			if len(vec) == 0 {
				return nil, fmt.Errorf("%w: empty vector for input %d", domain.ErrEmbeddingUnavailable, start+i)
			}
			if similarity.IsZero(vec) {
				return nil, &domain.InputError{Index: start + i, Reason: "text has no embeddable content"}
			}
			if dims == 0 {
				dims = len(vec)
			} else if len(vec) != dims {
				return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d",
					domain.ErrEmbeddingUnavailable, start+i, len(vec), dims)
			}
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// embedWithRetry runs one backend call with the retry policy.
func (g *EmbeddingGateway) embedWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	policy := g.cfg.Retry
	for attempt := 1; ; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
			}
		}

		vectors, err := g.call(ctx, batch)
		if err == nil {
			return vectors, nil
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, ctx.Err())
		}
		if !domain.IsTransient(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		if attempt >= policy.MaxAttempts {
			return nil, fmt.Errorf("%w: giving up after %d attempts: %v",
				domain.ErrEmbeddingUnavailable, attempt, err)
		}

		wait := policy.Backoff(attempt)
		logger.Warn("Embedding attempt %d/%d failed, retrying in %s: %v", attempt, policy.MaxAttempts, wait, err)
		if err := g.sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
	}
}

// call makes one backend request under the per-call timeout. A timeout
// of the call alone is reported as transient.
func (g *EmbeddingGateway) call(ctx context.Context, batch []string) ([][]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	vectors, err := g.service.EmbedBatch(callCtx, batch)
	if err != nil {
		if ctx.Err() == nil && (errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, fmt.Errorf("embedding call timed out after %s: %w", g.cfg.Timeout, domain.ErrTransient)
		}
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("backend returned %d vectors for %d texts", len(vectors), len(batch))
	}
	return vectors, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
