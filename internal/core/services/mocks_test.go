package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockExtractor implements driven.Extractor.
type mockExtractor struct {
	format domain.Format
	text   string
	err    error
}

func (m *mockExtractor) Format() domain.Format { return m.format }

func (m *mockExtractor) Extract(_ context.Context, content []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(content), nil
}

// mockOCR implements driven.OCR.
type mockOCR struct {
	text string
	err  error
}

func (m *mockOCR) Recognise(_ context.Context, _ []byte) (string, error) {
	return m.text, m.err
}

// mockDescriber implements driven.ImageDescriber.
type mockDescriber struct {
	text    string
	err     error
	gotText string
}

func (m *mockDescriber) Describe(_ context.Context, _ []byte, ocrText string) (string, error) {
	m.gotText = ocrText
	return m.text, m.err
}

// mockEmbeddingService implements driven.EmbeddingService. Each call pops
// the next scripted error; once the script is exhausted calls succeed.
// vectors maps a text to its vector; unknown texts get {1, 0}.
type mockEmbeddingService struct {
	mu      sync.Mutex
	script  []error
	vectors map[string][]float32
	block   bool
	calls   int
	batches [][]string
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.batches = append(m.batches, append([]string(nil), texts...))
	var err error
	if len(m.script) > 0 {
		err, m.script = m.script[0], m.script[1:]
	}
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 2 }
func (m *mockEmbeddingService) ModelName() string            { return "mock" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// toggleEmbeddingService wraps a real service and fails while failing is set.
type toggleEmbeddingService struct {
	driven.EmbeddingService

	mu      sync.Mutex
	failing bool
}

func (t *toggleEmbeddingService) setFailing(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failing = v
}

func (t *toggleEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	t.mu.Lock()
	failing := t.failing
	t.mu.Unlock()
	if failing {
		return nil, errors.New("model unloaded")
	}
	return t.EmbeddingService.EmbedBatch(ctx, texts)
}

// mockVectorStore implements driven.VectorStore with injectable errors.
type mockVectorStore struct {
	driven.VectorStore

	queryErr  error
	upsertErr error
	gotK      int
	results   []domain.ScoredRecord
}

func (m *mockVectorStore) Upsert(ctx context.Context, documentID string, records []domain.EmbeddingRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	return m.VectorStore.Upsert(ctx, documentID, records)
}

func (m *mockVectorStore) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredRecord, error) {
	m.gotK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.results != nil {
		if k < len(m.results) {
			return m.results[:k], nil
		}
		return m.results, nil
	}
	return m.VectorStore.Query(ctx, vector, k)
}

// noSleep records backoff waits without waiting.
type noSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (n *noSleep) sleep(ctx context.Context, d time.Duration) error {
	n.mu.Lock()
	n.waits = append(n.waits, d)
	n.mu.Unlock()
	return ctx.Err()
}

// gateEmbeddingService wraps a real service. While held, each call
// announces itself on entered and waits for release to be closed.
type gateEmbeddingService struct {
	driven.EmbeddingService

	mu      sync.Mutex
	held    bool
	entered chan struct{}
	release chan struct{}
}

func newGateEmbeddingService(svc driven.EmbeddingService) *gateEmbeddingService {
	return &gateEmbeddingService{
		EmbeddingService: svc,
		entered:          make(chan struct{}, 1),
		release:          make(chan struct{}),
	}
}

func (g *gateEmbeddingService) hold() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = true
}

func (g *gateEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	g.mu.Lock()
	held := g.held
	g.mu.Unlock()
	if held {
		g.entered <- struct{}{}
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.EmbeddingService.EmbedBatch(ctx, texts)
}
