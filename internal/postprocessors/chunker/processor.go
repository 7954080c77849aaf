// Package chunker provides a token-bounded text chunker with overlap.
//
// Text is broken into units along the coarsest boundary that fits:
// paragraphs, then sentences, then single tokens. Units are packed greedily
// into chunks of at most MaxTokens tokens. Each chunk after the first starts
// with the last Overlap tokens of its predecessor. Tokens are counted with
// the cl100k_base BPE encoding unless another tokenizer is supplied.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// DefaultMaxTokens is the default token budget per chunk.
const DefaultMaxTokens = 500

// DefaultOverlap is the default number of tokens shared by adjacent chunks.
const DefaultOverlap = 50

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits text into overlapping, token-bounded chunks.
type Processor struct {
	maxTokens int
	overlap   int
	tokenizer Tokenizer
}

// Option configures the chunker.
type Option func(*Processor)

// WithMaxTokens sets the token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlap sets the number of tokens shared by adjacent chunks.
// It must stay below the token budget.
func WithOverlap(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlap = n
		}
	}
}

// WithTokenizer replaces the default BPE tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(p *Processor) {
		if t != nil {
			p.tokenizer = t
		}
	}
}

// New creates a new chunker with the given options. An overlap that
// leaves no room for new content in a chunk is rejected.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.maxTokens {
		return nil, fmt.Errorf("overlap of %d tokens must be below the %d token budget", p.overlap, p.maxTokens)
	}
	if p.tokenizer == nil {
		t, err := NewBPETokenizer(DefaultEncoding)
		if err != nil {
			return nil, err
		}
		p.tokenizer = t
	}

	return p, nil
}

// Name returns the chunker name.
func (p *Processor) Name() string {
	return "token"
}

// MaxTokens returns the token budget per chunk.
func (p *Processor) MaxTokens() int {
	return p.maxTokens
}

// Overlap returns the number of shared tokens between adjacent chunks.
func (p *Processor) Overlap() int {
	return p.overlap
}

// span is a half-open token index range.
type span struct {
	start, end int
}

// Chunk splits text into ordered chunks. Chunk text is the source
// substring from its first to its last token, trimmed of surrounding
// whitespace, so paragraph breaks inside a chunk survive.
func (p *Processor) Chunk(text string) []driven.TextChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	tokens := p.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	var spans []span
	if len(tokens) <= p.maxTokens {
		spans = []span{{0, len(tokens)}}
	} else {
		spans = p.pack(p.units(text, tokens))
	}

	chunks := make([]driven.TextChunk, len(spans))
	for i, s := range spans {
		chunks[i] = driven.TextChunk{
			Text:       strings.TrimSpace(text[tokens[s.start].Start:tokens[s.end-1].End]),
			TokenCount: s.end - s.start,
		}
	}
	return chunks
}

// pack accumulates units greedily. A chunk closes when the next unit would
// push it past maxTokens; its successor is seeded with the trailing overlap.
func (p *Processor) pack(units []span) []span {
	var chunks []span
	cur := span{0, 0}

	for _, u := range units {
		if u.end-cur.start <= p.maxTokens {
			cur.end = u.end
			continue
		}
		chunks = append(chunks, cur)
		cur = span{cur.end - p.overlap, u.end}
	}
	return append(chunks, cur)
}

// units returns contiguous token ranges no larger than the room a seeded
// chunk has left, splitting paragraphs into sentences and sentences into
// single tokens only where needed.
func (p *Processor) units(text string, tokens []Token) []span {
	limit := p.maxTokens - p.overlap
	var out []span

	for _, para := range splitSpans(span{0, len(tokens)}, func(i int) bool {
		_, gap, ok := boundary(text, tokens[i])
		return ok && paragraphBreak(gap)
	}) {
		if para.end-para.start <= limit {
			out = append(out, para)
			continue
		}
		for _, sent := range splitSpans(para, func(i int) bool {
			before, gap, ok := boundary(text, tokens[i])
			return ok && gap != "" && endsSentence(before)
		}) {
			if sent.end-sent.start <= limit {
				out = append(out, sent)
				continue
			}
			for i := sent.start; i < sent.end; i++ {
				out = append(out, span{i, i + 1})
			}
		}
	}
	return out
}

// boundary inspects the position where the visible content of tok begins.
// It returns the text before that position without trailing whitespace,
// and the whitespace gap in between. BPE tokens carry their leading space,
// so the gap may start inside an earlier token. ok is false for a token
// that is all whitespace.
func boundary(text string, tok Token) (before, gap string, ok bool) {
	visible := tok.Start + leadingSpace(text[tok.Start:tok.End])
	if visible == tok.End {
		return "", "", false
	}
	before = strings.TrimRightFunc(text[:visible], unicode.IsSpace)
	return before, text[len(before):visible], true
}

// splitSpans cuts s before every token index i for which boundary(i) holds.
func splitSpans(s span, boundary func(i int) bool) []span {
	var out []span
	start := s.start
	for i := s.start + 1; i < s.end; i++ {
		if boundary(i) {
			out = append(out, span{start, i})
			start = i
		}
	}
	return append(out, span{start, s.end})
}
