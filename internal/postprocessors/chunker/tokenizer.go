package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Tokenizer names accepted by NewTokenizer.
const (
	TokenizerWord    = "word"
	DefaultEncoding  = "cl100k_base"
	DefaultTokenizer = DefaultEncoding
)

// Token is a byte range [Start, End) in the source text.
type Token struct {
	Start int
	End   int
}

// Tokenizer splits text into tokens with byte offsets.
// The same tokenizer measures chunk budgets and overlaps.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// WordTokenizer treats every run of non-whitespace as one token.
// Tokenizing any span that starts and ends on token boundaries yields
// exactly the tokens of that span, which keeps overlaps exact.
type WordTokenizer struct{}

var wordPattern = regexp.MustCompile(`\S+`)

// Tokenize returns the word tokens of text.
func (WordTokenizer) Tokenize(text string) []Token {
	locs := wordPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, len(locs))
	for i, loc := range locs {
		tokens[i] = Token{Start: loc[0], End: loc[1]}
	}
	return tokens
}

// BPETokenizer counts tokens the way OpenAI models do. Ranks are loaded
// from the offline loader, so no network access is needed.
type BPETokenizer struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

var (
	encodingsMu sync.Mutex
	encodings   = map[string]*tiktoken.Tiktoken{}
)

// NewBPETokenizer returns a tokenizer for a tiktoken encoding such as
// cl100k_base. Encodings are parsed once per process.
func NewBPETokenizer(encoding string) (*BPETokenizer, error) {
	encodingsMu.Lock()
	defer encodingsMu.Unlock()

	enc, ok := encodings[encoding]
	if !ok {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
		var err error
		enc, err = tiktoken.GetEncoding(encoding)
		if err != nil {
			return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
		}
		encodings[encoding] = enc
	}
	return &BPETokenizer{encoding: encoding, enc: enc}, nil
}

// Encoding returns the tiktoken encoding name.
func (t *BPETokenizer) Encoding() string {
	return t.encoding
}

// Tokenize encodes text and maps each token id back to its byte range.
// A token that ends inside a multi-byte character is merged with its
// successor so every range is valid UTF-8. Special-token text is encoded
// as ordinary text.
func (t *BPETokenizer) Tokenize(text string) []Token {
	if !utf8.ValidString(text) {
		return WordTokenizer{}.Tokenize(text)
	}

	ids := t.enc.EncodeOrdinary(text)
	tokens := make([]Token, 0, len(ids))
	start, end := 0, 0
	for _, id := range ids {
		end += len(t.enc.Decode([]int{id}))
		if end > len(text) {
			end = len(text)
		}
		if end < len(text) && !utf8.RuneStart(text[end]) {
			continue
		}
		if end > start {
			tokens = append(tokens, Token{Start: start, End: end})
			start = end
		}
	}
	if start < len(text) {
		tokens = append(tokens, Token{Start: start, End: len(text)})
	}
	return tokens
}

// NewTokenizer resolves a tokenizer by name: "word" or a tiktoken encoding.
// An empty name selects DefaultTokenizer.
func NewTokenizer(name string) (Tokenizer, error) {
	switch name {
	case TokenizerWord:
		return WordTokenizer{}, nil
	case "":
		name = DefaultTokenizer
	}
	return NewBPETokenizer(name)
}

// CountTokens returns the number of tokens t finds in text.
func CountTokens(t Tokenizer, text string) int {
	return len(t.Tokenize(text))
}

// closers may trail a sentence terminator, as in `"Stop."` or `(see above).`.
const closers = `"')]}’”`

// endsSentence reports whether text closes a sentence.
func endsSentence(word string) bool {
	word = strings.TrimRight(word, closers)
	if word == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(word)
	switch r {
	case '.', '!', '?', '…', '。', '！', '？':
		return true
	}
	return false
}

// paragraphBreak reports whether the gap between two tokens holds a blank line.
func paragraphBreak(gap string) bool {
	return strings.Count(gap, "\n") >= 2
}

// leadingSpace returns the length of the whitespace prefix of s.
func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
}
