// Package eml provides an Extractor for RFC 822 email messages.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/html"
	"github.com/aditya-mahendru/docMgr/internal/normalisers/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxDepth bounds multipart nesting.
const maxDepth = 8

// Extractor handles EML documents.
type Extractor struct {
	html *html.Extractor
}

// New creates a new EML extractor.
func New() *Extractor {
	return &Extractor{html: html.New()}
}

// Format returns the format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatEmail
}

// Extract returns the From, To, Date and Subject headers followed by a
// blank line and the message body. Plain text parts are preferred over
// HTML parts; attachments are skipped.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: parse message: %v", domain.ErrExtractionFailed, err)
	}

	var b strings.Builder
	for _, name := range []string{"From", "To", "Date", "Subject"} {
		if v := decodeHeader(msg.Header.Get(name)); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", name, v)
		}
	}

	body, err := e.body(ctx, msg.Header, msg.Body, 0)
	if err != nil {
		return "", err
	}
	if body = strings.TrimSpace(body); body != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(body)
	}
	return plaintext.Clean(b.String()), nil
}

// header is satisfied by both mail.Header and textproto.MIMEHeader.
type header interface {
	Get(key string) string
}

// body decodes one entity, descending into multipart containers.
func (e *Extractor) body(ctx context.Context, h header, r io.Reader, depth int) (string, error) {
	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		mediaType = domain.MIMEText
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if depth >= maxDepth || params["boundary"] == "" {
			return "", nil
		}
		return e.multipart(ctx, r, params["boundary"], depth+1)
	}

	data, err := io.ReadAll(decodeTransfer(h.Get("Content-Transfer-Encoding"), r))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrExtractionFailed, err)
	}

	switch mediaType {
	case domain.MIMEHTML:
		return e.html.Extract(ctx, data)
	case domain.MIMEText:
		return string(data), nil
	default:
		return "", nil
	}
}

func (e *Extractor) multipart(ctx context.Context, r io.Reader, boundary string, depth int) (string, error) {
	mr := multipart.NewReader(r, boundary)
	var text, htmlParts []string

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Truncated trailer; keep what was read.
			break
		}

		if part.FileName() != "" {
			part.Close()
			continue
		}

		mediaType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		out, err := e.body(ctx, part.Header, part, depth)
		part.Close()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			continue
		}
		if mediaType == domain.MIMEHTML {
			htmlParts = append(htmlParts, out)
		} else {
			text = append(text, out)
		}
	}

	if len(text) > 0 {
		return strings.Join(text, "\n\n"), nil
	}
	return strings.Join(htmlParts, "\n\n"), nil
}

func decodeTransfer(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

// decodeHeader decodes RFC 2047 encoded words, returning the raw value
// when decoding fails.
func decodeHeader(v string) string {
	if v == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(v)
	if err != nil {
		return v
	}
	return decoded
}
