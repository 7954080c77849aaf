package html

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format this extractor handles.
func (e *Extractor) Format() domain.Format {
	return domain.FormatHTML
}

// Extract returns the visible text of the page.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", domain.ErrExtractionFailed, err)
	}
	return render(doc.Selection), nil
}

// render converts a parsed document to plain text.
func render(sel *goquery.Selection) string {
	sel.Find("script, style, noscript, template, svg, iframe, head").Remove()

	root := sel.Find("body")
	if root.Length() == 0 {
		root = sel
	}

	var b strings.Builder
	walk(root, &b)
	return tidy(b.String())
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"ul": true,
}

var whitespace = regexp.MustCompile(`\s+`)

func walk(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			b.WriteString(whitespace.ReplaceAllString(s.Text(), " "))
		case name == "br":
			b.WriteString("\n")
		case name == "tr":
			b.WriteString(row(s))
			b.WriteString("\n")
		case blockTags[name]:
			b.WriteString("\n\n")
			walk(s, b)
			b.WriteString("\n\n")
		default:
			walk(s, b)
		}
	})
}

// row joins the cells of a table row with " | ".
func row(tr *goquery.Selection) string {
	var cells []string
	tr.Children().Each(func(_ int, cell *goquery.Selection) {
		var b strings.Builder
		walk(cell, &b)
		cells = append(cells, strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " ")))
	})
	return strings.Join(cells, " | ")
}

var multiNewlines = regexp.MustCompile(`\n{3,}`)

// tidy trims every line and collapses runs of blank lines.
func tidy(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
