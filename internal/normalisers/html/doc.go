// Package html provides an Extractor for HTML documents.
// It extracts readable text content from HTML, dropping scripts and
// styles and keeping block structure as paragraph breaks.
package html
