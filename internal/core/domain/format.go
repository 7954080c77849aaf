package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format identifies which extractor handles a document.
type Format int

const (
	// FormatUnknown means no extractor is registered for the content type.
	FormatUnknown Format = iota

	// FormatText is plain text.
	FormatText

	// FormatMarkdown is Markdown source, rendered to text before chunking.
	FormatMarkdown

	// FormatHTML is an HTML page.
	FormatHTML

	// FormatPDF is a PDF document.
	FormatPDF

	// FormatDOCX is a Word document.
	FormatDOCX

	// FormatXLSX is an Excel workbook.
	FormatXLSX

	// FormatImage is a raster image (OCR plus description).
	FormatImage

	// FormatEmail is an RFC 822 message.
	FormatEmail
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatXLSX:
		return "xlsx"
	case FormatImage:
		return "image"
	case FormatEmail:
		return "email"
	default:
		return "unknown"
	}
}

// Supported MIME types.
const (
	MIMEText     = "text/plain"
	MIMEMarkdown = "text/markdown"
	MIMEHTML     = "text/html"
	MIMEPDF      = "application/pdf"
	MIMEDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPNG      = "image/png"
	MIMEJPEG     = "image/jpeg"
	MIMEGIF      = "image/gif"
	MIMEBMP      = "image/bmp"
	MIMETIFF     = "image/tiff"
	MIMEEmail    = "message/rfc822"
)

var formatsByMIME = map[string]Format{
	MIMEText:     FormatText,
	MIMEMarkdown: FormatMarkdown,
	MIMEHTML:     FormatHTML,
	MIMEPDF:      FormatPDF,
	MIMEDOCX:     FormatDOCX,
	MIMEXLSX:     FormatXLSX,
	MIMEPNG:      FormatImage,
	MIMEJPEG:     FormatImage,
	MIMEGIF:      FormatImage,
	MIMEBMP:      FormatImage,
	MIMETIFF:     FormatImage,
	MIMEEmail:    FormatEmail,

	// Non-canonical aliases seen in the wild.
	"text/x-markdown": FormatMarkdown,
	"image/jpg":       FormatImage,
}

var mimeByExtension = map[string]string{
	".txt":  MIMEText,
	".md":   MIMEMarkdown,
	".html": MIMEHTML,
	".htm":  MIMEHTML,
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
	".xlsx": MIMEXLSX,
	".png":  MIMEPNG,
	".jpg":  MIMEJPEG,
	".jpeg": MIMEJPEG,
	".gif":  MIMEGIF,
	".bmp":  MIMEBMP,
	".tiff": MIMETIFF,
	".tif":  MIMETIFF,
	".eml":  MIMEEmail,
}

// FormatOf returns the extraction format for a content type.
// Parameters such as charset are ignored.
func FormatOf(contentType string) Format {
	return formatsByMIME[baseMIME(contentType)]
}

// ResolveContentType picks the content type for an upload.
// A known filename extension wins over the declared type, since browsers
// and HTTP clients frequently send application/octet-stream.
func ResolveContentType(filename, declared string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := mimeByExtension[ext]; ok {
		return ct
	}
	return baseMIME(declared)
}

// SupportedContentTypes lists every content type with a registered format.
func SupportedContentTypes() []string {
	types := make([]string, 0, len(formatsByMIME))
	for ct := range formatsByMIME {
		types = append(types, ct)
	}
	return types
}

func baseMIME(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(contentType)
}
