// Package llm holds the prompts shared by the chat-model adapters that
// describe image uploads.
package llm

import (
	"fmt"
	"net/http"
	"strings"
)

// SystemPrompt frames the model as a document analyst.
const SystemPrompt = "You are a document analysis expert. " +
	"Provide clear, structured descriptions of documents based on OCR text."

// maxOCRChars bounds the OCR text sent to the model.
const maxOCRChars = 8000

const describeTemplate = `Analyze this OCR text from an image and provide a detailed, structured description.
The image likely contains text, tables, bills, receipts, or other documents.

OCR Text: %s

Please provide:
1. A detailed description of what this document appears to be, including items, amounts, dates and type of payment
2. Key information extracted (dates, amounts, names)
3. Any tables or structured data identified
4. Overall document type and purpose

Format your response as clear, searchable text that can be used for document retrieval.`

// DescribePrompt builds the user prompt for an image whose OCR text is ocrText.
func DescribePrompt(ocrText string) string {
	ocrText = strings.TrimSpace(ocrText)
	if len(ocrText) > maxOCRChars {
		ocrText = ocrText[:maxOCRChars]
	}
	if ocrText == "" {
		ocrText = "(no text recognised)"
	}
	return fmt.Sprintf(describeTemplate, ocrText)
}

// ImageMIME sniffs the MIME type of image bytes for data URLs.
func ImageMIME(image []byte) string {
	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		return "image/png"
	}
	return mime
}
