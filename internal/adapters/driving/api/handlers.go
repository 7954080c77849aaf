package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// DocumentResponse is a registered document with the outcome of its ingestion.
type DocumentResponse struct {
	domain.DocumentInfo

	Ingestion *domain.IngestReport `json:"ingestion,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// BulkUploadResponse is the response of the upload-multiple endpoint.
type BulkUploadResponse struct {
	Message       string             `json:"message"`
	UploadedCount int                `json:"uploaded_count"`
	Documents     []DocumentResponse `json:"documents"`
	Errors        []string           `json:"errors"`
}

// SearchRequest is the body of the search endpoint.
type SearchRequest struct {
	Query     string   `json:"query"`
	NResults  int      `json:"n_results,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Document Manager API",
		"version": Version,
		"endpoints": echo.Map{
			"upload_single":   "POST /api/documents/upload",
			"upload_multiple": "POST /api/documents/upload-multiple",
			"list":            "GET /api/documents",
			"get":             "GET /api/documents/{id}",
			"delete":          "DELETE /api/documents/{id}",
			"search":          "POST /api/search",
			"chunks":          "GET /api/documents/{id}/chunks",
			"vector_stats":    "GET /api/vector/stats",
			"reprocess":       "POST /api/documents/{id}/reprocess",
		},
	})
}

// handleHealth reports the collection statistics alongside the status, so a
// failing vector store shows up as 503.
func (s *Server) handleHealth(c echo.Context) error {
	stats, err := s.ports.Collection.Stats(c.Request().Context())
	if err != nil {
		logger.Error("health check: %v", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "unavailable",
			"error":  domain.ErrVectorStoreUnavailable.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":       "ok",
		"vector_store": stats,
	})
}

func (s *Server) handleUpload(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file provided"})
	}
	upload, err := readUpload(header, c.FormValue("description"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	outcome, err := s.ports.Document.Upload(c.Request().Context(), upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, documentResponse(outcome))
}

func (s *Server) handleUploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no files provided"})
	}
	headers := form.File["files"]
	description := c.FormValue("description")

	uploads := make([]driving.Upload, 0, len(headers))
	var errs []string
	for _, header := range headers {
		upload, err := readUpload(header, description)
		if err != nil {
			errs = append(errs, fmt.Sprintf("File %s: %v", header.Filename, err))
			continue
		}
		uploads = append(uploads, upload)
	}

	outcomes, err := s.ports.Document.UploadBatch(c.Request().Context(), uploads)
	if err != nil {
		return respondError(c, err)
	}

	resp := BulkUploadResponse{
		Documents: make([]DocumentResponse, 0, len(outcomes)),
		Errors:    errs,
	}
	for i := range outcomes {
		if outcomes[i].Document.ID == "" {
			resp.Errors = append(resp.Errors, fmt.Sprintf("File %s: %v", outcomes[i].Document.Filename, outcomes[i].Err))
			continue
		}
		resp.Documents = append(resp.Documents, documentResponse(&outcomes[i]))
		if outcomes[i].Err == nil {
			resp.UploadedCount++
		}
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}
	resp.Message = fmt.Sprintf("Upload completed. %d files uploaded successfully.", resp.UploadedCount)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListDocuments(c echo.Context) error {
	docs, err := s.ports.Document.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if docs == nil {
		docs = []domain.DocumentInfo{}
	}
	return c.JSON(http.StatusOK, docs)
}

func (s *Server) handleGetDocument(c echo.Context) error {
	doc, err := s.ports.Document.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(c echo.Context) error {
	id := c.Param("id")
	if err := s.ports.Document.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Document deleted successfully", "document_id": id})
}

func (s *Server) handleGetChunks(c echo.Context) error {
	chunks, err := s.ports.Collection.Chunks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	return c.JSON(http.StatusOK, chunks)
}

func (s *Server) handleReprocess(c echo.Context) error {
	report, err := s.ports.Ingestion.Reprocess(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}

	opts := s.ports.searchDefaults()
	if req.NResults != 0 {
		opts.NResults = req.NResults
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}

	results, err := s.ports.Search.Search(c.Request().Context(), req.Query, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleVectorStats(c echo.Context) error {
	stats, err := s.ports.Collection.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func readUpload(header *multipart.FileHeader, description string) (driving.Upload, error) {
	f, err := header.Open()
	if err != nil {
		return driving.Upload{}, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return driving.Upload{}, fmt.Errorf("reading upload: %w", err)
	}
	return driving.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Description: description,
		Content:     content,
	}, nil
}

func documentResponse(outcome *driving.UploadOutcome) DocumentResponse {
	resp := DocumentResponse{
		DocumentInfo: outcome.Document,
		Ingestion:    outcome.Report,
	}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	return resp
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrVectorStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
