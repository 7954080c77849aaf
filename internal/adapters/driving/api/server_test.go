package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

type testServer struct {
	server     *Server
	documents  *mockDocumentService
	ingestion  *mockIngestionService
	search     *mockSearchService
	collection *mockCollectionService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		documents: newMockDocumentService(),
		ingestion: &mockIngestionService{},
		search:    &mockSearchService{},
		collection: &mockCollectionService{
			chunks: map[string][]domain.Chunk{},
			stats:  &domain.VectorStats{Collection: "documents"},
		},
	}
	server, err := NewServer(&Ports{
		Document:   ts.documents,
		Ingestion:  ts.ingestion,
		Search:     ts.search,
		Collection: ts.collection,
	})
	require.NoError(t, err)
	ts.server = server
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

type formFile struct {
	field    string
	filename string
	content  string
}

func multipartRequest(t *testing.T, target string, files []formFile, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestNewServer(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"empty ports", &Ports{}, ErrMissingDocumentService},
		{"missing ingestion", &Ports{Document: newMockDocumentService()}, ErrMissingIngestionService},
		{"missing search", &Ports{
			Document:  newMockDocumentService(),
			Ingestion: &mockIngestionService{},
		}, ErrMissingSearchService},
		{"missing collection", &Ports{
			Document:  newMockDocumentService(),
			Ingestion: &mockIngestionService{},
			Search:    &mockSearchService{},
		}, ErrMissingCollectionService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.ports)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, server)
		})
	}
}

func TestServer_HealthAndRoot(t *testing.T) {
	ts := newTestServer(t)

	ts.collection.stats = &domain.VectorStats{
		RecordCount:   12,
		DocumentCount: 3,
		Dimensions:    384,
		Collection:    "documents",
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","vector_store":{
		"record_count":12,"distinct_document_count":3,"dimensions":384,"collection":"documents"}}`,
		rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POST /api/search")
}

func TestServer_HealthUnavailable(t *testing.T) {
	ts := newTestServer(t)
	ts.collection.err = errors.New("disk I/O error at /var/lib/docmgr.db")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "unavailable", body["status"])
	assert.NotContains(t, rec.Body.String(), "/var/lib")
}

func TestServer_Upload(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(multipartRequest(t, "/api/documents/upload",
		[]formFile{{"file", "notes.txt", "hello world"}},
		map[string]string{"description": "meeting notes"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DocumentResponse
	decode(t, rec, &resp)
	assert.Equal(t, "doc-notes.txt", resp.ID)
	assert.Equal(t, "notes.txt", resp.Filename)
	assert.Equal(t, domain.MIMEText, resp.ContentType)
	assert.Equal(t, int64(11), resp.Size)
	assert.Equal(t, "meeting notes", resp.Description)
	require.NotNil(t, resp.Ingestion)
	assert.Equal(t, domain.StateStored, resp.Ingestion.State)
	assert.Empty(t, resp.Error)

	require.Len(t, ts.documents.uploads, 1)
	assert.Equal(t, []byte("hello world"), ts.documents.uploads[0].Content)
}

func TestServer_Upload_IngestionFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.documents.ingestErr = &domain.StageError{
		DocumentID: "doc-a.zip",
		Stage:      domain.StateNormalizing,
		Err:        domain.ErrUnsupportedFormat,
	}

	rec := ts.do(multipartRequest(t, "/api/documents/upload",
		[]formFile{{"file", "a.zip", "PK"}}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DocumentResponse
	decode(t, rec, &resp)
	assert.Equal(t, "doc-a.zip", resp.ID)
	assert.Equal(t, domain.StateFailed, resp.Ingestion.State)
	assert.Contains(t, resp.Error, "unsupported format")
}

func TestServer_Upload_NoFile(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(multipartRequest(t, "/api/documents/upload", nil, map[string]string{"description": "x"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no file provided")
}

func TestServer_UploadMultiple(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(multipartRequest(t, "/api/documents/upload-multiple", []formFile{
		{"files", "a.txt", "alpha"},
		{"files", "b.md", "# beta"},
	}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BulkUploadResponse
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.UploadedCount)
	assert.Len(t, resp.Documents, 2)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "Upload completed. 2 files uploaded successfully.", resp.Message)
	assert.Equal(t, "a.txt", resp.Documents[0].Filename)
	assert.Equal(t, "b.md", resp.Documents[1].Filename)
}

func TestServer_UploadMultiple_Empty(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(multipartRequest(t, "/api/documents/upload-multiple", nil, map[string]string{"x": "y"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Documents(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	ts.documents.documents["doc-1"] = domain.DocumentInfo{ID: "doc-1", Filename: "a.pdf", ContentType: domain.MIMEPDF}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []domain.DocumentInfo
	decode(t, rec, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].Filename)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/documents/doc-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"doc-1"`)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_DeleteDocument(t *testing.T) {
	ts := newTestServer(t)
	ts.documents.documents["doc-1"] = domain.DocumentInfo{ID: "doc-1"}

	rec := ts.do(httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Document deleted successfully")
	assert.Equal(t, []string{"doc-1"}, ts.documents.removed)

	rec = ts.do(httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Chunks(t *testing.T) {
	ts := newTestServer(t)
	ts.collection.chunks["doc-1"] = []domain.Chunk{
		{DocumentID: "doc-1", ChunkIndex: 0, Text: "first", TokenCount: 1},
		{DocumentID: "doc-1", ChunkIndex: 1, Text: "second", TokenCount: 1},
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/documents/doc-1/chunks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var chunks []domain.Chunk
	decode(t, rec, &chunks)
	require.Len(t, chunks, 2)
	assert.Equal(t, "second", chunks[1].Text)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/documents/other/chunks", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_Reprocess(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/documents/doc-1/reprocess", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.IngestReport
	decode(t, rec, &report)
	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, domain.StateNormalizing, report.Trace[0])

	ts.ingestion.err = domain.ErrNotFound
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/documents/missing/reprocess", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Search(t *testing.T) {
	ts := newTestServer(t)
	ts.search.results = []domain.SearchResult{{DocumentID: "doc-1", ChunkIndex: 1, Text: "qubit", Score: 0.91}}

	req := httptest.NewRequest(http.MethodPost, "/api/search",
		strings.NewReader(`{"query":"quantum","n_results":3,"threshold":0}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	var results []domain.SearchResult
	decode(t, rec, &results)
	require.Len(t, results, 1)
	assert.Equal(t, 0.91, results[0].Score)
	assert.Equal(t, "quantum", ts.search.gotQuery)
	assert.Equal(t, domain.SearchOptions{NResults: 3, Threshold: 0}, ts.search.gotOpts)
}

func TestServer_SearchDefaults(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"quantum"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultSearchOptions(), ts.search.gotOpts)
}

func TestServer_SearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid parameter", domain.ErrInvalidParameter, http.StatusBadRequest},
		{"embedding unavailable", &domain.UnavailableError{
			Kind:          domain.ErrEmbeddingUnavailable,
			CorrelationID: "abc",
		}, http.StatusServiceUnavailable},
		{"vector store unavailable", domain.ErrVectorStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.search.err = tt.err

			req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"q"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := ts.do(req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestServer_VectorStats(t *testing.T) {
	ts := newTestServer(t)
	ts.collection.stats = &domain.VectorStats{RecordCount: 4, DocumentCount: 2, Dimensions: 512, Collection: "documents"}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/vector/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"record_count":4,"distinct_document_count":2,"dimensions":512,"collection":"documents"}`,
		rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUnsupportedFormat, http.StatusUnsupportedMediaType},
		{domain.ErrEmptyContent, http.StatusUnprocessableEntity},
		{domain.ErrExtractionFailed, http.StatusUnprocessableEntity},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}
