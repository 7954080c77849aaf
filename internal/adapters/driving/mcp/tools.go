package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the natural language query"`
	NResults  int      `json:"n_results,omitempty" jsonschema:"number of results to return from 1 to 20 (default 5)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"minimum similarity score between 0 and 1 (default 0.5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Filename   string  `json:"filename,omitempty"`
	Score      float64 `json:"similarity_score"`
	Text       string  `json:"text"`
}

// ChunksInput is the input schema for the get_chunks tool.
type ChunksInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document whose chunks to return"`
}

// ChunksOutput is the output schema for the get_chunks tool.
type ChunksOutput struct {
	DocumentID string         `json:"document_id"`
	Chunks     []domain.Chunk `json:"chunks"`
	Count      int            `json:"count"`
}

// StatsInput is the empty input of the vector_stats tool.
type StatsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.sdk, &mcp.Tool{
		Name:        "search",
		Description: "Semantic search over the chunks of all ingested documents",
	}, s.handleSearch)

	mcp.AddTool(s.sdk, &mcp.Tool{
		Name:        "get_chunks",
		Description: "Return the chunks of one document in order",
	}, s.handleGetChunks)

	mcp.AddTool(s.sdk, &mcp.Tool{
		Name:        "vector_stats",
		Description: "Report record, document and dimension counts of the vector store",
	}, s.handleVectorStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := s.ports.searchDefaults()
	if input.NResults != 0 {
		opts.NResults = input.NResults
	}
	if input.Threshold != nil {
		opts.Threshold = *input.Threshold
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].DocumentID,
			ChunkIndex: results[i].ChunkIndex,
			Filename:   results[i].Metadata.Filename,
			Score:      results[i].Score,
			Text:       results[i].Text,
		}
	}

	return nil, output, nil
}

// handleGetChunks handles the get_chunks tool invocation.
func (s *Server) handleGetChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChunksInput,
) (*mcp.CallToolResult, ChunksOutput, error) {
	chunks, err := s.ports.Collection.Chunks(ctx, input.DocumentID)
	if err != nil {
		return nil, ChunksOutput{}, err
	}
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	return nil, ChunksOutput{
		DocumentID: input.DocumentID,
		Chunks:     chunks,
		Count:      len(chunks),
	}, nil
}

// handleVectorStats handles the vector_stats tool invocation.
func (s *Server) handleVectorStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.VectorStats, error) {
	stats, err := s.ports.Collection.Stats(ctx)
	if err != nil {
		return nil, domain.VectorStats{}, err
	}
	return nil, *stats, nil
}
