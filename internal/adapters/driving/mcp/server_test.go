package mcp

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

func statsServer(t *testing.T) *Server {
	t.Helper()
	return newTestServer(t, &mockSearchService{}, &mockCollectionService{
		stats: &domain.VectorStats{RecordCount: 7, DocumentCount: 2, Dimensions: 384, Collection: "documents"},
	})
}

// connect opens a client session against transport.
func connect(t *testing.T, transport mcp.Transport) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(context.Background(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callStats(t *testing.T, cs *mcp.ClientSession) string {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "vector_stats"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	t.Run("nil search service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Collection: &mockCollectionService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSearchService)
	})

	t.Run("nil collection service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCollectionService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:     &mockSearchService{},
			Collection: &mockCollectionService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingSearchService)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Search:     &mockSearchService{},
			Collection: &mockCollectionService{},
			Document:   &mockDocumentService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestPorts_SearchDefaults(t *testing.T) {
	ports := &Ports{}
	assert.Equal(t, 5, ports.searchDefaults().NResults)
	assert.Equal(t, 0.5, ports.searchDefaults().Threshold)

	ports.Defaults.NResults = 8
	assert.Equal(t, 8, ports.searchDefaults().NResults)
	assert.Equal(t, 0.5, ports.searchDefaults().Threshold)
}

func TestServer_Initialize(t *testing.T) {
	server := statsServer(t)
	serverSide, clientSide := mcp.NewInMemoryTransports()
	ss, err := server.sdk.Connect(context.Background(), serverSide, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	cs := connect(t, clientSide)

	result := cs.InitializeResult()
	require.NotNil(t, result)
	assert.Equal(t, "docmgr", result.ServerInfo.Name)
	assert.Equal(t, Version, result.ServerInfo.Version)
	assert.Contains(t, result.Instructions, "get_chunks")
	assert.Contains(t, result.Instructions, "docmgr://documents/{documentId}/text")

	assert.Contains(t, callStats(t, cs), `"record_count":7`)
}

func TestServer_Tools(t *testing.T) {
	tools, err := statsServer(t).Tools(context.Background())
	require.NoError(t, err)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search", "get_chunks", "vector_stats"}, names)
}

func TestServer_Handler(t *testing.T) {
	ts := httptest.NewServer(statsServer(t).Handler())
	t.Cleanup(ts.Close)

	cs := connect(t, &mcp.StreamableClientTransport{Endpoint: ts.URL})

	assert.Contains(t, callStats(t, cs), `"distinct_document_count":2`)
}

func TestServer_ServeListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- statsServer(t).ServeListener(ctx, ln) }()

	cs := connect(t, &mcp.StreamableClientTransport{Endpoint: "http://" + ln.Addr().String()})
	assert.Contains(t, callStats(t, cs), `"dimensions":384`)
	require.NoError(t, cs.Close())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + 2*time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServer_ServeBadAddr(t *testing.T) {
	err := statsServer(t).Serve(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on not-an-address")
}
