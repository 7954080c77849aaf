package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ShutdownTimeout bounds how long in-flight HTTP sessions may drain.
const ShutdownTimeout = 5 * time.Second

// instructions is sent to clients during initialisation.
const instructions = `Document Manager indexes uploaded files as embedded text chunks.
Call search to find passages by meaning; each result names its document_id and chunk_index.
Call get_chunks with a document_id to read that document in order, or read the resource
docmgr://documents/{documentId}/text. vector_stats reports how much is indexed.`

// Server exposes the search and collection ports to MCP clients.
type Server struct {
	ports *Ports
	sdk   *mcp.Server
}

// NewServer registers the docmgr tools and resources over ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "docmgr",
		Title:   "Document Manager",
		Version: Version,
	}
	s := &Server{
		ports: ports,
		sdk:   mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Serve answers MCP requests until ctx is done. An empty addr serves one
// client over stdin and stdout; otherwise the streamable HTTP transport
// listens on addr.
func (s *Server) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		logger.Debug("MCP server on stdio")
		return s.sdk.Run(ctx, &mcp.StdioTransport{})
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves the streamable HTTP transport on ln and closes it
// when ctx is done.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("MCP server listening on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP sessions still open after %s, closing: %v", ShutdownTimeout, err)
			return httpServer.Close()
		}
		return nil
	})
	return g.Wait()
}

// Handler returns the streamable HTTP handler. Every session shares the
// same tools and ports.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.sdk
	}, nil)
}

// Tools lists the tools a client sees, by opening an in-memory session.
func (s *Server) Tools(ctx context.Context) ([]*mcp.Tool, error) {
	serverSide, clientSide := mcp.NewInMemoryTransports()
	ss, err := s.sdk.Connect(ctx, serverSide, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting server session: %w", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "docmgr-introspect", Version: Version}, nil)
	cs, err := client.Connect(ctx, clientSide, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting client session: %w", err)
	}
	defer cs.Close()

	res, err := cs.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing tools: %w", err)
	}
	return res.Tools, nil
}
