package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github-search-mcp/internal/tool"
)

// MCPServer serves the dispatcher's tools over the MCP protocol.
type MCPServer struct {
	server     *mcp.Server
	dispatcher *tool.Dispatcher
	logger     *slog.Logger
	tools      []*mcp.Tool // registration order
}

// NewMCP creates an MCPServer exposing every tool known to d, in
// registration order.
func NewMCP(name, version string, d *tool.Dispatcher, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &MCPServer{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version,
		}, nil),
		dispatcher: d,
		logger:     logger,
	}

	for _, schema := range d.Tools() {
		t := &mcp.Tool{
			Name:        schema.Name,
			Description: schema.Description,
			InputSchema: schema.InputSchema(),
		}
		s.tools = append(s.tools, t)
		s.server.AddTool(t, s.handler(schema.Name))
	}
	s.server.AddReceivingMiddleware(s.routeTools)

	return s
}

// ServeStdio serves requests on stdin/stdout until the client disconnects or
// ctx is cancelled.
func (s *MCPServer) ServeStdio(ctx context.Context) error {
	return s.run(ctx, &mcp.StdioTransport{})
}

// Serve reads requests from in and writes responses to out.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, &mcp.IOTransport{
		Reader: io.NopCloser(in),
		Writer: nopWriteCloser{out},
	})
}

// run is split from Serve so tests can use in-memory transports. End of input
// is a clean shutdown.
func (s *MCPServer) run(ctx context.Context, transport mcp.Transport) error {
	err := s.server.Run(ctx, transport)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// routeTools answers tools/list from the registry, in registration order, and
// sends calls to unregistered tools through the dispatcher so they fail with
// an UnknownTool result instead of a protocol error.
func (s *MCPServer) routeTools(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case "tools/list":
			return &mcp.ListToolsResult{Tools: s.tools}, nil
		case "tools/call":
			call, ok := req.(*mcp.CallToolRequest)
			if ok && !s.dispatcher.Has(call.Params.Name) {
				return s.call(ctx, call.Params.Name, call.Params.Arguments), nil
			}
		}
		return next(ctx, method, req)
	}
}

func (s *MCPServer) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.call(ctx, name, req.Params.Arguments), nil
	}
}

func (s *MCPServer) call(ctx context.Context, name string, args json.RawMessage) *mcp.CallToolResult {
	res := s.dispatcher.Dispatch(ctx, name, args)
	if res.IsError() {
		s.logger.Warn("tool call failed", "tool", name, "kind", res.Failure.Kind, "error", res.Failure.Message)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: res.Text()}},
		IsError: res.IsError(),
	}
}

// nopWriteCloser wraps an io.Writer as an io.WriteCloser with a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
