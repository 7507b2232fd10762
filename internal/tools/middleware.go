// Package tools contains the MCP tool registrations, grouped by area, plus
// shared handler plumbing.
package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clusterscope/mcp-cluster-info/internal/instrumentation"
	"github.com/clusterscope/mcp-cluster-info/internal/server"
)

// Instrument wraps a tool handler with a tracing span and call metrics. When
// instrumentation is disabled the handler is invoked directly.
func Instrument(sc *server.ServerContext, tool string, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		provider := sc.InstrumentationProvider()
		if !provider.Enabled() {
			return handler(ctx, request)
		}

		ctx, span := provider.Tracer().Start(ctx, "mcp.tool/"+tool,
			trace.WithAttributes(attribute.String("mcp.tool", tool)))
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
		}
		provider.Metrics().RecordToolCall(ctx, tool, status, time.Since(start))
		return result, err
	}
}
