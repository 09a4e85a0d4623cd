package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/yotei/internal/instrumentation"
	"github.com/teemow/yotei/internal/logging"
	"github.com/teemow/yotei/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and a
// log line per invocation.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account := GetAccountFromArgs(request.GetArguments())

		attrs := instrumentation.NewSpanAttributeBuilder().WithAccount(account).Build()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			span.SetStatus(codes.Error, toolErrorText(result))
		default:
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocationWithAccount(ctx, toolName, status, account, duration)

		logger := logging.WithTool(sc.Logger(), toolName)
		logArgs := []any{logging.Status(status), logging.Duration(duration), logging.Err(err)}
		if account != "" {
			logArgs = append(logArgs, logging.Account(account))
		}
		logger.Debug("tool invoked", logArgs...)

		return result, err
	}
}

// toolErrorText returns the first text block of an error result.
func toolErrorText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return "tool returned an error"
}
