package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nangokit/gmail-mcp/internal/instrumentation"
	"github.com/nangokit/gmail-mcp/internal/logging"
	"github.com/nangokit/gmail-mcp/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. Each invocation runs inside a tool span; the span is a
// no-op when no tracing exporter is configured.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithConnection(logging.AnonymizeID(sc.ConnectionID())).
				Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithConnection(sc.ConnectionID())

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				instrumentation.SetSpanError(span, err)
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			instrumentation.SetSpanSuccess(span)
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocationWithConnection(ctx, toolName, status, sc.ConnectionID(), duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// InstrumentedToolHandlerWithOperation is like InstrumentedToolHandler but
// also records the Gmail operation type: the handler runs inside a nested
// gmail operation span, and both the mcp_tool_* and gmail_api_* metric
// series are recorded.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithOperation("my_tool", instrumentation.OperationList, sc, handler))
func InstrumentedToolHandlerWithOperation(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().
				WithOperation(operation).
				WithConnection(logging.AnonymizeID(sc.ConnectionID())).
				Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithConnection(sc.ConnectionID()).
			WithOperation(operation)

		opCtx, opSpan := instrumentation.StartGmailSpan(ctx, operation)
		result, err := handler(opCtx, request)
		opSpan.End()
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				instrumentation.SetSpanError(span, err)
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			instrumentation.SetSpanSuccess(span)
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocationWithConnection(ctx, toolName, status, sc.ConnectionID(), duration)
			metrics.RecordGmailOperation(ctx, operation, status, duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
