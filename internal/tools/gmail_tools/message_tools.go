package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nangokit/gmail-mcp/internal/gmail"
	"github.com/nangokit/gmail-mcp/internal/server"
)

// maxResultsFromArgs reads the optional max_results argument. JSON numbers
// arrive as float64; anything else falls back to the default.
func maxResultsFromArgs(args map[string]interface{}) int64 {
	if v, ok := args["max_results"].(float64); ok {
		return gmail.ClampMaxResults(int64(v))
	}
	return gmail.ClampMaxResults(0)
}

func handleListMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := ""
	if queryVal, ok := args["query"].(string); ok {
		query = queryVal
	}
	maxResults := maxResultsFromArgs(args)

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	messages, err := svc.ListMessages(ctx, query, maxResults)
	if err != nil {
		return errorResultf("listing messages: %v", err), nil
	}

	return successResult(map[string]interface{}{
		"count":    len(messages),
		"messages": messages,
	}), nil
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageID, ok := args["message_id"].(string)
	if !ok || messageID == "" {
		return errorResultf("message_id is required"), nil
	}

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	detail, err := svc.GetMessage(ctx, messageID)
	if err != nil {
		return errorResultf("getting message %s: %v", messageID, err), nil
	}

	return successResult(map[string]interface{}{
		"message": detail,
	}), nil
}

func handleSearchMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	filter := gmail.SearchFilter{}
	if v, ok := args["sender"].(string); ok {
		filter.Sender = v
	}
	if v, ok := args["subject"].(string); ok {
		filter.Subject = v
	}
	if v, ok := args["after_date"].(string); ok {
		filter.AfterDate = v
	}
	if v, ok := args["before_date"].(string); ok {
		filter.BeforeDate = v
	}
	if v, ok := args["has_attachment"].(bool); ok {
		filter.HasAttachment = v
	}
	if v, ok := args["is_unread"].(bool); ok {
		filter.IsUnread = v
	}
	maxResults := maxResultsFromArgs(args)

	query, err := filter.Query()
	if err != nil {
		return errorResult(err), nil
	}

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	messages, err := svc.ListMessages(ctx, query, maxResults)
	if err != nil {
		return errorResultf("searching messages: %v", err), nil
	}

	return successResult(map[string]interface{}{
		"count":    len(messages),
		"query":    query,
		"messages": messages,
	}), nil
}

func handleGetStats(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return errorResult(fmt.Errorf("getting account statistics: %w", err)), nil
	}

	return successResult(map[string]interface{}{
		"stats": stats,
	}), nil
}
