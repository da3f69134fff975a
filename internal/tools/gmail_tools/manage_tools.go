package gmail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nangokit/gmail-mcp/internal/server"
	"github.com/nangokit/gmail-mcp/internal/tools/batch"
)

func handleMarkAsRead(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageIDs, err := batch.ParseStringOrArray(args["message_ids"], "message_ids")
	if err != nil {
		return errorResult(err), nil
	}

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	// Each id is processed independently; one failure never stops the rest.
	summary := batch.Process(messageIDs, func(id string) error {
		return svc.MarkAsRead(ctx, id)
	})

	return batchResult(summary, "marked_as_read"), nil
}

func handleDeleteMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	messageIDs, err := batch.ParseStringOrArray(args["message_ids"], "message_ids")
	if err != nil {
		return errorResult(err), nil
	}

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	// Deletion is permanent and per-id; a failed id is reported, not
	// rolled back.
	summary := batch.Process(messageIDs, func(id string) error {
		return svc.Delete(ctx, id)
	})

	return batchResult(summary, "deleted"), nil
}
