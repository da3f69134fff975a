package gmail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nangokit/gmail-mcp/internal/instrumentation"
	"github.com/nangokit/gmail-mcp/internal/server"
	"github.com/nangokit/gmail-mcp/internal/tools/common"
)

// RegisterGmailTools registers all Gmail tools with the MCP server. Write
// operations are skipped when readOnly is set.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List messages tool
	listMessagesTool := mcp.NewTool("gmail_list_messages",
		mcp.WithDescription("List recent Gmail messages, optionally filtered by a Gmail search query"),
		mcp.WithString("query",
			mcp.Description("Gmail search query (e.g., 'in:inbox', 'from:user@example.com'). Empty lists all mail."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of messages to return (default 10, max 100)"),
		),
	)

	s.AddTool(listMessagesTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_list_messages", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListMessages(ctx, request, sc)
		}))

	// Get message tool
	getMessageTool := mcp.NewTool("gmail_get_message",
		mcp.WithDescription("Get the full detail of a Gmail message, including headers, body and attachment metadata"),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to retrieve"),
		),
	)

	s.AddTool(getMessageTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_get_message", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMessage(ctx, request, sc)
		}))

	// Search messages tool
	searchMessagesTool := mcp.NewTool("gmail_search_messages",
		mcp.WithDescription("Search Gmail messages by structured criteria. All given filters are AND-combined."),
		mcp.WithString("sender",
			mcp.Description("Filter by sender email address"),
		),
		mcp.WithString("subject",
			mcp.Description("Filter by subject text"),
		),
		mcp.WithString("after_date",
			mcp.Description("Only messages after this date (YYYY/MM/DD)"),
		),
		mcp.WithString("before_date",
			mcp.Description("Only messages before this date (YYYY/MM/DD)"),
		),
		mcp.WithBoolean("has_attachment",
			mcp.Description("Only messages with attachments"),
		),
		mcp.WithBoolean("is_unread",
			mcp.Description("Only unread messages"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of messages to return (default 10, max 100)"),
		),
	)

	s.AddTool(searchMessagesTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_search_messages", instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMessages(ctx, request, sc)
		}))

	// Account statistics tool
	getStatsTool := mcp.NewTool("gmail_get_stats",
		mcp.WithDescription("Get Gmail account statistics: email address, message and thread totals, unread counts per label"),
	)

	s.AddTool(getStatsTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_get_stats", instrumentation.OperationStats, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetStats(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Send message tool
	sendMessageTool := mcp.NewTool("gmail_send_message",
		mcp.WithDescription("Send an email through Gmail"),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content (plain text)"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address(es), comma-separated for multiple recipients"),
		),
	)

	s.AddTool(sendMessageTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_send_message", instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendMessage(ctx, request, sc)
		}))

	// Send message with attachment tool
	sendWithAttachmentTool := mcp.NewTool("gmail_send_message_with_attachment",
		mcp.WithDescription("Send an email through Gmail with a file attachment"),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content (plain text)"),
		),
		mcp.WithString("attachment_path",
			mcp.Required(),
			mcp.Description("Path to the file to attach. Must exist and be readable on the server."),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address(es), comma-separated for multiple recipients"),
		),
	)

	s.AddTool(sendWithAttachmentTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_send_message_with_attachment", instrumentation.OperationSend, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendMessageWithAttachment(ctx, request, sc)
		}))

	// Mark as read tool (supports single or multiple messages)
	markAsReadTool := mcp.NewTool("gmail_mark_as_read",
		mcp.WithDescription("Mark one or more Gmail messages as read by removing the UNREAD label"),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to mark as read"),
		),
	)

	s.AddTool(markAsReadTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_mark_as_read", instrumentation.OperationModify, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMarkAsRead(ctx, request, sc)
		}))

	// Delete messages tool (supports single or multiple messages)
	deleteMessagesTool := mcp.NewTool("gmail_delete_messages",
		mcp.WithDescription("Permanently delete one or more Gmail messages. This does not move them to trash."),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to delete"),
		),
	)

	s.AddTool(deleteMessagesTool, common.InstrumentedToolHandlerWithOperation(
		"gmail_delete_messages", instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteMessages(ctx, request, sc)
		}))

	return nil
}
