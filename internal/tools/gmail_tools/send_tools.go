package gmail_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nangokit/gmail-mcp/internal/gmail"
	"github.com/nangokit/gmail-mcp/internal/server"
)

// outgoingFromArgs builds an OutgoingMessage from the common send arguments.
// It only checks argument presence; field validation happens in the
// operations layer before any network call.
func outgoingFromArgs(args map[string]interface{}) (*gmail.OutgoingMessage, *mcp.CallToolResult) {
	to, ok := args["to"].(string)
	if !ok || to == "" {
		return nil, errorResultf("'to' field is required")
	}

	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return nil, errorResultf("'subject' field is required")
	}

	body, ok := args["body"].(string)
	if !ok || body == "" {
		return nil, errorResultf("'body' field is required")
	}

	msg := &gmail.OutgoingMessage{
		To:      to,
		Subject: subject,
		Body:    body,
	}
	if cc, ok := args["cc"].(string); ok {
		msg.Cc = splitEmailAddresses(cc)
	}
	if bcc, ok := args["bcc"].(string); ok {
		msg.Bcc = splitEmailAddresses(bcc)
	}

	return msg, nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msg, errResult := outgoingFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}
	if err := msg.Validate(); err != nil {
		return errorResult(err), nil
	}

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	sent, err := svc.Send(ctx, msg)
	if err != nil {
		return errorResultf("sending message: %v", err), nil
	}

	return successResult(map[string]interface{}{
		"message_id": sent.MessageID,
		"thread_id":  sent.ThreadID,
		"to":         sent.To,
		"subject":    sent.Subject,
	}), nil
}

func handleSendMessageWithAttachment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	msg, errResult := outgoingFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	attachmentPath, ok := args["attachment_path"].(string)
	if !ok || attachmentPath == "" {
		return errorResultf("'attachment_path' field is required"), nil
	}
	msg.AttachmentPath = attachmentPath

	if err := msg.Validate(); err != nil {
		return errorResult(err), nil
	}

	svc, err := sc.GmailService(ctx)
	if err != nil {
		return errorResult(err), nil
	}

	sent, err := svc.Send(ctx, msg)
	if err != nil {
		return errorResultf("sending message: %v", err), nil
	}

	return successResult(map[string]interface{}{
		"message_id": sent.MessageID,
		"thread_id":  sent.ThreadID,
		"to":         sent.To,
		"subject":    sent.Subject,
		"attachment": sent.Attachment,
	}), nil
}

// splitEmailAddresses splits a comma-separated string of email addresses
func splitEmailAddresses(addresses string) []string {
	if addresses == "" {
		return nil
	}

	parts := strings.Split(addresses, ",")
	result := make([]string, 0, len(parts))
	for _, addr := range parts {
		trimmed := strings.TrimSpace(addr)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
