// Package gmail_tools implements the Gmail MCP tools.
//
// Eight tools are exposed: gmail_list_messages, gmail_get_message,
// gmail_search_messages, gmail_send_message,
// gmail_send_message_with_attachment, gmail_mark_as_read,
// gmail_delete_messages and gmail_get_stats. Every handler resolves a fresh
// Gmail client through the server context, performs one operation and
// serializes the outcome as a JSON object with a "success" field, so callers
// inspect the payload rather than transport-level faults.
//
// Write operations (send, mark as read, delete) are not registered when the
// server runs in read-only mode.
package gmail_tools
