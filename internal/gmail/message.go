package gmail

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// labelUnread is the system label Gmail puts on unread messages.
const labelUnread = "UNREAD"

// snippetLimit caps the snippet length included in listing results.
const snippetLimit = 100

// MessageSummary is the normalized listing view of a message.
type MessageSummary struct {
	ID       string   `json:"id"`
	From     string   `json:"from"`
	Subject  string   `json:"subject"`
	Date     string   `json:"date"`
	Snippet  string   `json:"snippet"`
	Labels   []string `json:"labels,omitempty"`
	IsUnread bool     `json:"is_unread"`
}

// AttachmentInfo is the normalized attachment metadata of a message part.
type AttachmentInfo struct {
	AttachmentID string `json:"attachment_id"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// MessageDetail is the normalized full view of a single message.
type MessageDetail struct {
	ID          string            `json:"id"`
	ThreadID    string            `json:"thread_id"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	Date        string            `json:"date"`
	Snippet     string            `json:"snippet"`
	Body        string            `json:"body"`
	Labels      []string          `json:"labels,omitempty"`
	IsUnread    bool              `json:"is_unread"`
	Attachments []*AttachmentInfo `json:"attachments,omitempty"`
}

// SentMessage is the normalized result of a send operation.
type SentMessage struct {
	MessageID  string `json:"message_id"`
	ThreadID   string `json:"thread_id,omitempty"`
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Attachment string `json:"attachment,omitempty"`
}

// AccountStats is the normalized profile and label aggregate.
type AccountStats struct {
	EmailAddress  string           `json:"email_address"`
	TotalMessages int64            `json:"total_messages"`
	TotalThreads  int64            `json:"total_threads"`
	UnreadCount   int64            `json:"unread_count"`
	HistoryID     uint64           `json:"history_id"`
	LabelCounts   map[string]int64 `json:"label_counts,omitempty"`
}

// headerValue returns the value of the named header, case-insensitively.
func headerValue(msg *gmailv1.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// hasLabel reports whether the message carries the given label id.
func hasLabel(msg *gmailv1.Message, label string) bool {
	for _, l := range msg.LabelIds {
		if l == label {
			return true
		}
	}
	return false
}

// truncateSnippet shortens a snippet for listing results, appending an
// ellipsis when something was cut. Truncation counts runes, not bytes, so
// multi-byte characters are never split.
func truncateSnippet(snippet string) string {
	if utf8.RuneCountInString(snippet) <= snippetLimit {
		return snippet
	}
	runes := []rune(snippet)
	return string(runes[:snippetLimit]) + "..."
}

// summarize builds the normalized listing view from a raw message.
func summarize(msg *gmailv1.Message) *MessageSummary {
	return &MessageSummary{
		ID:       msg.Id,
		From:     headerValue(msg, "From"),
		Subject:  headerValue(msg, "Subject"),
		Date:     headerValue(msg, "Date"),
		Snippet:  truncateSnippet(msg.Snippet),
		Labels:   msg.LabelIds,
		IsUnread: hasLabel(msg, labelUnread),
	}
}

// normalizeDetail builds the normalized full view from a raw message.
func normalizeDetail(msg *gmailv1.Message) *MessageDetail {
	return &MessageDetail{
		ID:          msg.Id,
		ThreadID:    msg.ThreadId,
		From:        headerValue(msg, "From"),
		To:          headerValue(msg, "To"),
		Subject:     headerValue(msg, "Subject"),
		Date:        headerValue(msg, "Date"),
		Snippet:     msg.Snippet,
		Body:        extractTextBody(msg.Payload),
		Labels:      msg.LabelIds,
		IsUnread:    hasLabel(msg, labelUnread),
		Attachments: collectAttachments(msg.Payload),
	}
}

// extractTextBody walks the MIME tree and returns the first text/plain part,
// decoded from base64url. Multipart messages may nest parts arbitrarily.
func extractTextBody(payload *gmailv1.MessagePart) string {
	if payload == nil {
		return ""
	}

	if len(payload.Parts) == 0 {
		if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
			return decodeBody(payload.Body.Data)
		}
		return ""
	}

	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			return decodeBody(part.Body.Data)
		}
	}
	for _, part := range payload.Parts {
		if len(part.Parts) > 0 {
			if body := extractTextBody(part); body != "" {
				return body
			}
		}
	}
	return ""
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// collectAttachments walks the MIME tree collecting attachment metadata.
func collectAttachments(payload *gmailv1.MessagePart) []*AttachmentInfo {
	if payload == nil {
		return nil
	}

	var attachments []*AttachmentInfo
	walkParts(payload, func(part *gmailv1.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, &AttachmentInfo{
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})
	return attachments
}

// walkParts visits the part and all nested parts depth-first.
func walkParts(part *gmailv1.MessagePart, fn func(*gmailv1.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, p := range part.Parts {
		walkParts(p, fn)
	}
}
