package gmail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/nangokit/gmail-mcp/internal/errs"
)

const (
	// maxListResults is the Gmail API page-size ceiling; requested counts
	// are clamped into [1, maxListResults].
	maxListResults = 100

	defaultListResults = 10
)

// Service is the operation set the tool layer depends on. *Client is the
// production implementation; tests substitute fakes.
type Service interface {
	ListMessages(ctx context.Context, query string, maxResults int64) ([]*MessageSummary, error)
	GetMessage(ctx context.Context, messageID string) (*MessageDetail, error)
	Send(ctx context.Context, msg *OutgoingMessage) (*SentMessage, error)
	MarkAsRead(ctx context.Context, messageID string) error
	Delete(ctx context.Context, messageID string) error
	Stats(ctx context.Context) (*AccountStats, error)
}

// Client wraps the Gmail Users service, bound to one access token.
type Client struct {
	svc *gmailv1.UsersService
}

var _ Service = (*Client)(nil)

// NewClient builds an authenticated client from an access token. This is
// pure construction: no network call is made, the token is validated lazily
// by the first API call.
func NewClient(ctx context.Context, token *oauth2.Token) (*Client, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", errs.ErrInvalidCredential)
	}

	svc, err := gmailv1.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidCredential, err)
	}

	return &Client{svc: svc.Users}, nil
}

// ClampMaxResults brings a requested result count into the supported range.
// Zero or negative values fall back to the default.
func ClampMaxResults(n int64) int64 {
	if n <= 0 {
		return defaultListResults
	}
	if n > maxListResults {
		return maxListResults
	}
	return n
}

// ListMessages lists message summaries matching the Gmail query, most recent
// first as returned by the provider. An empty query means all mail. The
// listing call only yields ids, so each message is fetched in metadata
// format to fill the summary fields.
func (c *Client) ListMessages(ctx context.Context, query string, maxResults int64) ([]*MessageSummary, error) {
	maxResults = ClampMaxResults(maxResults)

	req := c.svc.Messages.List("me").MaxResults(maxResults).Context(ctx)
	if query != "" {
		req = req.Q(query)
	}
	res, err := req.Do()
	if err != nil {
		return nil, classifyAPIError("list messages", err)
	}

	summaries := make([]*MessageSummary, 0, len(res.Messages))
	for _, ref := range res.Messages {
		msg, err := c.svc.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).Do()
		if err != nil {
			return nil, classifyAPIError(fmt.Sprintf("get message %s", ref.Id), err)
		}
		summaries = append(summaries, summarize(msg))
	}

	return summaries, nil
}

// GetMessage retrieves one message in full format and normalizes it.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*MessageDetail, error) {
	if messageID == "" {
		return nil, fmt.Errorf("%w: message id is empty", errs.ErrValidation)
	}

	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError(fmt.Sprintf("get message %s", messageID), err)
	}

	return normalizeDetail(msg), nil
}

// Send validates and sends a message, optionally with an attachment read
// from msg.AttachmentPath.
func (c *Client) Send(ctx context.Context, msg *OutgoingMessage) (*SentMessage, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var attachmentName string
	var attachmentData []byte
	if msg.AttachmentPath != "" {
		var err error
		attachmentName, attachmentData, err = readAttachment(msg.AttachmentPath)
		if err != nil {
			return nil, err
		}
	}

	sent, err := c.svc.Messages.Send("me", &gmailv1.Message{
		Raw: buildRaw(msg, attachmentName, attachmentData),
	}).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError("send message", err)
	}

	return &SentMessage{
		MessageID:  sent.Id,
		ThreadID:   sent.ThreadId,
		To:         msg.To,
		Subject:    msg.Subject,
		Attachment: attachmentName,
	}, nil
}

// MarkAsRead removes the UNREAD label from one message.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("%w: message id is empty", errs.ErrValidation)
	}

	_, err := c.svc.Messages.Modify("me", messageID, &gmailv1.ModifyMessageRequest{
		RemoveLabelIds: []string{labelUnread},
	}).Context(ctx).Do()
	if err != nil {
		return classifyAPIError(fmt.Sprintf("mark message %s as read", messageID), err)
	}
	return nil
}

// Delete permanently deletes one message. This is not move-to-trash; the
// message is unrecoverable afterwards.
func (c *Client) Delete(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("%w: message id is empty", errs.ErrValidation)
	}

	if err := c.svc.Messages.Delete("me", messageID).Context(ctx).Do(); err != nil {
		return classifyAPIError(fmt.Sprintf("delete message %s", messageID), err)
	}
	return nil
}

// statsLabels are the system labels included in the per-label counts of
// Stats. Labels.List omits counts, so each one costs a Labels.Get call.
var statsLabels = []string{"INBOX", "SENT", "DRAFT", "SPAM", "TRASH", "STARRED"}

// Stats returns profile totals plus unread and per-label message counts.
func (c *Client) Stats(ctx context.Context) (*AccountStats, error) {
	profile, err := c.svc.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError("get profile", err)
	}

	stats := &AccountStats{
		EmailAddress:  profile.EmailAddress,
		TotalMessages: profile.MessagesTotal,
		TotalThreads:  profile.ThreadsTotal,
		HistoryID:     profile.HistoryId,
		LabelCounts:   make(map[string]int64),
	}

	unread, err := c.svc.Labels.Get("me", labelUnread).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError("get unread label", err)
	}
	stats.UnreadCount = unread.MessagesTotal

	for _, id := range statsLabels {
		label, err := c.svc.Labels.Get("me", id).Context(ctx).Do()
		if err != nil {
			// Label counts are best-effort; a missing label (some accounts
			// lack STARRED, for instance) must not fail the whole call.
			continue
		}
		stats.LabelCounts[label.Id] = label.MessagesTotal
	}

	return stats, nil
}
