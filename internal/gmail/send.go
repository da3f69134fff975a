package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/nangokit/gmail-mcp/internal/errs"
)

// OutgoingMessage describes an email to be sent. AttachmentPath is optional;
// when set the file is read at send time and attached as a MIME part.
type OutgoingMessage struct {
	To             string
	Cc             []string
	Bcc            []string
	Subject        string
	Body           string
	AttachmentPath string
}

// Validate checks the message fields that must be caught before any network
// call is made.
func (m *OutgoingMessage) Validate() error {
	if err := ValidateEmailAddress(m.To); err != nil {
		return err
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject cannot be empty", errs.ErrValidation)
	}
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("%w: body cannot be empty", errs.ErrValidation)
	}
	for _, addr := range append(append([]string{}, m.Cc...), m.Bcc...) {
		if err := ValidateEmailAddress(addr); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEmailAddress checks that addr parses as an RFC 5322 address with a
// dotted domain. Gmail itself is the final arbiter; this catches obvious
// mistakes before a token is spent on them.
func ValidateEmailAddress(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("%w: recipient address is empty", errs.ErrValidation)
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid email address", errs.ErrValidation, addr)
	}
	at := strings.LastIndex(parsed.Address, "@")
	if at < 0 || !strings.Contains(parsed.Address[at+1:], ".") {
		return fmt.Errorf("%w: %q is not a valid email address", errs.ErrValidation, addr)
	}
	return nil
}

// encodeRFC2047 encodes a header value for non-ASCII characters.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// buildRaw renders the message into a base64url-encoded RFC 2822 payload as
// the Gmail API expects in Message.Raw. attachmentName and attachmentData
// are empty for plain messages.
func buildRaw(msg *OutgoingMessage, attachmentName string, attachmentData []byte) string {
	var b strings.Builder

	b.WriteString("To: " + msg.To + "\r\n")
	if len(msg.Cc) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.Cc, ", ") + "\r\n")
	}
	if len(msg.Bcc) > 0 {
		b.WriteString("Bcc: " + strings.Join(msg.Bcc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + encodeRFC2047(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if attachmentName == "" {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
	} else {
		const boundary = "gmailmcp-attachment-boundary"
		b.WriteString("Content-Type: multipart/mixed; boundary=\"" + boundary + "\"\r\n")
		b.WriteString("\r\n")

		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
		b.WriteString("\r\n")

		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString("Content-Disposition: attachment; filename=\"" + attachmentName + "\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(attachmentData)))
		b.WriteString("\r\n")

		b.WriteString("--" + boundary + "--")
	}

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// wrapBase64 folds base64 content at 76 columns per RFC 2045.
func wrapBase64(s string) string {
	const width = 76
	if len(s) <= width {
		return s
	}
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

// readAttachment loads the attachment file, mapping a missing or unreadable
// path onto the shared taxonomy.
func readAttachment(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: attachment %q", errs.ErrFileNotFound, path)
		}
		return "", nil, fmt.Errorf("%w: attachment %q: %v", errs.ErrFileNotFound, path, err)
	}
	return filepath.Base(path), data, nil
}
