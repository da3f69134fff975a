package gmail

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nangokit/gmail-mcp/internal/errs"
)

// datePattern is the YYYY/MM/DD shape Gmail's after:/before: operators take.
// Only the shape is checked; calendar validity is left to the provider.
var datePattern = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)

// SearchFilter describes the supported search criteria. Unset fields are
// omitted from the query; set fields are AND-combined, which is Gmail's
// implicit semantics for space-separated clauses.
type SearchFilter struct {
	Sender        string
	Subject       string
	AfterDate     string
	BeforeDate    string
	HasAttachment bool
	IsUnread      bool
}

// Query renders the filter into a Gmail search query string.
func (f SearchFilter) Query() (string, error) {
	if f.AfterDate != "" && !datePattern.MatchString(f.AfterDate) {
		return "", fmt.Errorf("%w: after_date %q must be YYYY/MM/DD", errs.ErrValidation, f.AfterDate)
	}
	if f.BeforeDate != "" && !datePattern.MatchString(f.BeforeDate) {
		return "", fmt.Errorf("%w: before_date %q must be YYYY/MM/DD", errs.ErrValidation, f.BeforeDate)
	}

	var clauses []string
	if f.Sender != "" {
		clauses = append(clauses, "from:"+f.Sender)
	}
	if f.Subject != "" {
		clauses = append(clauses, fmt.Sprintf("subject:%q", f.Subject))
	}
	if f.AfterDate != "" {
		clauses = append(clauses, "after:"+f.AfterDate)
	}
	if f.BeforeDate != "" {
		clauses = append(clauses, "before:"+f.BeforeDate)
	}
	if f.HasAttachment {
		clauses = append(clauses, "has:attachment")
	}
	if f.IsUnread {
		clauses = append(clauses, "is:unread")
	}

	return strings.Join(clauses, " "), nil
}
