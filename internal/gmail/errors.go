package gmail

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/nangokit/gmail-mcp/internal/errs"
)

// classifyAPIError maps a Gmail API failure onto the shared error taxonomy.
// The original error stays in the chain for logging.
func classifyAPIError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		// Transport-level failure, no HTTP status to go on.
		return fmt.Errorf("%w: %s: %v", errs.ErrUpstreamUnavailable, op, err)
	}

	switch {
	case apiErr.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %s: %v", errs.ErrNotFound, op, err)
	case apiErr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s: %v", errs.ErrAuthentication, op, err)
	case apiErr.Code >= 500:
		return fmt.Errorf("%w: %s: %v", errs.ErrUpstreamUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", errs.ErrProvider, op, err)
	}
}
