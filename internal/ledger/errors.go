package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed is returned when the token issuer rejects the refresh
	// credential. Nothing in the ledger is touched after this.
	ErrAuthFailed = errors.New("ledger auth refresh failed")

	// ErrAttachment is returned when uploading the receipt to an already
	// created expense fails. The expense itself stands; the caller can
	// retry the attachment manually.
	ErrAttachment = errors.New("receipt attachment failed")
)

// APIError is a business-rule rejection embedded in the ledger's response
// body. The ledger routinely answers HTTP 200 with a non-zero code, so
// transport success never implies acceptance.
type APIError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("ledger rejected request: %s (code: %d)", e.Message, e.Code)
}
