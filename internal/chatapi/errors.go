package chatapi

import "errors"

type ErrorKind string

const (
	// KindNetwork covers transport failures and non-2xx statuses.
	KindNetwork ErrorKind = "network"
	// KindFormat covers payloads whose shape the client does not recognize.
	KindFormat ErrorKind = "format"
	// KindBusiness covers explicit server-side failure signals and
	// client-side validation.
	KindBusiness ErrorKind = "business"
)

// APIError is the classified failure every chatapi operation resolves to.
// The reason is human-readable and safe to surface as a notice.
type APIError struct {
	Kind   ErrorKind
	Reason string
}

func (e *APIError) Error() string {
	return e.Reason
}

func netErr(reason string) *APIError {
	return &APIError{Kind: KindNetwork, Reason: reason}
}

func formatErr(reason string) *APIError {
	return &APIError{Kind: KindFormat, Reason: reason}
}

func businessErr(reason string) *APIError {
	return &APIError{Kind: KindBusiness, Reason: reason}
}

// ErrSessionGone reports a delete that hit a session the remote no longer
// has. Callers treat it as a distinct outcome, not a generic failure.
var ErrSessionGone = errors.New("chat session not found or already deleted")

// KindOf extracts the classification from an error, defaulting to network
// for anything unclassified.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}
