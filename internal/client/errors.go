package client

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a rejected request by its HTTP status.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindInvalid
)

// Classify maps a status code of 400 or above to a Kind. Every status that is
// not explicitly listed falls into KindUnknown.
func Classify(status int) Kind {
	switch status {
	case 401:
		return KindUnauthorized
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	case 422:
		return KindInvalid
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// Description is the human-readable form printed to users.
func (k Kind) Description() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "unknown entity"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "unexpected response"
	}
}

// RemoteError is returned when the server answers with a status of 400 or above.
type RemoteError struct {
	Kind   Kind
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s (%d)", e.Kind.Description(), e.Status)
	}
	return fmt.Sprintf("%s (%d) - %s", e.Kind.Description(), e.Status, body)
}

// TransportError is returned when the instance cannot be reached at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsKind reports whether err is a RemoteError of the given kind.
func IsKind(err error, kind Kind) bool {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.Kind == kind
}
