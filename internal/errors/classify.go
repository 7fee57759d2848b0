package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmespath-community/go-jmespath"
)

// APIError is a transport-classified failure: the backend answered with a non-2xx status.
// It is produced once, at the API client boundary; consumers branch on it via Classify,
// IsUnauthorized, and MessageExtractor rather than re-inspecting responses.
type APIError struct {
	Status  int
	Payload []byte
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api status %d: %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("api status %d", e.Status)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.Cause }

// Kind is the coarse classification of an error.
type Kind int

const (
	// KindNone is returned for a nil error.
	KindNone Kind = iota
	// KindTransport marks errors carrying a structured status code.
	KindTransport
	// KindLocal marks unstructured failures (network, decoding, storage).
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindLocal:
		return "local"
	default:
		return "none"
	}
}

// Classify reports whether err is transport-classified or local.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if _, ok := AsAPIError(err); ok {
		return KindTransport
	}
	return KindLocal
}

// AsAPIError extracts an APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized is true iff err is transport-classified with status 401.
// Check it before displaying a message: the guard handles 401 with a redirect.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// UnknownErrorMessage is shown when nothing better can be extracted.
const UnknownErrorMessage = "unknown error"

// DefaultMessagePaths are the JMESPath expressions tried against error payloads, in order.
var DefaultMessagePaths = []string{"message", "error.message", "errors[0].message", "error"}

// MessageExtractor turns classified errors into user-facing messages.
type MessageExtractor struct {
	paths []string
}

// NewMessageExtractor validates the JMESPath expressions and returns an extractor.
// An empty list uses DefaultMessagePaths.
func NewMessageExtractor(paths []string) (*MessageExtractor, error) {
	if len(paths) == 0 {
		paths = DefaultMessagePaths
	}
	clean := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := jmespath.Compile(p); err != nil {
			return nil, fmt.Errorf("compile message path %q: %w", p, err)
		}
		clean = append(clean, p)
	}
	return &MessageExtractor{paths: clean}, nil
}

// Message extracts a human-readable message from err. Preference order:
// a string field of the structured payload, a generic status-coded message,
// the message of a local AppError, then UnknownErrorMessage.
func (m *MessageExtractor) Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok {
		if msg := m.fromPayload(apiErr.Payload); msg != "" {
			return msg
		}
		return fmt.Sprintf("request failed with status %d", apiErr.Status)
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return UnknownErrorMessage
}

func (m *MessageExtractor) fromPayload(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return ""
	}
	for _, p := range m.paths {
		v, err := jmespath.Search(p, doc)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
