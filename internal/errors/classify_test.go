package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNone, Classify(nil))
	assert.Equal(t, KindTransport, Classify(&APIError{Status: 500}))
	assert.Equal(t, KindTransport, Classify(fmt.Errorf("fetch profile: %w", &APIError{Status: 404})))
	assert.Equal(t, KindLocal, Classify(errors.New("dial tcp: connection refused")))
	assert.Equal(t, KindLocal, Classify(context.DeadlineExceeded))
	assert.Equal(t, KindLocal, Classify(Storage("quota", nil)))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{Status: 401}))
	assert.True(t, IsUnauthorized(fmt.Errorf("wrapped: %w", &APIError{Status: 401})))
	assert.False(t, IsUnauthorized(&APIError{Status: 403}))
	assert.False(t, IsUnauthorized(&APIError{Status: 500}))
	assert.False(t, IsUnauthorized(errors.New("401")))
	assert.False(t, IsUnauthorized(nil))
}

func TestMessageExtractor_Message(t *testing.T) {
	m, err := NewMessageExtractor(nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "top-level message", err: &APIError{Status: 400, Payload: []byte(`{"message":"Email already taken"}`)}, want: "Email already taken"},
		{name: "nested message", err: &APIError{Status: 422, Payload: []byte(`{"error":{"message":"Invalid password"}}`)}, want: "Invalid password"},
		{name: "errors array", err: &APIError{Status: 422, Payload: []byte(`{"errors":[{"message":"first"},{"message":"second"}]}`)}, want: "first"},
		{name: "error string", err: &APIError{Status: 500, Payload: []byte(`{"error":"database down"}`)}, want: "database down"},
		{name: "blank message falls back", err: &APIError{Status: 503, Payload: []byte(`{"message":"  "}`)}, want: "request failed with status 503"},
		{name: "non-json payload", err: &APIError{Status: 502, Payload: []byte(`<html>Bad Gateway</html>`)}, want: "request failed with status 502"},
		{name: "no payload", err: &APIError{Status: 404}, want: "request failed with status 404"},
		{name: "local app error", err: Validation("Email is required"), want: "Email is required"},
		{name: "local unstructured", err: errors.New("connection reset"), want: UnknownErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Message(tt.err))
		})
	}
}

func TestNewMessageExtractor_CustomPaths(t *testing.T) {
	m, err := NewMessageExtractor([]string{"detail", " ", "title"})
	require.NoError(t, err)
	got := m.Message(&APIError{Status: 400, Payload: []byte(`{"title":"Bad Request","detail":"limit must be positive"}`)})
	assert.Equal(t, "limit must be positive", got)
}

func TestNewMessageExtractor_InvalidPath(t *testing.T) {
	_, err := NewMessageExtractor([]string{"errors[?"})
	require.Error(t, err)
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "api status 401", (&APIError{Status: 401}).Error())
	cause := errors.New("boom")
	err := &APIError{Status: 500, Cause: cause}
	assert.Equal(t, "api status 500: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
