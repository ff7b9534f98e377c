package operations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{
			name: "with step",
			err:  NewParseError("ingest", errors.New("bad row")),
			want: "[parse] ingest: malformed input content",
		},
		{
			name: "without step",
			err:  NewFatalError("something broke", nil),
			want: "[fatal] something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestOperationErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewTransformError("staging", cause)

	assert.ErrorIs(t, err, cause)
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"not found", NewNotFoundError("ingest", nil), ErrorTypeNotFound},
		{"parse", NewParseError("ingest", nil), ErrorTypeParse},
		{"transform", NewTransformError("staging", nil), ErrorTypeTransform},
		{"validation", NewValidationError("primary", "missing table"), ErrorTypeValidation},
		{"wrapped", fmt.Errorf("context: %w", NewParseError("ingest", nil)), ErrorTypeParse},
		{"plain error", errors.New("boom"), ErrorTypeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorType(tt.err))
		})
	}
}

func TestIsGracefulHalt(t *testing.T) {
	assert.True(t, IsGracefulHalt(NewNotFoundError("ingest", nil)))
	assert.True(t, IsGracefulHalt(fmt.Errorf("wrapped: %w", NewNotFoundError("ingest", nil))))
	assert.False(t, IsGracefulHalt(NewParseError("ingest", nil)))
	assert.False(t, IsGracefulHalt(errors.New("boom")))
	assert.False(t, IsGracefulHalt(nil))
}

func TestWrapErrorPreservesType(t *testing.T) {
	inner := NewNotFoundError("", errors.New("no such file"))

	wrapped := WrapError(inner, "ingest", "step execution failed")
	require.NotNil(t, wrapped)

	assert.Equal(t, ErrorTypeNotFound, wrapped.Type)
	assert.Equal(t, "ingest", wrapped.Step)
	assert.True(t, IsGracefulHalt(wrapped))
}

func TestWrapErrorPlainError(t *testing.T) {
	wrapped := WrapError(errors.New("boom"), "staging", "join failed")
	require.NotNil(t, wrapped)

	assert.Equal(t, ErrorTypeTransform, wrapped.Type)
	assert.Equal(t, "staging", wrapped.Step)
	assert.Contains(t, wrapped.Error(), "join failed")
}

func TestWrapErrorNil(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ingest", "message"))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(NewParseError("ingest", nil)))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.True(t, IsRetryable(&OperationError{Type: ErrorTypeTransform, Retryable: true}))
}
