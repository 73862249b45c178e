package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError("num_users must be positive"),
			want: "[VALIDATION] num_users must be positive",
		},
		{
			name: "with cause",
			err:  NewNetworkError("chart request failed", fmt.Errorf("connection refused")),
			want: "[NETWORK] chart request failed: connection refused",
		},
		{
			name: "not found",
			err:  NewNotFoundError("quotes for HG=F"),
			want: "[NOT_FOUND] quotes for HG=F not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_UnwrapAndIs(t *testing.T) {
	root := fmt.Errorf("status 429")
	err := fmt.Errorf("generate: %w", NewRateLimitError("quota exhausted", root))

	assert.True(t, stderrors.Is(err, ErrRateLimited))
	assert.False(t, stderrors.Is(err, ErrNetwork))
	assert.True(t, stderrors.Is(err, root))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeRateLimit, appErr.Type)
	assert.Equal(t, ErrTypeRateLimit, TypeOf(err))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain")))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewStorageError("write failed", nil).
		WithContext("path", "out.csv").
		WithContext("rows", 12)

	assert.Equal(t, "out.csv", err.Context["path"])
	assert.Equal(t, 12, err.Context["rows"])

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}
