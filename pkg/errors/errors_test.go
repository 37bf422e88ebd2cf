package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Error(), "boom")
}

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", Clone(ErrNotFound, "period not found"))
	appErr := FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "period not found", appErr.Message)
}

func TestClonedErrorsMatchSentinel(t *testing.T) {
	err := fmt.Errorf("redis get: %w", Clone(ErrCacheMiss, "key absent"))
	assert.True(t, stdErrors.Is(err, ErrCacheMiss))
	assert.False(t, stdErrors.Is(err, ErrNotFound))
}

func TestFromErrorNil(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Nil(t, Clone(nil, "x"))
}
