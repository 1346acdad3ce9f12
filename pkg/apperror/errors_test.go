package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading customer: %w", NewNotFoundError("Customer"))
	appErr := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Customer not found", appErr.Message)
	assert.True(t, IsAppError(wrapped))

	internal := GetAppError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.NotContains(t, internal.Message, "pq")
}

func TestNewUnprocessableError(t *testing.T) {
	err := NewUnprocessableError("contents", "at most 8 menus")
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, []FieldError{{Field: "contents", Message: "at most 8 menus"}}, err.Errors)
}
