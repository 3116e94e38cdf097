package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	const fallback, conn = "Erro ao salvar equivalência", "Erro de conexão ao salvar"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"transport", NewTransportError("create", fmt.Errorf("dial tcp: refused")), conn},
		{"wrapped transport", fmt.Errorf("submit: %w", NewTransportError("create", stderrors.New("eof"))), conn},
		{"api with message", NewAPIError("create", http.StatusBadRequest, "campo obrigatório"), "campo obrigatório"},
		{"api without message", NewAPIError("create", http.StatusInternalServerError, ""), fallback},
		{"unknown", stderrors.New("boom"), fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, fallback, conn))
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := stderrors.New("timeout")
	err := NewTransportError("list", inner)

	assert.True(t, stderrors.Is(err, inner))
	assert.True(t, IsTransport(err))
	assert.False(t, IsTransport(NewAPIError("list", 500, "")))
}

func TestAPIError_Message(t *testing.T) {
	err := NewAPIError("delete", http.StatusNotFound, "não encontrada")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "não encontrada")
	assert.Equal(t, "BACKEND_REJECTED", err.Code())
}

func TestToHTTPError(t *testing.T) {
	status, body := ToHTTPError(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body)

	status, body = ToHTTPError(NewValidationError("column", "invalid column"))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, body)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
	assert.Equal(t, "invalid column", body["message"])

	status, _ = ToHTTPError(fmt.Errorf("wrapped: %w", NewNotFoundError("equivalência")))
	assert.Equal(t, http.StatusNotFound, status)

	status, body = ToHTTPError(stderrors.New("secret detail"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["message"])
}
