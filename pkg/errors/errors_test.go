package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPredicatesSurviveWrapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		status    int
	}{
		{"empty input", NewEmptyInputError(), IsEmptyInput, http.StatusBadRequest},
		{"invalid keyword", NewInvalidKeywordError(""), IsInvalidKeyword, http.StatusBadRequest},
		{"grammar unavailable", NewGrammarServiceUnavailableError(errors.New("dial tcp: refused")), IsGrammarServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("query handler failed: %w", tt.err)
			assert.True(t, tt.predicate(wrapped))
			require.NotNil(t, GetAppError(wrapped))
			assert.Equal(t, tt.status, GetAppError(wrapped).HTTPStatus)
		})
	}

	assert.False(t, IsEmptyInput(NewInvalidKeywordError("")))
	assert.False(t, IsInvalidKeyword(errors.New("plain")))
}

func TestWrapKeepsAppError(t *testing.T) {
	err := Wrap(NewEmptyInputError(), "analyze")
	assert.True(t, IsEmptyInput(err))
	assert.Contains(t, err.Error(), "analyze")

	plain := Wrap(errors.New("boom"), "analyze")
	assert.True(t, IsType(plain, ErrorTypeInternal))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error keeps status and code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		w := httptest.NewRecorder()

		handler.Handle(w, req, NewEmptyInputError())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.True(t, body.Error)
		assert.Equal(t, CodeEmptyInput, body.Code)
		assert.Equal(t, string(ErrorTypeValidation), body.Type)
	})

	t.Run("generic error hides message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		w := httptest.NewRecorder()

		handler.Handle(w, req, errors.New("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})
}

func TestErrorHandler_MiddlewareRecoversPanic(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()

	handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
