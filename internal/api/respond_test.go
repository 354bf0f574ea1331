package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bothost-dev/backend/internal/apperr"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 1})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestError_KnownKind(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.NotFound("server not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"server not found"}`, rec.Body.String())
}

func TestError_InternalSuppressed(t *testing.T) {
	ExposeInternalErrors(false)
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pool exhausted: secret dsn"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestError_InternalExposedInDevelopment(t *testing.T) {
	ExposeInternalErrors(true)
	defer ExposeInternalErrors(false)

	rec := httptest.NewRecorder()
	Error(rec, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
}
