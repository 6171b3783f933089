package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	t.Run("successful request logged at info", func(t *testing.T) {
		handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analysis/analyze", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, "request completed", entries[0].Message)

		fields := entries[0].ContextMap()
		assert.Equal(t, "POST", fields["method"])
		assert.Equal(t, int64(http.StatusCreated), fields["status"])
	})

	t.Run("server error logged at error", func(t *testing.T) {
		handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Equal(t, "request failed", entries[0].Message)
	})

	t.Run("status defaults to 200 when not set", func(t *testing.T) {
		handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	})
}
