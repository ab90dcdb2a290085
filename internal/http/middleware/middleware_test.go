package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"webpush_demo/internal/http/dto"
)

func newEngine(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), ZapLogger(logger), ZapRecovery(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/panic", func(*gin.Context) { panic("boom") })
	router.POST("/broadcasts/:kind", func(c *gin.Context) {
		c.Set(BroadcastIDKey, "b-1")
		c.Set(RecipientsKey, 3)
		c.String(http.StatusOK, "sent")
	})
	router.GET("/failed", func(c *gin.Context) {
		_ = c.Error(errors.New("store unavailable"))
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestID(t *testing.T) {
	router := newEngine(zap.NewNop())

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	})
}

func TestZapLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newEngine(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/missing?x=1", nil)
	req.Header.Set(RequestIDHeader, "req-2")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, "/missing?x=1", fields["path"])
	require.Equal(t, "req-2", fields["request_id"])
	require.EqualValues(t, http.StatusNotFound, fields["status"])
	require.Equal(t, "/missing", fields["route"])
	require.NotContains(t, fields, "broadcast_id")
}

func TestZapLoggerBroadcastFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newEngine(zap.New(core))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/broadcasts/now", nil))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, "/broadcasts/:kind", fields["route"])
	require.Equal(t, "/broadcasts/now", fields["path"])
	require.Equal(t, "b-1", fields["broadcast_id"])
	require.EqualValues(t, 3, fields["recipients"])
	require.EqualValues(t, len("sent"), fields["bytes"])
}

func TestZapLoggerHandlerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newEngine(zap.New(core))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/failed", nil))

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Contains(t, entries[0].ContextMap()["errors"], "store unavailable")
}

func TestZapRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newEngine(zap.New(core))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Erro interno do servidor", body.Error)
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
