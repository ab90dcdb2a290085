package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/http/dto"
	"webpush_demo/internal/model"
	"webpush_demo/internal/sse"
)

// Events streams stats and broadcast events to operator pages.
func (h *Handler) Events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}

	client := sse.NewClient(16)
	if !h.hub.Register(client) {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "shutting down"})
		return
	}
	defer h.hub.Unregister(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if stats, err := h.svc.Stats(c.Request.Context()); err == nil {
		if err := writeEvent(c.Writer, model.Event{Type: model.EventTypeStats, Data: stats}); err != nil {
			h.log.Error("write initial stats failed", zap.Error(err))
			return
		}
	}
	flusher.Flush()

	interval := h.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = 15 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				h.log.Error("write event failed", zap.String("type", event.Type), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent frames one event: the SSE event name is the event type and
// data carries the JSON-encoded event data.
func writeEvent(w http.ResponseWriter, event model.Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
	return err
}
