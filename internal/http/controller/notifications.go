package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/http/dto"
	"webpush_demo/internal/http/middleware"
)

func (h *Handler) SendNotification(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgInvalidJSON})
		return
	}

	result, err := h.svc.Broadcast(c.Request.Context(), req.Broadcast())
	if err != nil {
		if errors.Is(err, domain.ErrNoRecipients) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgNoRecipients})
			return
		}
		h.log.Error("broadcast failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}
	c.Set(middleware.BroadcastIDKey, result.ID)
	c.Set(middleware.RecipientsKey, len(result.Results))

	c.JSON(http.StatusOK, dto.SendNotificationResponse{
		Message:            domain.BroadcastSummary(result.Succeeded, result.Failed),
		Results:            result.Results,
		TotalSubscriptions: result.TotalSubscriptions,
	})
}

// PublishNotification hands the broadcast to the message broker and returns
// before any delivery happens.
func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgInvalidJSON})
		return
	}

	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}
	if stats.TotalSubscriptions == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgNoRecipients})
		return
	}

	broadcast := req.Broadcast()
	broadcast.ID = uuid.NewString()
	c.Set(middleware.BroadcastIDKey, broadcast.ID)
	c.Set(middleware.RecipientsKey, stats.TotalSubscriptions)
	payload, err := json.Marshal(broadcast)
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "broadcast"
	}
	if err := h.pub.Publish(c.Request.Context(), payload, prefix+".http"); err != nil {
		if errors.Is(err, domain.ErrQueueDisabled) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: domain.MsgQueueDisabled})
			return
		}
		h.log.Error("publish broadcast failed", zap.String("broadcast_id", broadcast.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}

	c.JSON(http.StatusAccepted, dto.QueuedResponse{Message: domain.MsgQueued, BroadcastID: broadcast.ID})
}
