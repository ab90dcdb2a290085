package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/http/dto"
)

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalSubscriptions: stats.TotalSubscriptions,
		VAPIDPublicKey:     stats.VAPIDPublicKey,
	})
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgInvalidJSON})
		return
	}
	if _, err := h.svc.Subscribe(c.Request.Context(), req); err != nil {
		if errors.Is(err, domain.ErrInvalidSubscription) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgEndpointNeeded})
			return
		}
		h.log.Error("subscribe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: domain.MsgSubscribed})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgInvalidJSON})
		return
	}
	if domain.ValidateEndpoint(req.Endpoint) != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.MsgEndpointNeeded})
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), req.Endpoint); err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domain.MsgNotFound})
			return
		}
		h.log.Error("unsubscribe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domain.MsgInternalError})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: domain.MsgUnsubscribed})
}
