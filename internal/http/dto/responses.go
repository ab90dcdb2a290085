package dto

import "webpush_demo/internal/model"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatsResponse struct {
	TotalSubscriptions int    `json:"totalSubscriptions"`
	VAPIDPublicKey     string `json:"vapidPublicKey"`
}

type SendNotificationResponse struct {
	Message            string                 `json:"message"`
	Results            []model.DeliveryResult `json:"results"`
	TotalSubscriptions int                    `json:"totalSubscriptions"`
}

type QueuedResponse struct {
	Message     string `json:"message"`
	BroadcastID string `json:"broadcastId"`
}
