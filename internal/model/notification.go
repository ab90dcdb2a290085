package model

import "time"

// NotificationPayload is the JSON body delivered to the service worker.
type NotificationPayload struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Icon               string `json:"icon"`
	Badge              string `json:"badge"`
	URL                string `json:"url"`
	Timestamp          int64  `json:"timestamp"`
	RequireInteraction bool   `json:"requireInteraction"`
}

type BroadcastRequest struct {
	ID    string `json:"broadcastId,omitempty"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`
	URL   string `json:"url,omitempty"`
}

type DeliveryResult struct {
	Success    bool   `json:"success"`
	Index      int    `json:"index"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

type BroadcastResult struct {
	ID                 string           `json:"broadcastId"`
	Succeeded          int              `json:"succeeded"`
	Failed             int              `json:"failed"`
	Pruned             int              `json:"pruned"`
	Results            []DeliveryResult `json:"results"`
	TotalSubscriptions int              `json:"totalSubscriptions"`
	CompletedAt        time.Time        `json:"completedAt"`
}
