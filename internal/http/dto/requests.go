package dto

import "webpush_demo/internal/model"

// SubscribeRequest is the browser's PushSubscription.toJSON() shape.
type SubscribeRequest = model.Subscription

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

type SendNotificationRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

func (r SendNotificationRequest) Broadcast() model.BroadcastRequest {
	return model.BroadcastRequest{Title: r.Title, Body: r.Body, Icon: r.Icon, URL: r.URL}
}
