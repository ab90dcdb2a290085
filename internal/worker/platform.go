package worker

import "context"

// Action is a button shown on a notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

type NotificationData struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// Options mirrors the showNotification options the worker passes.
type Options struct {
	Body               string           `json:"body"`
	Icon               string           `json:"icon"`
	Badge              string           `json:"badge"`
	Image              string           `json:"image,omitempty"`
	Data               NotificationData `json:"data"`
	Actions            []Action         `json:"actions"`
	RequireInteraction bool             `json:"requireInteraction"`
	Silent             bool             `json:"silent"`
	Vibrate            []int            `json:"vibrate"`
	Tag                string           `json:"tag"`
}

// Notification is a displayed system notification.
type Notification struct {
	Title   string  `json:"title"`
	Options Options `json:"options"`
}

type WindowClient struct {
	ID  string
	URL string
}

// Platform stands in for the worker globals: registration, clients and
// the worker's own location.
type Platform interface {
	SkipWaiting(ctx context.Context) error
	ClaimClients(ctx context.Context) error
	ShowNotification(ctx context.Context, n Notification) error
	CloseNotification(ctx context.Context, n Notification) error
	// MatchWindows lists window clients, uncontrolled ones included.
	MatchWindows(ctx context.Context) ([]WindowClient, error)
	Focus(ctx context.Context, w WindowClient) error
	OpenWindow(ctx context.Context, url string) error
	Origin() string
}
