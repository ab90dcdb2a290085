package browser

import (
	"context"

	"webpush_demo/internal/http/dto"
	"webpush_demo/internal/model"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// WorkerScript is the service worker path the manager registers.
const WorkerScript = "/sw.js"

// Platform is the page environment: navigator, Notification and window.
type Platform interface {
	SecureContext() bool
	PushSupported() bool
	RequestPermission(ctx context.Context) (Permission, error)
	RegisterWorker(ctx context.Context, script string) (Registration, error)
}

// Registration is a registered service worker and its push manager.
type Registration interface {
	// Subscription returns the active push subscription, or nil.
	Subscription(ctx context.Context) (*model.Subscription, error)
	Subscribe(ctx context.Context, applicationServerKey []byte) (model.Subscription, error)
	// Unsubscribe cancels the active push subscription at the browser.
	Unsubscribe(ctx context.Context) error
}

// API is the relay's HTTP surface. *client.Client satisfies it.
type API interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Subscribe(ctx context.Context, sub model.Subscription) error
	Unsubscribe(ctx context.Context, endpoint string) error
}
