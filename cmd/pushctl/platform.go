package main

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"webpush_demo/internal/browser"
	"webpush_demo/internal/model"
	"webpush_demo/internal/worker"
)

// terminalPlatform lets the subscription manager run outside a browser:
// the endpoint comes from flags and missing keys are generated.
type terminalPlatform struct {
	endpoint string
	p256dh   string
	auth     string
}

func (p *terminalPlatform) SecureContext() bool { return true }
func (p *terminalPlatform) PushSupported() bool { return true }

func (p *terminalPlatform) RequestPermission(context.Context) (browser.Permission, error) {
	return browser.PermissionGranted, nil
}

func (p *terminalPlatform) RegisterWorker(context.Context, string) (browser.Registration, error) {
	return &terminalRegistration{platform: p}, nil
}

type terminalRegistration struct {
	platform *terminalPlatform
	active   *model.Subscription
}

func (r *terminalRegistration) Subscription(context.Context) (*model.Subscription, error) {
	return r.active, nil
}

func (r *terminalRegistration) Subscribe(_ context.Context, applicationServerKey []byte) (model.Subscription, error) {
	if len(applicationServerKey) != 65 {
		return model.Subscription{}, fmt.Errorf("server key has %d bytes, want 65", len(applicationServerKey))
	}
	p256dh, auth := r.platform.p256dh, r.platform.auth
	if p256dh == "" {
		key, err := ecdh.P256().GenerateKey(rand.Reader)
		if err != nil {
			return model.Subscription{}, err
		}
		p256dh = base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes())
	}
	if auth == "" {
		secret := make([]byte, 16)
		if _, err := rand.Read(secret); err != nil {
			return model.Subscription{}, err
		}
		auth = base64.RawURLEncoding.EncodeToString(secret)
	}
	sub := model.Subscription{
		Endpoint: r.platform.endpoint,
		Keys:     model.SubscriptionKeys{P256dh: p256dh, Auth: auth},
	}
	r.active = &sub
	return sub, nil
}

func (r *terminalRegistration) Unsubscribe(context.Context) error {
	r.active = nil
	return nil
}

// previewPlatform prints what the service worker would ask the browser to do.
type previewPlatform struct {
	out    io.Writer
	origin string
	last   worker.Notification
}

func (p *previewPlatform) SkipWaiting(context.Context) error  { return nil }
func (p *previewPlatform) ClaimClients(context.Context) error { return nil }

func (p *previewPlatform) ShowNotification(_ context.Context, n worker.Notification) error {
	p.last = n
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}

func (p *previewPlatform) CloseNotification(_ context.Context, n worker.Notification) error {
	_, err := fmt.Fprintf(p.out, "close %q\n", n.Title)
	return err
}

func (p *previewPlatform) MatchWindows(context.Context) ([]worker.WindowClient, error) {
	return nil, nil
}

func (p *previewPlatform) Focus(_ context.Context, w worker.WindowClient) error {
	_, err := fmt.Fprintf(p.out, "focus %s\n", w.URL)
	return err
}

func (p *previewPlatform) OpenWindow(_ context.Context, url string) error {
	_, err := fmt.Fprintf(p.out, "open %s\n", url)
	return err
}

func (p *previewPlatform) Origin() string { return p.origin }
