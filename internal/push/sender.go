package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"webpush_demo/internal/config"
	"webpush_demo/internal/model"
)

const maxErrorBody = 4 << 10

// Sender delivers one encrypted payload to one subscription and returns the
// push service status code.
type Sender interface {
	Send(ctx context.Context, sub model.Subscription, payload []byte) (int, error)
}

// DeliveryError is a non-2xx answer from the push service.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("push service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("push service returned %d: %s", e.StatusCode, e.Body)
}

// IsGone reports whether err says the endpoint no longer exists. Only 410 counts.
func IsGone(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.StatusCode == http.StatusGone
}

type WebPushSender struct {
	keys       Keys
	subscriber string
	ttl        int
	client     webpush.HTTPClient
	log        *zap.Logger
}

func NewSender(cfg *config.Config, keys Keys, logger *zap.Logger) Sender {
	return &WebPushSender{
		keys:       keys,
		subscriber: strings.TrimPrefix(cfg.VAPIDSubject, "mailto:"),
		ttl:        int(cfg.PushTTL / time.Second),
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        logger,
	}
}

// Send may share payload with concurrent calls. The library pads the message
// in place, so each call hands it a private copy.
func (s *WebPushSender) Send(ctx context.Context, sub model.Subscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, bytes.Clone(payload), &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		TTL:             s.ttl,
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "send to %s", TruncateEndpoint(sub.Endpoint))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	s.log.Debug("push service rejected delivery",
		zap.String("endpoint", TruncateEndpoint(sub.Endpoint)),
		zap.Int("status", resp.StatusCode),
	)
	return resp.StatusCode, &DeliveryError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// TruncateEndpoint shortens an endpoint for logs.
func TruncateEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50]
	}
	return endpoint
}
