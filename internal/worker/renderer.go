package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/model"
)

type EventType string

const (
	EventInstall           EventType = "install"
	EventActivate          EventType = "activate"
	EventPush              EventType = "push"
	EventNotificationClick EventType = "notificationclick"
	EventNotificationClose EventType = "notificationclose"
)

const (
	DefaultTitle = "Notificação"
	DefaultBody  = "Você recebeu uma nova mensagem!"
	ActionView   = "view"
	ActionClose  = "close"
	Tag          = "push-notification"
)

var vibratePattern = []int{200, 100, 200}

// Event is one worker lifecycle or push event. Data is the raw push
// payload and is nil when the message carried none. Notification and
// Action are set for click and close events.
type Event struct {
	Type         EventType
	Data         []byte
	Notification Notification
	Action       string
}

type handlerFunc func(ctx context.Context, ev Event) error

// Renderer turns push messages into system notifications and handles
// clicks on them. Handle returns once the platform calls it made have
// settled.
type Renderer struct {
	platform Platform
	log      *zap.Logger
	now      func() time.Time
	handlers map[EventType]handlerFunc
}

func NewRenderer(platform Platform, logger *zap.Logger) *Renderer {
	r := &Renderer{platform: platform, log: logger, now: time.Now}
	r.handlers = map[EventType]handlerFunc{
		EventInstall:           r.onInstall,
		EventActivate:          r.onActivate,
		EventPush:              r.onPush,
		EventNotificationClick: r.onClick,
		EventNotificationClose: r.onClose,
	}
	return r
}

func (r *Renderer) Handle(ctx context.Context, ev Event) error {
	h, ok := r.handlers[ev.Type]
	if !ok {
		return fmt.Errorf("unknown worker event %q", ev.Type)
	}
	return h(ctx, ev)
}

func (r *Renderer) onInstall(ctx context.Context, _ Event) error {
	r.log.Debug("worker installed")
	return r.platform.SkipWaiting(ctx)
}

func (r *Renderer) onActivate(ctx context.Context, _ Event) error {
	r.log.Debug("worker activated")
	return r.platform.ClaimClients(ctx)
}

func (r *Renderer) onPush(ctx context.Context, ev Event) error {
	n := r.Render(ev.Data)
	r.log.Debug("push received", zap.String("title", n.Title))
	return r.platform.ShowNotification(ctx, n)
}

// pushMessage is the payload as the worker reads it. Senders other than
// the relay may add an image.
type pushMessage struct {
	model.NotificationPayload
	Image string `json:"image"`
}

// Render builds the notification for a push payload. A missing or
// unreadable payload yields the default message.
func (r *Renderer) Render(data []byte) Notification {
	var p pushMessage
	if len(data) == 0 || json.Unmarshal(data, &p) != nil {
		p = pushMessage{NotificationPayload: model.NotificationPayload{Title: DefaultTitle, Body: DefaultBody}}
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}

	opts := Options{
		Body:  p.Body,
		Icon:  orDefault(p.Icon, domain.DefaultIcon),
		Badge: orDefault(p.Badge, domain.DefaultBadge),
		Image: p.Image,
		Data: NotificationData{
			URL:       orDefault(p.URL, domain.DefaultURL),
			Timestamp: p.Timestamp,
		},
		Actions: []Action{
			{Action: ActionView, Title: "Ver", Icon: domain.DefaultBadge},
			{Action: ActionClose, Title: "Fechar"},
		},
		RequireInteraction: p.RequireInteraction,
		Vibrate:            append([]int(nil), vibratePattern...),
		Tag:                Tag,
	}
	if opts.Data.Timestamp == 0 {
		opts.Data.Timestamp = r.now().UnixMilli()
	}
	return Notification{Title: p.Title, Options: opts}
}

func (r *Renderer) onClick(ctx context.Context, ev Event) error {
	if err := r.platform.CloseNotification(ctx, ev.Notification); err != nil {
		return err
	}
	if ev.Action == ActionClose {
		return nil
	}

	target := orDefault(ev.Notification.Options.Data.URL, domain.DefaultURL)
	windows, err := r.platform.MatchWindows(ctx)
	if err != nil {
		return err
	}
	origin := r.platform.Origin()
	for _, w := range windows {
		if strings.HasPrefix(w.URL, origin) {
			return r.platform.Focus(ctx, w)
		}
	}
	return r.platform.OpenWindow(ctx, target)
}

func (r *Renderer) onClose(_ context.Context, ev Event) error {
	r.log.Debug("notification closed", zap.String("title", ev.Notification.Title))
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
