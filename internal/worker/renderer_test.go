package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/model"
)

type recordingPlatform struct {
	calls   []string
	shown   []Notification
	closed  []Notification
	focused []WindowClient
	opened  []string
	windows []WindowClient
	origin  string
}

func (p *recordingPlatform) SkipWaiting(context.Context) error {
	p.calls = append(p.calls, "skipWaiting")
	return nil
}

func (p *recordingPlatform) ClaimClients(context.Context) error {
	p.calls = append(p.calls, "claim")
	return nil
}

func (p *recordingPlatform) ShowNotification(_ context.Context, n Notification) error {
	p.shown = append(p.shown, n)
	return nil
}

func (p *recordingPlatform) CloseNotification(_ context.Context, n Notification) error {
	p.closed = append(p.closed, n)
	return nil
}

func (p *recordingPlatform) MatchWindows(context.Context) ([]WindowClient, error) {
	return p.windows, nil
}

func (p *recordingPlatform) Focus(_ context.Context, w WindowClient) error {
	p.focused = append(p.focused, w)
	return nil
}

func (p *recordingPlatform) OpenWindow(_ context.Context, url string) error {
	p.opened = append(p.opened, url)
	return nil
}

func (p *recordingPlatform) Origin() string { return p.origin }

func newTestRenderer(p Platform) *Renderer {
	r := NewRenderer(p, zap.NewNop())
	r.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return r
}

func TestLifecycleEvents(t *testing.T) {
	p := &recordingPlatform{}
	r := newTestRenderer(p)

	require.NoError(t, r.Handle(context.Background(), Event{Type: EventInstall}))
	require.NoError(t, r.Handle(context.Background(), Event{Type: EventActivate}))
	require.NoError(t, r.Handle(context.Background(), Event{Type: EventNotificationClose}))
	require.Equal(t, []string{"skipWaiting", "claim"}, p.calls)

	require.Error(t, r.Handle(context.Background(), Event{Type: "sync"}))
}

func TestPushShowsNotification(t *testing.T) {
	p := &recordingPlatform{}
	r := newTestRenderer(p)
	payload, err := json.Marshal(model.NotificationPayload{
		Title:              "T",
		Body:               "B",
		URL:                "https://app.example.test/inbox",
		Timestamp:          42,
		RequireInteraction: true,
	})
	require.NoError(t, err)

	require.NoError(t, r.Handle(context.Background(), Event{Type: EventPush, Data: payload}))
	require.Len(t, p.shown, 1)
	n := p.shown[0]
	require.Equal(t, "T", n.Title)
	require.Equal(t, "B", n.Options.Body)
	require.Equal(t, domain.DefaultIcon, n.Options.Icon)
	require.Equal(t, domain.DefaultBadge, n.Options.Badge)
	require.Empty(t, n.Options.Image)
	require.Equal(t, NotificationData{URL: "https://app.example.test/inbox", Timestamp: 42}, n.Options.Data)
	require.True(t, n.Options.RequireInteraction)
	require.Equal(t, []int{200, 100, 200}, n.Options.Vibrate)
	require.Equal(t, Tag, n.Options.Tag)
	require.Len(t, n.Options.Actions, 2)
	require.Equal(t, ActionView, n.Options.Actions[0].Action)
	require.Equal(t, ActionClose, n.Options.Actions[1].Action)
}

func TestPushCarriesImage(t *testing.T) {
	p := &recordingPlatform{}
	r := newTestRenderer(p)
	data := []byte(`{"title":"Promo","body":"B","image":"https://cdn.example.test/banner.png"}`)

	require.NoError(t, r.Handle(context.Background(), Event{Type: EventPush, Data: data}))
	require.Len(t, p.shown, 1)
	require.Equal(t, "Promo", p.shown[0].Title)
	require.Equal(t, "https://cdn.example.test/banner.png", p.shown[0].Options.Image)
	require.Equal(t, domain.DefaultIcon, p.shown[0].Options.Icon)
}

func TestPushFallsBackToDefaults(t *testing.T) {
	for name, data := range map[string][]byte{
		"absent":     nil,
		"unreadable": []byte("not json"),
	} {
		t.Run(name, func(t *testing.T) {
			p := &recordingPlatform{}
			r := newTestRenderer(p)

			require.NoError(t, r.Handle(context.Background(), Event{Type: EventPush, Data: data}))
			require.Len(t, p.shown, 1)
			require.Equal(t, DefaultTitle, p.shown[0].Title)
			require.Equal(t, DefaultBody, p.shown[0].Options.Body)
			require.Equal(t, domain.DefaultURL, p.shown[0].Options.Data.URL)
			require.Equal(t, int64(1700000000000), p.shown[0].Options.Data.Timestamp)
			require.False(t, p.shown[0].Options.RequireInteraction)
		})
	}
}

func TestNotificationClick(t *testing.T) {
	clicked := Notification{Title: "T", Options: Options{Data: NotificationData{URL: "https://app.example.test/inbox"}}}

	t.Run("close action", func(t *testing.T) {
		p := &recordingPlatform{origin: "https://app.example.test", windows: []WindowClient{{ID: "w1", URL: "https://app.example.test/"}}}
		r := newTestRenderer(p)

		require.NoError(t, r.Handle(context.Background(), Event{Type: EventNotificationClick, Notification: clicked, Action: ActionClose}))
		require.Len(t, p.closed, 1)
		require.Empty(t, p.focused)
		require.Empty(t, p.opened)
	})

	t.Run("focuses same origin window", func(t *testing.T) {
		p := &recordingPlatform{origin: "https://app.example.test", windows: []WindowClient{
			{ID: "other", URL: "https://elsewhere.example.test/"},
			{ID: "app", URL: "https://app.example.test/settings"},
		}}
		r := newTestRenderer(p)

		require.NoError(t, r.Handle(context.Background(), Event{Type: EventNotificationClick, Notification: clicked, Action: ActionView}))
		require.Equal(t, []WindowClient{{ID: "app", URL: "https://app.example.test/settings"}}, p.focused)
		require.Empty(t, p.opened)
	})

	t.Run("opens target url", func(t *testing.T) {
		p := &recordingPlatform{origin: "https://app.example.test"}
		r := newTestRenderer(p)

		require.NoError(t, r.Handle(context.Background(), Event{Type: EventNotificationClick, Notification: clicked}))
		require.Len(t, p.closed, 1)
		require.Equal(t, []string{"https://app.example.test/inbox"}, p.opened)
	})

	t.Run("missing url opens root", func(t *testing.T) {
		p := &recordingPlatform{origin: "https://app.example.test"}
		r := newTestRenderer(p)

		require.NoError(t, r.Handle(context.Background(), Event{Type: EventNotificationClick}))
		require.Equal(t, []string{domain.DefaultURL}, p.opened)
	})
}
