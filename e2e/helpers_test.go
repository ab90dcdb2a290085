package e2e

import (
	"bufio"
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"webpush_demo/internal/config"
	httpserver "webpush_demo/internal/http"
	"webpush_demo/internal/http/controller"
	"webpush_demo/internal/metrics"
	"webpush_demo/internal/model"
	"webpush_demo/internal/push"
	"webpush_demo/internal/queue"
	"webpush_demo/internal/service/notify"
	"webpush_demo/internal/sse"
	"webpush_demo/internal/store/memory"
)

func ginTestMode() {
	gin.SetMode(gin.TestMode)
}

// pushService stands in for a browser vendor's push endpoint. Paths under
// /gone/ answer 410, everything else 201.
type pushService struct {
	*httptest.Server
	mu       sync.Mutex
	received []string
}

func newPushService(t *testing.T) *pushService {
	t.Helper()
	ps := &pushService{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		ps.mu.Lock()
		ps.received = append(ps.received, r.URL.Path)
		ps.mu.Unlock()
		if strings.HasPrefix(r.URL.Path, "/gone/") {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (p *pushService) Received() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.received...)
}

type relay struct {
	server *httptest.Server
	svc    *notify.Service
	hub    *sse.Hub
}

func newRelay(t *testing.T, cfg *config.Config, publisher queue.Publisher) *relay {
	t.Helper()
	ginTestMode()

	logger := zap.NewNop()
	keys, err := push.NewKeys(cfg, logger)
	require.NoError(t, err)
	hub := sse.NewHub()
	svc := notify.NewService(memory.New(logger), push.NewSender(cfg, keys, logger), keys, hub, metrics.New(), logger)
	handler := controller.NewHandler(cfg, svc, hub, logger, publisher)
	router, err := httpserver.NewRouter(cfg, handler, metrics.New(), logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return &relay{server: server, svc: svc, hub: hub}
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:            ":0",
		VAPIDSubject:        "mailto:ops@example.org",
		PushTTL:             time.Hour,
		SSEHeartbeat:        5 * time.Second,
		RabbitPublishPrefix: "broadcast",
		OTELServiceName:     "webpush-demo-test",
	}
}

func browserSubscription(t *testing.T, endpoint string) model.Subscription {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return model.Subscription{
		Endpoint: endpoint,
		Keys: model.SubscriptionKeys{
			P256dh: base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			Auth:   base64.RawURLEncoding.EncodeToString(auth),
		},
	}
}

func postJSON(t *testing.T, url string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	resp, err := http.Post(url, "application/json", reader)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

type sseEvent struct {
	name string
	data string
}

// readSSEEvent returns the next event frame, skipping comment heartbeats.
func readSSEEvent(reader *bufio.Reader, timeout time.Duration) (sseEvent, error) {
	type result struct {
		event sseEvent
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		var ev sseEvent
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{sseEvent{}, err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ev.data = strings.Join(dataLines, "\n")
					ch <- result{ev, nil}
					return
				}
				continue
			}
			switch {
			case strings.HasPrefix(line, ":"):
			case strings.HasPrefix(line, "event:"):
				ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.event, res.err
	case <-time.After(timeout):
		return sseEvent{}, context.DeadlineExceeded
	}
}
