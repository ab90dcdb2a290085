package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"webpush_demo/internal/http/dto"
	"webpush_demo/internal/model"
)

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/stats", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.StatsResponse{TotalSubscriptions: 3, VAPIDPublicKey: "BKey"})
	}))
	defer srv.Close()

	stats, err := New(srv.URL + "/").Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalSubscriptions)
	require.Equal(t, "BKey", stats.VAPIDPublicKey)
}

func TestSubscribe(t *testing.T) {
	var got model.Subscription
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/subscribe", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: "ok"})
	}))
	defer srv.Close()

	sub := model.Subscription{Endpoint: "https://x/1", Keys: model.SubscriptionKeys{P256dh: "k1", Auth: "a1"}}
	require.NoError(t, New(srv.URL).Subscribe(context.Background(), sub))
	require.Equal(t, sub, got)
}

func TestUnsubscribeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.UnsubscribeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "https://x/missing", req.Endpoint)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "Subscription não encontrada"})
	}))
	defer srv.Close()

	err := New(srv.URL).Unsubscribe(context.Background(), "https://x/missing")
	require.Error(t, err)
	require.True(t, IsNotFound(err))
	require.Contains(t, err.Error(), "HTTP 404: Subscription não encontrada")
}

func TestSendNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.SendNotificationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "T", req.Title)
		_ = json.NewEncoder(w).Encode(dto.SendNotificationResponse{
			Message:            "Notificações enviadas: 1 sucesso, 0 falhas",
			Results:            []model.DeliveryResult{{Success: true, Index: 0}},
			TotalSubscriptions: 1,
		})
	}))
	defer srv.Close()

	out, err := New(srv.URL).SendNotification(context.Background(), Notification{Title: "T", Body: "B"})
	require.NoError(t, err)
	require.Equal(t, 1, out.TotalSubscriptions)
	require.Len(t, out.Results, 1)
	require.True(t, out.Results[0].Success)
}

func TestPublishNotificationPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).PublishNotification(context.Background(), Notification{})
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusBadGateway))
	require.Contains(t, err.Error(), "upstream down")
}
