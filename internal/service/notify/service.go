package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/metrics"
	"webpush_demo/internal/model"
	"webpush_demo/internal/push"
	"webpush_demo/internal/repository"
	"webpush_demo/internal/sse"
	"webpush_demo/internal/telemetry"
)

type Service struct {
	store   repository.SubscriptionRepository
	sender  push.Sender
	keys    push.Keys
	hub     *sse.Hub
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store repository.SubscriptionRepository, sender push.Sender, keys push.Keys, hub *sse.Hub, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		sender:  sender,
		keys:    keys,
		hub:     hub,
		metrics: m,
		log:     logger,
		now:     time.Now,
	}
}

func (s *Service) PublicKey() string {
	return s.keys.PublicKey
}

// Subscribe registers sub, replacing any entry with the same endpoint.
// It reports whether the endpoint was new.
func (s *Service) Subscribe(ctx context.Context, sub model.Subscription) (bool, error) {
	if err := domain.ValidateSubscription(sub); err != nil {
		return false, err
	}
	created, err := s.store.UpsertSubscription(ctx, sub)
	if err != nil {
		s.log.Error("store upsert subscription failed", zap.String("endpoint", push.TruncateEndpoint(sub.Endpoint)), zap.Error(err))
		return false, err
	}
	if created {
		s.log.Info("subscription registered", zap.String("endpoint", push.TruncateEndpoint(sub.Endpoint)))
	} else {
		s.log.Info("subscription updated", zap.String("endpoint", push.TruncateEndpoint(sub.Endpoint)))
	}
	s.publishStats(ctx)
	return created, nil
}

func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	if err := domain.ValidateEndpoint(endpoint); err != nil {
		return err
	}
	if err := s.store.RemoveSubscription(ctx, endpoint); err != nil {
		return err
	}
	s.log.Info("subscription removed", zap.String("endpoint", push.TruncateEndpoint(endpoint)))
	s.publishStats(ctx)
	return nil
}

func (s *Service) Stats(ctx context.Context) (model.StatsSnapshot, error) {
	count, err := s.store.CountSubscriptions(ctx)
	if err != nil {
		s.log.Error("store count subscriptions failed", zap.Error(err))
		return model.StatsSnapshot{}, err
	}
	return model.StatsSnapshot{TotalSubscriptions: count, VAPIDPublicKey: s.keys.PublicKey}, nil
}

// Broadcast delivers one payload to every subscription held at call time.
// Deliveries run concurrently and independently; subscriptions whose push
// service answered 410 are pruned once all of them have settled.
func (s *Service) Broadcast(ctx context.Context, req model.BroadcastRequest) (model.BroadcastResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ctx, span := telemetry.Tracer("notify").Start(ctx, "notify.broadcast")
	span.SetAttributes(attribute.String("broadcast.id", req.ID))
	defer span.End()

	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list subscriptions failed")
		s.log.Error("store list subscriptions failed", zap.String("broadcast_id", req.ID), zap.Error(err))
		return model.BroadcastResult{}, err
	}
	if len(subs) == 0 {
		s.metrics.Broadcasts.WithLabelValues("no_recipients").Inc()
		span.SetStatus(codes.Error, "no recipients")
		return model.BroadcastResult{}, domain.ErrNoRecipients
	}
	span.SetAttributes(attribute.Int("broadcast.recipients", len(subs)))

	payload, err := json.Marshal(domain.BuildPayload(req, s.now()))
	if err != nil {
		span.RecordError(err)
		return model.BroadcastResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	started := s.now()
	results, gone := s.fanOut(context.WithoutCancel(ctx), req.ID, subs, payload)
	s.metrics.FanOut.Observe(s.now().Sub(started).Seconds())

	result := model.BroadcastResult{ID: req.ID, Results: results}
	for _, r := range results {
		if r.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	if len(gone) > 0 {
		pruned, err := s.store.PruneSubscriptions(ctx, gone)
		if err != nil {
			s.log.Error("store prune subscriptions failed", zap.String("broadcast_id", req.ID), zap.Error(err))
		}
		result.Pruned = pruned
		s.metrics.Pruned.Add(float64(pruned))
	}

	total, err := s.store.CountSubscriptions(ctx)
	if err != nil {
		s.log.Error("store count subscriptions failed", zap.String("broadcast_id", req.ID), zap.Error(err))
		return model.BroadcastResult{}, err
	}
	result.TotalSubscriptions = total
	result.CompletedAt = s.now().UTC()

	s.metrics.Broadcasts.WithLabelValues("completed").Inc()
	span.SetAttributes(
		attribute.Int("broadcast.succeeded", result.Succeeded),
		attribute.Int("broadcast.failed", result.Failed),
		attribute.Int("broadcast.pruned", result.Pruned),
	)
	s.log.Info("broadcast completed",
		zap.String("broadcast_id", req.ID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int("pruned", result.Pruned),
		zap.Int("total_subscriptions", total),
	)

	s.hub.Publish(model.Event{Type: model.EventTypeBroadcast, Data: result})
	s.publishStats(ctx)
	return result, nil
}

// fanOut returns one result per subscription, in snapshot order, and the
// subscriptions whose endpoints are gone.
func (s *Service) fanOut(ctx context.Context, broadcastID string, subs []model.Subscription, payload []byte) ([]model.DeliveryResult, []model.Subscription) {
	results := make([]model.DeliveryResult, len(subs))
	isGone := make([]bool, len(subs))

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], isGone[i] = s.deliver(ctx, broadcastID, i, sub, payload)
		}()
	}
	wg.Wait()

	var gone []model.Subscription
	for i, g := range isGone {
		if g {
			gone = append(gone, subs[i])
		}
	}
	return results, gone
}

func (s *Service) deliver(ctx context.Context, broadcastID string, index int, sub model.Subscription, payload []byte) (model.DeliveryResult, bool) {
	ctx, span := telemetry.Tracer("notify").Start(ctx, "notify.deliver")
	span.SetAttributes(attribute.Int("delivery.index", index))
	defer span.End()

	status, err := s.sender.Send(ctx, sub, payload)
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if err == nil {
		s.metrics.Deliveries.WithLabelValues(metrics.OutcomeSuccess).Inc()
		s.log.Debug("notification delivered",
			zap.String("broadcast_id", broadcastID),
			zap.Int("index", index),
			zap.Int("status", status),
		)
		return model.DeliveryResult{Success: true, Index: index}, false
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "delivery failed")
	gone := push.IsGone(err)
	outcome := metrics.OutcomeFailed
	if gone {
		outcome = metrics.OutcomeGone
	}
	s.metrics.Deliveries.WithLabelValues(outcome).Inc()
	s.log.Warn("notification delivery failed",
		zap.String("broadcast_id", broadcastID),
		zap.Int("index", index),
		zap.String("endpoint", push.TruncateEndpoint(sub.Endpoint)),
		zap.Int("status", status),
		zap.Bool("gone", gone),
		zap.Error(err),
	)
	return model.DeliveryResult{Success: false, Index: index, Error: err.Error(), StatusCode: status}, gone
}

func (s *Service) publishStats(ctx context.Context) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return
	}
	s.metrics.Subscriptions.Set(float64(stats.TotalSubscriptions))
	s.hub.Publish(model.Event{Type: model.EventTypeStats, Data: stats})
}
