package memory

import (
	"context"
	"slices"

	"go.uber.org/zap"
	"webpush_demo/internal/domain"
	"webpush_demo/internal/model"
)

func (s *Store) UpsertSubscription(_ context.Context, sub model.Subscription) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.records[sub.Endpoint]
	s.records[sub.Endpoint] = sub
	if exists {
		s.log.Debug("subscription replaced", zap.String("endpoint", sub.Endpoint))
		return false, nil
	}
	s.order = append(s.order, sub.Endpoint)
	s.log.Debug("subscription added", zap.String("endpoint", sub.Endpoint))
	return true, nil
}

func (s *Store) RemoveSubscription(_ context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[endpoint]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	s.removeLocked(endpoint)
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Subscription, 0, len(s.order))
	for _, endpoint := range s.order {
		result = append(result, s.records[endpoint])
	}
	return result, nil
}

func (s *Store) CountSubscriptions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// PruneSubscriptions drops each given subscription unless its endpoint has been
// re-registered with different keys since the caller took its snapshot.
func (s *Store) PruneSubscriptions(_ context.Context, subs []model.Subscription) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, sub := range subs {
		current, ok := s.records[sub.Endpoint]
		if !ok || current.Keys != sub.Keys {
			continue
		}
		s.removeLocked(sub.Endpoint)
		removed++
	}
	return removed, nil
}

func (s *Store) removeLocked(endpoint string) {
	delete(s.records, endpoint)
	if i := slices.Index(s.order, endpoint); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
