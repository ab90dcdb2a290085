package memory

import (
	"sync"

	"go.uber.org/zap"
	"webpush_demo/internal/model"
)

// Store keeps subscriptions in process memory, keyed by endpoint.
// order preserves registration order so snapshots are stable between mutations.
type Store struct {
	mu      sync.RWMutex
	records map[string]model.Subscription
	order   []string
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{records: make(map[string]model.Subscription), log: logger}
}
