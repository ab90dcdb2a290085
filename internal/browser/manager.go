package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type State string

const (
	StateUninitialized      State = "uninitialized"
	StateCheckingSupport    State = "checking-support"
	StateAwaitingPermission State = "awaiting-permission"
	StateRegisteringWorker  State = "registering-worker"
	StateSubscribed         State = "subscribed"
	StateUnsubscribed       State = "unsubscribed"
	StateUnsupported        State = "unsupported"
)

var (
	ErrInsecureContext  = errors.New("push notifications require https or localhost")
	ErrUnsupported      = errors.New("push notifications are not supported")
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrNotReady         = errors.New("subscription manager is not initialized")
	ErrNoServerKey      = errors.New("server public key unavailable")
)

// Manager drives a page's push subscription and keeps the relay in sync.
type Manager struct {
	platform Platform
	api      API
	log      *zap.Logger

	mu                 sync.Mutex
	state              State
	registration       Registration
	publicKey          string
	totalSubscriptions int
}

func NewManager(platform Platform, api API, logger *zap.Logger) *Manager {
	return &Manager{
		platform: platform,
		api:      api,
		log:      logger,
		state:    StateUninitialized,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsSubscribed() bool {
	return m.State() == StateSubscribed
}

// TotalSubscriptions is the relay's count as of the last stats refresh.
func (m *Manager) TotalSubscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalSubscriptions
}

// Init checks support, asks for permission, registers the worker and
// detects an existing subscription. Any failure leaves the manager in
// StateUnsupported.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateCheckingSupport
	if !m.platform.SecureContext() {
		return m.failLocked(ErrInsecureContext)
	}
	if !m.platform.PushSupported() {
		return m.failLocked(ErrUnsupported)
	}

	m.state = StateAwaitingPermission
	permission, err := m.platform.RequestPermission(ctx)
	if err != nil {
		return m.failLocked(fmt.Errorf("request permission: %w", err))
	}
	if permission == PermissionDenied {
		return m.failLocked(ErrPermissionDenied)
	}

	m.state = StateRegisteringWorker
	reg, err := m.platform.RegisterWorker(ctx, WorkerScript)
	if err != nil {
		return m.failLocked(fmt.Errorf("register worker: %w", err))
	}
	m.registration = reg

	existing, err := reg.Subscription(ctx)
	if err != nil {
		return m.failLocked(fmt.Errorf("get subscription: %w", err))
	}

	m.refreshStatsLocked(ctx)
	if existing != nil {
		m.state = StateSubscribed
	} else {
		m.state = StateUnsubscribed
	}
	m.log.Info("push manager ready", zap.String("state", string(m.state)))
	return nil
}

// Subscribe creates a browser subscription bound to the relay's key and
// registers it with the relay. On failure the state is StateUnsubscribed.
func (m *Manager) Subscribe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateSubscribed:
		return nil
	case StateUnsubscribed:
	default:
		return ErrNotReady
	}

	if m.publicKey == "" {
		m.refreshStatsLocked(ctx)
	}
	key, err := DecodeApplicationServerKey(m.publicKey)
	if err != nil {
		return m.revertLocked(err)
	}

	sub, err := m.registration.Subscribe(ctx, key)
	if err != nil {
		return m.revertLocked(fmt.Errorf("push subscribe: %w", err))
	}
	if err := m.api.Subscribe(ctx, sub); err != nil {
		return m.revertLocked(fmt.Errorf("register with server: %w", err))
	}

	m.state = StateSubscribed
	m.refreshStatsLocked(ctx)
	m.log.Info("subscribed", zap.String("endpoint", sub.Endpoint))
	return nil
}

// Unsubscribe cancels the browser subscription and then asks the relay to
// forget it. A relay failure is logged; the local cancellation stands.
func (m *Manager) Unsubscribe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registration == nil {
		return ErrNotReady
	}

	sub, err := m.registration.Subscription(ctx)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if sub != nil {
		if err := m.registration.Unsubscribe(ctx); err != nil {
			return fmt.Errorf("push unsubscribe: %w", err)
		}
		if err := m.api.Unsubscribe(ctx, sub.Endpoint); err != nil {
			m.log.Warn("server unsubscribe failed", zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}

	m.state = StateUnsubscribed
	m.refreshStatsLocked(ctx)
	return nil
}

func (m *Manager) Toggle(ctx context.Context) error {
	if m.IsSubscribed() {
		return m.Unsubscribe(ctx)
	}
	return m.Subscribe(ctx)
}

func (m *Manager) refreshStatsLocked(ctx context.Context) {
	stats, err := m.api.Stats(ctx)
	if err != nil {
		m.log.Warn("load stats failed", zap.Error(err))
		return
	}
	m.publicKey = stats.VAPIDPublicKey
	m.totalSubscriptions = stats.TotalSubscriptions
}

func (m *Manager) failLocked(err error) error {
	m.state = StateUnsupported
	m.log.Warn("push unavailable", zap.Error(err))
	return err
}

func (m *Manager) revertLocked(err error) error {
	m.state = StateUnsubscribed
	m.log.Warn("subscribe failed", zap.Error(err))
	return err
}

// DecodeApplicationServerKey turns a base64url VAPID public key, padded or
// not, into the raw bytes a push subscription is bound to.
func DecodeApplicationServerKey(key string) ([]byte, error) {
	key = strings.TrimRight(strings.TrimSpace(key), "=")
	if key == "" {
		return nil, ErrNoServerKey
	}
	key = strings.NewReplacer("+", "-", "/", "_").Replace(key)
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("decode server key: %w", err)
	}
	return raw, nil
}
