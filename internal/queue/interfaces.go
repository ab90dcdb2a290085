package queue

import "context"

type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher enqueues an encoded broadcast request. Implementations return
// domain.ErrQueueDisabled when no broker is configured.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}
