package rabbitmq

import (
	"maps"
	"slices"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpHeaderCarrier exposes message headers to the otel propagator. Only
// string and byte values are trace context; other header types read as
// absent.
type amqpHeaderCarrier amqp.Table

func (c amqpHeaderCarrier) Get(key string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func (c amqpHeaderCarrier) Set(key, value string) {
	c[key] = value
}

// Keys returns the header names in sorted order.
func (c amqpHeaderCarrier) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}
