package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"webpush_demo/internal/config"
)

func TestNormalizeOTLPEndpoint(t *testing.T) {
	cases := map[string]string{
		"collector:4317":               "collector:4317",
		"http://collector:4317":        "collector:4317",
		"https://otel.example.com/v1/": "otel.example.com",
	}
	for raw, want := range cases {
		got, err := normalizeOTLPEndpoint(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got)
	}

	_, err := normalizeOTLPEndpoint("http://")
	require.Error(t, err)
}

func TestInitWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), &config.Config{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, span := Tracer("test").Start(context.Background(), "noop")
	span.End()
}
