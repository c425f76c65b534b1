package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestSetup_DefaultsToNone(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Setup(ctx, Options{ServiceName: "octoscope", ServiceVersion: "test", Getenv: env(nil)})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
}

func TestSetup_Console(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	shutdown, err := Setup(ctx, Options{
		ServiceName: "octoscope",
		Output:      &buf,
		Getenv: env(map[string]string{
			"OTEL_TRACES_EXPORTER":  "console",
			"OTEL_METRICS_EXPORTER": "console",
		}),
	})
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))
}

func TestSetup_Unsupported(t *testing.T) {
	ctx := context.Background()
	_, err := Setup(ctx, Options{Getenv: env(map[string]string{"OTEL_TRACES_EXPORTER": "zipkin"})})
	assert.ErrorContains(t, err, "unsupported OTEL_TRACES_EXPORTER")

	_, err = Setup(ctx, Options{Getenv: env(map[string]string{"OTEL_METRICS_EXPORTER": "otlp"})})
	assert.ErrorContains(t, err, "unsupported OTEL_METRICS_EXPORTER")
}
