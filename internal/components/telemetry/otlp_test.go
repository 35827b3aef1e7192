package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "hltvminer-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupUnknownProtocol(t *testing.T) {
	_, err := Setup(context.Background(), "hltvminer-test", Config{
		Traces: Exporter{Endpoint: "http://localhost:4318", Protocol: "udp"},
	})
	require.Error(t, err)
}

func TestAttrs(t *testing.T) {
	pairs := attrs([]any{"id", "x"}, []any{context.Canceled, 12})
	require.Equal(t, []any{"id", "x", "err", "context canceled", "param.1", 12}, pairs)
}

func TestPerfSampler(t *testing.T) {
	sampler, err := newPerfSampler()
	require.NoError(t, err)
	require.NotPanics(t, func() { sampler.sample(context.Background()) })
}
