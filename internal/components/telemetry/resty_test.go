package telemetry

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func retryingClient(spans *tracetest.SpanRecorder, tel API) *resty.Client {
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	client := resty.New().
		SetRetryCount(2).
		SetRetryWaitTime(time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Millisecond).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			return err != nil || res.StatusCode() >= http.StatusInternalServerError
		})
	instrumentResty(client, tel, provider.Tracer("test"))
	return client
}

// requireSiblingSpans asserts every attempt span was ended and none of them
// is the parent of another.
func requireSiblingSpans(t *testing.T, spans *tracetest.SpanRecorder, attempts int) {
	require.Len(t, spans.Started(), attempts)
	ended := spans.Ended()
	require.Len(t, ended, attempts)

	ids := make(map[trace.SpanID]struct{})
	for _, span := range ended {
		ids[span.SpanContext().SpanID()] = struct{}{}
	}
	for _, span := range ended {
		_, nested := ids[span.Parent().SpanID()]
		require.False(t, nested, span.Name())
	}
}

func TestInstrumentRestyRetriedResponses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	spans := tracetest.NewSpanRecorder()
	rec := NewRecorder()
	client := retryingClient(spans, rec)

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	requireSiblingSpans(t, spans, 3)
	requests := 0
	for _, report := range rec.Reports(KindDebug) {
		if report.ID == report_resty_request {
			requests++
			require.Equal(t, uint64(1), report.Params[0])
		}
	}
	require.Equal(t, 3, requests)
}

func TestInstrumentRestyRetriedTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	spans := tracetest.NewSpanRecorder()
	rec := NewRecorder()
	client := retryingClient(spans, rec)

	_, err := client.R().Get(url)
	require.Error(t, err)

	requireSiblingSpans(t, spans, 3)
	require.True(t, rec.Has(KindBroken, report_resty_response))
}
