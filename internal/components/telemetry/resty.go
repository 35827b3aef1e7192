package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

type restyHooks struct {
	tel    API
	tracer trace.Tracer
	ids    atomic.Uint64
}

// InstrumentResty reports every request and response of client and wraps
// each attempt of a request in a span, retries are sibling spans.
func InstrumentResty(client *resty.Client, tel API) {
	instrumentResty(client, tel, otel.Tracer("hltvminer/resty"))
}

func instrumentResty(client *resty.Client, tel API, tracer trace.Tracer) {
	hooks := &restyHooks{
		tel:    tel,
		tracer: tracer,
	}
	client.OnBeforeRequest(hooks.before)
	client.OnAfterResponse(hooks.after)
	client.OnError(hooks.failed)
}

type requestStateKey struct{}

// requestState is shared by every attempt of one request.
type requestState struct {
	id      uint64
	attempt int
	parent  context.Context
}

func (h *restyHooks) before(_ *resty.Client, req *resty.Request) error {
	state, retry := req.Context().Value(requestStateKey{}).(requestState)
	if retry {
		// the previous attempt failed before a response, ending an already
		// ended span is a no-op
		trace.SpanFromContext(req.Context()).End()
		state.attempt++
	} else {
		state = requestState{id: h.ids.Add(1), parent: req.Context()}
	}

	ctx, _ := h.tracer.Start(
		state.parent,
		"http "+req.Method,
		trace.WithAttributes(
			attribute.String("http.url", req.URL),
			attribute.Int("http.attempt", state.attempt),
		),
	)
	req.SetContext(context.WithValue(ctx, requestStateKey{}, state))
	h.tel.ReportDebug(report_resty_request, state.id, state.attempt, req.Method, req.URL)
	return nil
}

func requestID(req *resty.Request) uint64 {
	state, _ := req.Context().Value(requestStateKey{}).(requestState)
	return state.id
}

func (h *restyHooks) after(_ *resty.Client, res *resty.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	defer span.End()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	h.tel.ReportDebug(
		report_resty_response,
		requestID(res.Request),
		res.Time().String(),
		res.Status(),
	)
	return nil
}

func (h *restyHooks) failed(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")

	var elapsed time.Duration
	if !req.Time.IsZero() {
		elapsed = time.Since(req.Time)
	}
	h.tel.ReportBroken(
		report_resty_response,
		err,
		requestID(req),
		req.Method,
		req.URL,
		elapsed,
	)
}
