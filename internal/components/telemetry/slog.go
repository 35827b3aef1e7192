package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InitSlog installs the default slog handler, verbose enables debug level reports.
func InitSlog(verbose, json bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// SlogAPI implements API using the log/slog package, counts are also
// recorded as otel gauge samples.
type SlogAPI struct {
	counts metric.Int64Gauge
}

func NewSlogAPI() SlogAPI {
	gauge, err := otel.Meter("hltvminer").Int64Gauge("report_count")
	if err != nil {
		slog.Warn("failed to create count gauge", "err", err)
	}
	return SlogAPI{counts: gauge}
}

// attrs turns report params into slog key value pairs, errors are logged
// under "err" and everything else under "param.<n>".
func attrs(pairs []any, params []any) []any {
	for i, p := range params {
		if err, ok := p.(error); ok {
			pairs = append(pairs, "err", err.Error())
			continue
		}
		pairs = append(pairs, fmt.Sprintf("param.%d", i), p)
	}
	return pairs
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken", attrs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", attrs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	slog.Debug(message, attrs(nil, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
	if s.counts == nil {
		return
	}
	s.counts.Record(
		context.Background(),
		count,
		metric.WithAttributes(attribute.String("id", id)),
	)
}
