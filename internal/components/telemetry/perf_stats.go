package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const DefaultPerfStatsInterval = 30 * time.Second

type perfSampler struct {
	cpu        metric.Float64Gauge
	heapMB     metric.Int64Gauge
	objects    metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func newPerfSampler() (perfSampler, error) {
	meter := otel.Meter("hltvminer/perf_stats")

	var s perfSampler
	var err error
	if s.cpu, err = meter.Float64Gauge("cpu_usage"); err != nil {
		return s, err
	}
	if s.heapMB, err = meter.Int64Gauge("heap_alloc_mb"); err != nil {
		return s, err
	}
	if s.objects, err = meter.Int64Gauge("live_objects"); err != nil {
		return s, err
	}
	if s.goroutines, err = meter.Int64Gauge("goroutines"); err != nil {
		return s, err
	}
	return s, nil
}

func (s perfSampler) sample(ctx context.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	s.heapMB.Record(ctx, int64(mem.HeapAlloc/1_000_000))
	s.objects.Record(ctx, int64(mem.Mallocs-mem.Frees))
	s.goroutines.Record(ctx, int64(runtime.NumGoroutine()))

	usage, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		slog.Debug("read cpu usage", "err", err.Error())
		return
	}
	if len(usage) > 0 {
		s.cpu.Record(ctx, usage[0])
	}
}

// InstrumentPerfStats samples process stats into gauges every interval in
// the background until ctx is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPerfStatsInterval
	}
	sampler, err := newPerfSampler()
	if err != nil {
		slog.Warn("failed to create perf stats gauges", "err", err.Error())
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sampler.sample(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
