package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/store"
)

// SignalContext returns a context that is done once SIGINT or SIGTERM is
// received, a second signal kills the process.
func SignalContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}

func openStore(tel telemetry.API) (*store.Store, error) {
	st, err := store.Open(cfg.Database.File, tel)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.File, err)
	}
	return st, nil
}
