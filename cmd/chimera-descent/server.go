package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/logging"
)

const shutdownGrace = 10 * time.Second

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	logging.Info("Server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

// startReaper periodically abandons battles with no recent commands.
func startReaper(ctx context.Context, svc interface {
	ReapIdle(context.Context, time.Time) int
}, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := svc.ReapIdle(ctx, now); n > 0 {
				logging.Info("idle battles reaped", logging.Fields{"count": n})
			}
		}
	}
}
