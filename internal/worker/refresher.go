package worker

// refresher.go
// Background goroutine that loads both collections at start-up and then
// re-fetches them every interval, so the portal converges on changes made
// outside it. Ticks are skipped while the upstream circuit is open.

import (
	"context"
	"time"

	"stockportal/internal/infra"

	"github.com/rs/zerolog/log"
)

// Refreshable is satisfied by *store.Collections.
type Refreshable interface {
	RefreshAll(ctx context.Context) error
}

// RefresherConfig holds all dependencies for the refresh goroutine.
type RefresherConfig struct {
	Cache    Refreshable
	CB       *infra.CircuitBreaker
	Interval time.Duration // <= 0: initial load only
	// OnError, when set, receives every failed refresh.
	OnError func(error)
}

// StartRefresher performs the initial load and launches the periodic loop. It
// respects the context for graceful shutdown. The returned channel is closed
// when the goroutine exits.
func StartRefresher(ctx context.Context, cfg RefresherConfig) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		refreshOnce(ctx, cfg)
		if cfg.Interval <= 0 {
			log.Info().Msg("refresher: periodic refresh disabled")
			return
		}

		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		log.Info().Dur("interval", cfg.Interval).Msg("refresher: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("refresher: shutting down")
				return
			case <-ticker.C:
				if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
					log.Debug().Msg("refresher: circuit breaker is open, skipping tick")
					continue
				}
				refreshOnce(ctx, cfg)
			}
		}
	}()
	return done
}

func refreshOnce(ctx context.Context, cfg RefresherConfig) {
	start := time.Now()
	if err := cfg.Cache.RefreshAll(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Dur("took", time.Since(start)).Msg("refresher: refresh failed")
		if cfg.OnError != nil {
			cfg.OnError(err)
		}
		return
	}
	log.Debug().Dur("took", time.Since(start)).Msg("refresher: collections refreshed")
}
