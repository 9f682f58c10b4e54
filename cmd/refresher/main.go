package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/hostaway"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/observability"
	redisad "github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/redis"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/app"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/shared"
	filestore "github.com/chiedozie07/flex-reviews-dashboard/internal/storage/file"
)

// One-shot cache warmer: re-reconciles the review payload and primes the
// per-listing keys so property pages read hot.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.HostawayBase).
		Int("workers", cfg.Workers).
		Msg("refresher starting")

	fallback := hostaway.NewFileSource(cfg.MockFile)
	var primary domain.ReviewSource = fallback
	var secondary domain.ReviewSource
	if cfg.AccountID != "" && cfg.APIKey != "" {
		client, err := hostaway.New(cfg.HostawayBase, cfg.AccountID, cfg.APIKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize hostaway client")
		}
		primary, secondary = client, fallback
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis unavailable; nothing to warm")
	}

	svc := app.NewDashboardService(primary, secondary, filestore.New(cfg.ApprovalFile), cache, cfg.CacheTTL)

	summaries, err := svc.RefreshAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("refresh failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, ls := range summaries {
		ls := ls

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(ls domain.ListingSummary) {
			defer wg.Done()
			defer sem.Release(1)

			if err := svc.CacheListing(ctx, ls); err != nil {
				log.Warn().Err(err).Msg("listing warm failed")
				return
			}
			log.Info().Int("reviews", ls.Counts).Msg("listing warmed")
		}(ls)
	}

	wg.Wait()
	log.Info().Int("listings", len(summaries)).Msg("refresh completed")
}
