package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/hostaway"
	server "github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/http_server"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/observability"
	redisad "github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/redis"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/app"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/shared"
	filestore "github.com/chiedozie07/flex-reviews-dashboard/internal/storage/file"
	mysqlstore "github.com/chiedozie07/flex-reviews-dashboard/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// review sources: live API when credentialed, the mock document as
	// fallback (or as the only source without credentials)
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

	// approval store
	var store domain.ApprovalStore
	switch cfg.StoreBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		repo := mysqlstore.New(db)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("approvals migration failed")
		}
		store = repo
		log.Info().Msg("approval store: mysql")
	default:
		store = filestore.New(cfg.ApprovalFile)
		log.Info().Str("path", cfg.ApprovalFile).Msg("approval store: file")
	}

	// cache
	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable; running without cache")
	} else {
		cache = rc
	}

	svc := app.NewDashboardService(primary, secondary, store, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
