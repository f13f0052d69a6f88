package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"jacket-survey/internal/config"
	"jacket-survey/internal/db"
	"jacket-survey/internal/httpserver"
	"jacket-survey/internal/metrics"
	memberrepo "jacket-survey/internal/repository/member"
	recorepo "jacket-survey/internal/repository/recommendation"
	inventorysvc "jacket-survey/internal/service/inventory"
	membersvc "jacket-survey/internal/service/member"
	recommendsvc "jacket-survey/internal/service/recommendation"
	"jacket-survey/internal/upstream"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()
	if cfg.UpstreamBaseURL == "" {
		logger.Fatalf("UPSTREAM_BASE_URL is required")
	}

	ctx := context.Background()
	m := metrics.New()

	var (
		dbpool   *pgxpool.Pool
		mirror   memberrepo.Repository
		recoLogs recorepo.Repository
	)
	if cfg.MirrorEnabled {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		dbpool = pool
		mirror = memberrepo.NewPostgres(pool, logger)
		recoLogs = recorepo.NewPostgres(pool, logger)
	} else {
		logger.Printf("mirror disabled, reports and recommendation history are unavailable")
	}

	client := upstream.New(upstream.Config{
		BaseURL: cfg.UpstreamBaseURL,
		APIKey:  cfg.UpstreamAPIKey,
		Timeout: cfg.UpstreamTimeout,
		Retries: cfg.UpstreamRetries,
	}, logger, m)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		MemberSvc:      membersvc.New(client, mirror, logger, m),
		RecommendSvc:   recommendsvc.New(recoLogs, logger, m),
		InventorySvc:   inventorysvc.New(client),
		Metrics:        m,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
