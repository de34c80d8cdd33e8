package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"reviewhub/internal/feed"
	"reviewhub/internal/httpmw"
	"reviewhub/internal/logging"
	"reviewhub/internal/metrics"
	"reviewhub/internal/reviews"
	"reviewhub/pkg/config"
	"reviewhub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "text")
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	gin.SetMode(cfg.Server.GinMode)

	db := database.MustOpen(database.Config{Path: cfg.Database.Path})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	m := metrics.New()
	hub := feed.NewHub()
	hub.OnChange = m.FeedClientsChanged

	router := newRouter(db, hub, m, clockwork.NewRealClock(), cfg.Database.Path)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("db", cfg.Database.Path).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Websocket connections are hijacked and not tracked by Shutdown.
	hub.Close()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("server stopped")
}

func newRouter(db *sql.DB, hub *feed.Hub, m *metrics.Metrics, clock clockwork.Clock, dbPath string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), httpmw.RequestID(), httpmw.Logger(), m.Middleware())

	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbPath})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":       "not_ready",
				"db_error":     err.Error(),
				"feed_clients": stats.Clients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "ready",
			"db":           "ok",
			"feed_clients": stats.Clients,
		})
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/reviews/ws", feed.WSHandler(hub))

	api := router.Group("/")
	api.Use(database.Session(db))
	reviews.NewHandler(clock, hub, m).RegisterRoutes(api)

	return router
}
