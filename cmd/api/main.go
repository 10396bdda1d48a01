package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"istanbul-news/internal/cache"
	"istanbul-news/internal/handler/http/requestid"
	"istanbul-news/internal/infra/feed"
	"istanbul-news/internal/infra/scraper"
	"istanbul-news/internal/observability/logging"
	"istanbul-news/internal/usecase/aggregate"
	"istanbul-news/pkg/config"

	hhttp "istanbul-news/internal/handler/http"
	himg "istanbul-news/internal/handler/http/img"
	hnews "istanbul-news/internal/handler/http/news"
)

func main() {
	logger := initLogger()
	version := getVersion()

	handler := setupServer(logger, version)
	runServer(logger, handler, version)
}

// initLogger initializes the structured logger and installs it as default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

// setupServer wires the aggregation pipeline and returns the HTTP handler
// with all routes and middleware.
func setupServer(logger *slog.Logger, version string) http.Handler {
	scrapeCfg, err := scraper.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load scrape configuration", slog.Any("error", err))
		os.Exit(1)
	}

	resultCache := cache.New(cache.Config{
		TTL: config.GetEnvDuration("CACHE_TTL", cache.DefaultTTL),
	})

	feedClient := &http.Client{
		Timeout: config.GetEnvDuration("FEED_FETCH_TIMEOUT", feed.DefaultTimeout),
	}
	fetcher := feed.NewGoogleNewsFetcher(feedClient)
	enricher := scraper.NewImageScraper(scrapeCfg)

	service := aggregate.NewService(fetcher, enricher, resultCache, aggregate.Config{
		EnrichLimit:          config.GetEnvInt("ENRICH_LIMIT", aggregate.DefaultConfig().EnrichLimit),
		MaxConcurrentScrapes: config.GetEnvInt("MAX_CONCURRENT_SCRAPES", aggregate.DefaultConfig().MaxConcurrentScrapes),
	}, logger)

	imgClient := &http.Client{
		Timeout: config.GetEnvDuration("IMG_PROXY_TIMEOUT", himg.DefaultTimeout),
	}

	mux := setupRoutes(service, imgClient, version, logger)
	return applyMiddleware(logger, mux)
}

// setupRoutes registers all HTTP routes.
func setupRoutes(service *aggregate.Service, imgClient *http.Client, version string, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	hnews.Register(mux, hnews.NewHandler(service, logger))
	himg.Register(mux, himg.NewHandler(imgClient, logger))

	health := &hhttp.HealthHandler{Version: version}
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /live", health.Live)
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// フロントエンドの単一ページ
	staticDir := config.GetEnvString("STATIC_DIR", "static")
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	})

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: CORS → Request ID → Rate Limit → Recovery → Logging → Body Limit → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	rateLimit := config.GetEnvInt("RATE_LIMIT", 120)
	rateWindow := config.GetEnvDuration("RATE_WINDOW", time.Minute)
	limiter := hhttp.NewRateLimiter(rateLimit, rateWindow)

	// Apply in reverse order (innermost to outermost)
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = limiter.Limit(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.CORS(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("SERVER_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
