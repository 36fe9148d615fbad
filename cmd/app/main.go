// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-companion-bot/internal/application"
	"discord-companion-bot/internal/config"
	"discord-companion-bot/internal/domain/ports/adapter"
	aiAdapters "discord-companion-bot/internal/infra/adapters/ai"
	dis "discord-companion-bot/internal/infra/adapters/discord"
	"discord-companion-bot/internal/infra/clients"
	pg "discord-companion-bot/internal/infra/db/postgres"
	"discord-companion-bot/internal/infra/logging"
	"discord-companion-bot/internal/infra/metrics"
	red "discord-companion-bot/internal/infra/redis"
	"discord-companion-bot/internal/infra/sched"
	"discord-companion-bot/internal/infra/web"
	"discord-companion-bot/internal/infra/worker"
	"discord-companion-bot/internal/usecase"
)

// Overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient, cfg.AI.RatePerMinute, time.Minute)
	quoteCache := red.NewQuoteCache(redisClient, cfg.Stocks.QuoteTTL)

	// ---- Repositories ----
	mediaRepo := pg.NewMediaRepo(pool)
	stockRepo := pg.NewStockRepo(pool)
	prefsRepo := pg.NewPrefsRepo(pool)
	noteLog := pg.NewNotificationLogRepo(pool)

	// ---- External API clients ----
	tmdb := clients.NewTMDBClient(cfg.TMDB.APIKey)
	yahoo := clients.NewYahooFinanceClient()
	weather := clients.NewOpenWeatherClient(cfg.Weather.OpenWeatherMapKey)

	// AlphaVantage first when a key is configured, Yahoo as fallback.
	var providers []adapter.QuoteProvider
	if cfg.Stocks.AlphaVantageKey != "" {
		providers = append(providers, clients.NewAlphaVantageClient(cfg.Stocks.AlphaVantageKey))
	}
	providers = append(providers, yahoo)

	// ---- AI adapter ----
	var ai adapter.AIServiceAdapter
	switch cfg.AI.Provider {
	case "openai":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.PrimaryModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.PrimaryModel).Msg("AI adapter: OpenAI")
	default:
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.PrimaryModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		logger.Info().Str("model", cfg.AI.PrimaryModel).Msg("AI adapter: Gemini")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Use cases ----
	convUC := usecase.NewConversationUseCase(ai, cfg.AI.PrimaryModel, cfg.AI.FallbackModel, cfg.AI.RequestTimeout, logger)
	mediaUC := usecase.NewMediaUseCase(tmdb, mediaRepo, noteLog, logger)
	stockUC := usecase.NewStockUseCase(providers, yahoo, quoteCache, stockRepo, logger)
	prefsUC := usecase.NewPrefsUseCase(weather, prefsRepo, logger)

	// ---- Facade & Discord bot ----
	facade := application.NewBotFacade(convUC, mediaUC, stockUC, prefsUC)
	bot, err := dis.NewRealDiscordBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}
	go func() {
		if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("discord gateway stopped")
		}
	}()

	// ---- Background workers ----
	dispatchPool := worker.NewPool(8, logger)
	dispatchPool.Start(ctx)
	dispatcher := sched.NewDispatcher(bot, prefsRepo, dispatchPool, *logger)

	go func() { _ = sched.NewEpisodeWorker(cfg.Scheduler.EpisodeInterval, mediaUC, dispatcher, logger).Run(ctx) }()
	go func() { _ = sched.NewMovieWorker(cfg.Scheduler.MovieInterval, mediaUC, dispatcher, logger).Run(ctx) }()
	go func() { _ = sched.NewStockAlertWorker(cfg.Stocks.AlertInterval, stockUC, dispatcher, logger).Run(ctx) }()
	go func() { _ = sched.NewWeatherWorker(prefsUC, dispatcher, logger).Run(ctx) }()
	go func() {
		_ = sched.NewSessionSweeper(cfg.Scheduler.SweepInterval, cfg.AI.SessionMaxIdle, convUC, logger).Run(ctx)
	}()

	// ---- Dashboard ----
	auth := web.NewAuthManager(cfg.Dashboard.JWTSecret, cfg.Dashboard.SecureCookie, cfg.Dashboard.CookieDomain, cfg.Dashboard.SessionTTL)
	oauth := web.NewOAuthFlow(cfg.Dashboard)
	dash := web.NewServer(mediaUC, stockUC, prefsUC, auth, oauth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Dashboard.Port),
		Handler: dash.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("dashboard listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("dashboard server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("dashboard shutdown")
	}
	bot.Stop()
	dispatchPool.Stop()
}
