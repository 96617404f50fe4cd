package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taxifleet/api"
	"taxifleet/config"
	"taxifleet/pkg/auth"
	"taxifleet/pkg/bot"
	"taxifleet/pkg/logger"
	"taxifleet/service"
	"taxifleet/storage/factory"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Storage
	stg, err := factory.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", logger.String("driver", cfg.DBDriver), logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	// 4. Initialize Admin Bot (optional)
	opts := service.Options{PaginateBy: cfg.PaginateBy}
	var adminBot *bot.Bot
	if cfg.AdminBotToken != "" {
		adminBot, err = bot.New(&cfg, nil, log)
		if err != nil {
			log.Error("failed to initialize admin bot", logger.Error(err))
			os.Exit(1)
		}
		opts.Notifier = adminBot
	}

	// 5. Initialize Services
	svc := service.New(stg, log, opts)
	if adminBot != nil {
		adminBot.Svc = svc
	}

	// 6. Initialize HTTP Router
	router, err := api.New(svc, log, api.Options{
		Tokens:     auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL),
		CookieName: cfg.SessionCookie,
	})
	if err != nil {
		log.Error("failed to build router", logger.Error(err))
		os.Exit(1)
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Run bot and server in parallel goroutines
	botDone := make(chan struct{})
	if adminBot != nil {
		go adminBot.Run(ctx)
		go func() {
			defer close(botDone)
			log.Info("admin bot is starting...")
			adminBot.Serve(ctx)
		}()
	} else {
		close(botDone)
	}

	go func() {
		log.Info("🚀 taxifleet is listening", logger.String("addr", srv.Addr), logger.String("db", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", logger.Error(err))
			stop()
		}
	}()

	// 8. Graceful Shutdown
	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", logger.Error(err))
	}
	select {
	case <-botDone:
	case <-shutdownCtx.Done():
		log.Error("admin bot did not stop in time")
	}
}
