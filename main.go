package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/NextechGS/nextech-concierge/config"
	"github.com/NextechGS/nextech-concierge/handlers"
	"github.com/NextechGS/nextech-concierge/models"
	"github.com/NextechGS/nextech-concierge/services"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	jobName := flag.String("job", "", "run a single job to completion and exit")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg.Log.Level)
	log.Info().Strs("repos", cfg.GitHub.Repos).Msg("starting nextech concierge")

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open notification ledger")
	}
	if err := db.AutoMigrate(&models.NotificationRecord{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate notification ledger")
	}

	gh := services.NewGitHubClient(cfg.GitHub.Token)
	notifier := services.NewNotifier(slack.New(cfg.Slack.Token))

	// Dispatchers refuse to send before the directory exists, so the sync
	// has to succeed before anything else runs.
	syncCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := notifier.Sync(syncCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("slack metadata sync failed")
	}
	cancel()

	jobs := &services.Jobs{
		GitHub:   gh,
		DB:       db,
		Notifier: notifier,
		Repos:    cfg.GitHub.Repos,
		BotLogin: cfg.GitHub.BotLogin,
	}

	// One-shot mode for cron-style invocation.
	if *jobName != "" {
		if err := jobs.Run(context.Background(), *jobName); err != nil {
			log.Error().Err(err).Str("job", *jobName).Msg("job failed")
			os.Exit(1)
		}
		log.Info().Str("job", *jobName).Msg("job completed")
		return
	}

	scheduler := services.NewScheduler(jobs, time.Duration(cfg.Jobs.IntervalMinutes)*time.Minute)
	scheduler.Start()

	server := &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: handlers.NewRouter(jobs),
	}
	go func() {
		log.Info().Str("address", cfg.ServerAddress()).Msg("admin server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("admin server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("admin server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
