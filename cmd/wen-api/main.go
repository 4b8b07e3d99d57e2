package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/api"
	"github.com/wenlabs/wentracker/internal/biz/repo"
	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/conf"
	"github.com/wenlabs/wentracker/internal/data"
	"github.com/wenlabs/wentracker/internal/infra/farcaster"
	"github.com/wenlabs/wentracker/internal/service"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := conf.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if !cfg.Debug {
		log = log.Level(zerolog.InfoLevel)
	}

	// Credentials arrive with each dashboard request, so the factory
	// builds a fresh tracker per call instead of holding one client.
	factory := service.TrackerFactory(func(token string) *service.TrackerService {
		client := farcaster.NewClient(token, log)
		fetchUC := usecase.NewFetchUsecase(client, log)
		analyzeUC := usecase.NewAnalyzeUsecase(log)
		return service.NewTrackerService(fetchUC, analyzeUC, log)
	})

	var history repo.HistoryRepo
	if cfg.History.DBPath != "" {
		h, err := data.NewHistoryRepo(cfg.History.DBPath)
		if err != nil {
			log.Warn().Err(err).Msg("snapshot history unavailable")
		} else {
			history = h
			defer h.Close()
			log.Info().Str("path", cfg.History.DBPath).Msg("snapshot history enabled")
		}
	}

	srv := api.NewServer(factory, history, cfg.Server.Port, log)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutting down")
		if err := srv.Stop(); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("dashboard API listening")
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
