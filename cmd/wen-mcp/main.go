package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/infra/farcaster"
	"github.com/wenlabs/wentracker/internal/mcp"
	"github.com/wenlabs/wentracker/internal/service"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// stdout carries the MCP protocol, logs must stay on stderr
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	factory := service.TrackerFactory(func(token string) *service.TrackerService {
		client := farcaster.NewClient(token, log)
		fetchUC := usecase.NewFetchUsecase(client, log)
		analyzeUC := usecase.NewAnalyzeUsecase(log)
		return service.NewTrackerService(fetchUC, analyzeUC, log)
	})

	srv := mcp.NewServer(factory)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("wen MCP server running on stdio")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("MCP server error")
	}
}
