package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/conf"
	"github.com/wenlabs/wentracker/internal/infra/farcaster"
	"github.com/wenlabs/wentracker/internal/service"
)

var (
	flagURL   string
	flagToken string
	flagDebug bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "wentracker",
		Short:        "Count and monitor WEN variations in Farcaster messages",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flagURL, "url", "u", "", "Farcaster conversation-messages API URL (or WEN_API_URL)")
	cmd.PersistentFlags().StringVarP(&flagToken, "token", "t", "", "Bearer token for authentication (or WEN_API_TOKEN)")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newCountCmd())
	cmd.AddCommand(newMonitorCmd())

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveEndpoint merges flags over the environment configuration
func resolveEndpoint(cfg *conf.Config) (url, token string, err error) {
	url = flagURL
	if url == "" {
		url = cfg.API.URL
	}
	token = flagToken
	if token == "" {
		token = cfg.API.Token
	}
	if url == "" || token == "" {
		return "", "", &conf.ConfigError{Field: "url/token", Message: "required (flags or WEN_API_URL/WEN_API_TOKEN)"}
	}
	return url, token, nil
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// buildTracker wires the fetch and analyze usecases around one client
func buildTracker(token string, log zerolog.Logger) *service.TrackerService {
	client := farcaster.NewClient(token, log)
	return service.NewTrackerService(
		usecase.NewFetchUsecase(client, log),
		usecase.NewAnalyzeUsecase(log),
		log,
	)
}
