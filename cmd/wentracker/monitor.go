package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/conf"
	"github.com/wenlabs/wentracker/internal/data"
	"github.com/wenlabs/wentracker/internal/infra/farcaster"
	"github.com/wenlabs/wentracker/internal/service"
)

func newMonitorCmd() *cobra.Command {
	var (
		intervalStr string
		mode        string
		maxPages    int
		targetHours int
		today       bool
		noHistory   bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Live WEN tracking on a polling cadence",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conf.LoadFromEnv()
			if err != nil {
				return err
			}
			url, token, err := resolveEndpoint(cfg)
			if err != nil {
				return err
			}

			interval := cfg.Monitor.Interval
			if intervalStr != "" {
				interval, err = conf.ParseInterval(intervalStr)
				if err != nil {
					return err
				}
			}

			// Flags win over the environment; validate the effective
			// configuration once, before the loop starts.
			cfg.API.URL, cfg.API.Token = url, token
			cfg.Fetch.Mode = mode
			cfg.Fetch.MaxPages = maxPages
			cfg.Fetch.TargetHours = targetHours
			cfg.Fetch.TodayOnly = today
			cfg.Monitor.Interval = interval
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := newLogger(flagDebug || cfg.Debug)
			if interval < 10*time.Second {
				log.Warn().Msg("intervals under 10 seconds may hit API rate limits")
			}
			if interval > 24*time.Hour {
				log.Warn().Msg("intervals over 24 hours might not be very useful")
			}

			dbPath := cfg.History.DBPath
			if noHistory {
				dbPath = ""
			}
			client := farcaster.NewClient(token, log)
			repos, err := data.NewRepositories(client, dbPath)
			if err != nil {
				log.Warn().Err(err).Msg("snapshot history disabled")
				repos = &data.Repositories{Source: client}
			}
			if repos.History != nil {
				defer repos.History.Close()
			}

			tracker := service.NewTrackerService(
				usecase.NewFetchUsecase(repos.Source, log),
				usecase.NewAnalyzeUsecase(log),
				log,
			)
			mon := service.NewMonitor(tracker, service.TrackRequest{
				Mode:        usecase.FetchMode(mode),
				URL:         url,
				MaxPages:    maxPages,
				TargetHours: targetHours,
				TodayOnly:   today,
			}, interval, service.NewConsoleReporter(cmd.OutOrStdout()), repos.History, log)

			// Two-tier shutdown: the first signal requests a
			// cooperative stop, a second one terminates immediately.
			sigCh := make(chan os.Signal, 2)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Fprintln(os.Stderr, "\nMonitor stopping...")
				mon.RequestStop()
				<-sigCh
				fmt.Fprintln(os.Stderr, "Forced shutdown")
				os.Exit(1)
			}()

			return mon.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&intervalStr, "interval", "i", "", "Update interval, e.g. 30s, 5m, 2h (default 5m or WEN_POLL_INTERVAL)")
	cmd.Flags().StringVar(&mode, "mode", "single", "Fetch mode per tick: single, recent or all")
	cmd.Flags().IntVar(&maxPages, "max-pages", 5, "Maximum pages per tick in recent mode")
	cmd.Flags().IntVar(&targetHours, "target-hours", 24, "Hours to look back in recent mode")
	cmd.Flags().BoolVar(&today, "today", false, "Restrict each tick to the current UTC calendar day")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Disable the snapshot history store")

	return cmd
}
