package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/conf"
	"github.com/wenlabs/wentracker/internal/service"
)

func newCountCmd() *cobra.Command {
	var (
		recent      bool
		all         bool
		today       bool
		asJSON      bool
		verbose     bool
		maxPages    int
		targetHours int
	)

	cmd := &cobra.Command{
		Use:   "count",
		Short: "One-shot WEN count over the conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conf.LoadFromEnv()
			if err != nil {
				return err
			}
			url, token, err := resolveEndpoint(cfg)
			if err != nil {
				return err
			}

			mode := usecase.ModeSingle
			switch {
			case all:
				mode = usecase.ModeAll
			case recent:
				mode = usecase.ModeRecent
			}

			req := service.TrackRequest{
				Mode:        mode,
				URL:         url,
				MaxPages:    maxPages,
				TargetHours: targetHours,
				TodayOnly:   today,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			log := newLogger(flagDebug || cfg.Debug)
			tracker := buildTracker(token, log)

			analysis, err := tracker.RunOnce(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}
			fmt.Fprint(cmd.OutOrStdout(), service.FormatAnalysis(analysis, verbose))
			return nil
		},
	}

	cmd.Flags().BoolVar(&recent, "recent", false, "Paginate until the target window is covered")
	cmd.Flags().BoolVar(&all, "all", false, "Paginate until no more cursor is available")
	cmd.Flags().BoolVar(&today, "today", false, "Restrict to the current UTC calendar day")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed message information")
	cmd.Flags().IntVar(&maxPages, "max-pages", 5, "Maximum pages to fetch with --recent")
	cmd.Flags().IntVar(&targetHours, "target-hours", 24, "Hours to look back with --recent")

	return cmd
}
