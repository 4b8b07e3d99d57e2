package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/conf"
)

// TrackRequest describes one fetch-and-analyze run
type TrackRequest struct {
	Mode        usecase.FetchMode
	URL         string
	MaxPages    int
	TargetHours int
	TodayOnly   bool
}

// Validate checks the request parameters. Long-running callers run it
// once up front so a bad parameter is fatal before any loop starts.
func (r TrackRequest) Validate() error {
	switch r.Mode {
	case usecase.ModeSingle, usecase.ModeAll:
	case usecase.ModeRecent:
		if r.MaxPages <= 0 {
			return &conf.ConfigError{Field: "max-pages", Message: "recent mode requires a positive page count"}
		}
	default:
		return &conf.ConfigError{Field: "mode", Message: fmt.Sprintf("unknown fetch mode %q", r.Mode)}
	}
	if r.TargetHours < 0 {
		return &conf.ConfigError{Field: "target-hours", Message: "must not be negative"}
	}
	return nil
}

// TrackerFactory builds a tracker bound to one request's credential.
// The dashboard and MCP surfaces receive the bearer token per request,
// so they cannot hold a single pre-authenticated client.
type TrackerFactory func(token string) *TrackerService

// TrackerService is the single fetch+analyze entry point shared by the
// CLI, the dashboard API, the MCP tools and the live monitor
type TrackerService struct {
	fetchUC   *usecase.FetchUsecase
	analyzeUC *usecase.AnalyzeUsecase
	log       zerolog.Logger
}

// NewTrackerService creates a new tracker service
func NewTrackerService(fetchUC *usecase.FetchUsecase, analyzeUC *usecase.AnalyzeUsecase, log zerolog.Logger) *TrackerService {
	return &TrackerService{
		fetchUC:   fetchUC,
		analyzeUC: analyzeUC,
		log:       log.With().Str("component", "tracker").Logger(),
	}
}

// RunOnce fetches messages per the request and analyzes them.
// In recent mode the pagination window doubles as the post-match
// rolling filter unless the today filter replaces it.
func (s *TrackerService) RunOnce(ctx context.Context, req TrackRequest) (*domain.AnalysisResult, error) {
	fetchReq := usecase.FetchRequest{
		Mode:     req.Mode,
		URL:      req.URL,
		MaxPages: req.MaxPages,
	}

	var opts usecase.AnalyzeOptions
	if req.TodayOnly {
		opts.TodayOnly = true
		fetchReq.Window = domain.CalendarDayUTC()
	} else {
		fetchReq.Window = domain.RollingHours(req.TargetHours)
		if req.Mode == usecase.ModeRecent && req.TargetHours > 0 {
			w := domain.RollingHours(req.TargetHours)
			opts.Window = &w
		}
	}

	batch, err := s.fetchUC.Fetch(ctx, fetchReq)
	if err != nil {
		return nil, err
	}

	analysis := s.analyzeUC.Analyze(batch, opts)
	s.log.Info().
		Int("total_messages", analysis.TotalMessages).
		Int("messages_with_match", analysis.MessagesWithMatch).
		Int("total_match_count", analysis.TotalMatchCount).
		Msg("analysis complete")
	return analysis, nil
}
