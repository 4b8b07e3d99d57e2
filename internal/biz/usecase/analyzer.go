package usecase

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
)

// AnalyzeOptions control filtering around the pattern match.
// The canonical order is match-then-filter-then-recompute: the rolling
// window drops already-matched messages and the total is recomputed
// from the survivors.
type AnalyzeOptions struct {
	// Window, when set, drops matched messages older than the rolling
	// window's lower bound after matching
	Window *domain.TimeWindow
	// TodayOnly restricts the input set to the current UTC calendar
	// day before matching
	TodayOnly bool
}

// AnalyzeUsecase turns a fetched batch into aggregate WEN statistics
type AnalyzeUsecase struct {
	log zerolog.Logger
	now func() time.Time
}

// NewAnalyzeUsecase creates a new analyze usecase
func NewAnalyzeUsecase(log zerolog.Logger) *AnalyzeUsecase {
	return &AnalyzeUsecase{
		log: log.With().Str("component", "analyzer").Logger(),
		now: time.Now,
	}
}

// Analyze filters and aggregates a batch against the options. All
// timestamp arithmetic happens in integer milliseconds; formatted
// strings never feed back into filtering.
func (uc *AnalyzeUsecase) Analyze(batch *domain.FetchBatch, opts AnalyzeOptions) *domain.AnalysisResult {
	now := uc.now()
	messages := batch.Messages

	if opts.TodayOnly {
		lb := domain.CalendarDayUTC().LowerBoundMs(now)
		kept := make([]domain.Message, 0, len(messages))
		for _, m := range messages {
			if m.TimestampMs >= lb {
				kept = append(kept, m)
			}
		}
		uc.log.Debug().Int("before", len(messages)).Int("after", len(kept)).Msg("filtered to today only")
		messages = kept
	}

	timeRange := domain.NewTimeRange(messages)

	var matched []domain.MatchResult
	for _, m := range messages {
		if !m.IsText() {
			continue
		}
		count, found := domain.CountWenMatches(m.Body)
		if count == 0 {
			continue
		}
		result := domain.MatchResult{
			MessageID:         m.ID,
			SenderID:          m.SenderID,
			SenderDisplayName: m.SenderDisplayName,
			SenderUsername:    m.SenderUsername,
			Text:              m.Body,
			Count:             count,
			Matches:           found,
			TimestampMs:       m.TimestampMs,
		}
		if m.TimestampMs != 0 {
			result.TimestampFormatted = domain.FormatTimestampMs(m.TimestampMs)
		} else {
			result.TimestampFormatted = "Unknown"
		}
		matched = append(matched, result)
	}

	if opts.Window != nil {
		lb := opts.Window.LowerBoundMs(now)
		kept := make([]domain.MatchResult, 0, len(matched))
		for _, r := range matched {
			if r.TimestampMs >= lb {
				kept = append(kept, r)
			}
		}
		matched = kept
	}

	// Total is recomputed from the post-filter set so the invariant
	// totalMatchCount == sum(count) always holds.
	total := 0
	for _, r := range matched {
		total += r.Count
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TimestampMs > matched[j].TimestampMs
	})

	return &domain.AnalysisResult{
		TotalMessages:     len(messages),
		MessagesWithMatch: len(matched),
		TotalMatchCount:   total,
		TimeSpan:          timeRange.TimeSpan,
		TimeRange:         timeRange,
		MatchedMessages:   matched,
	}
}
