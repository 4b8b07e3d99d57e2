package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
	"github.com/wenlabs/wentracker/internal/biz/repo"
)

// FetchMode selects a pagination stopping policy
type FetchMode string

const (
	// ModeSingle issues exactly one page request against the caller URL
	ModeSingle FetchMode = "single"
	// ModeRecent follows cursors until the page reaches the target window
	ModeRecent FetchMode = "recent"
	// ModeAll follows cursors until the source stops returning one
	ModeAll FetchMode = "all"
)

// allModePageCap bounds "all" mode so a looping cursor sequence cannot
// keep the fetch running forever
const allModePageCap = 10000

// FetchRequest describes one fetch call
type FetchRequest struct {
	Mode     FetchMode
	URL      string
	MaxPages int               // recent mode only
	Window   domain.TimeWindow // recent mode stop threshold
}

// FetchUsecase drives a message source through cursor-based pages
type FetchUsecase struct {
	source repo.MessageSource
	log    zerolog.Logger
	now    func() time.Time
}

// NewFetchUsecase creates a new fetch usecase
func NewFetchUsecase(source repo.MessageSource, log zerolog.Logger) *FetchUsecase {
	return &FetchUsecase{
		source: source,
		log:    log.With().Str("component", "fetcher").Logger(),
		now:    time.Now,
	}
}

// Fetch pulls messages according to the request's mode and returns one
// aggregated batch sorted newest first.
//
// A transport or decode error on the first page is returned to the
// caller. On any later page it truncates the fetch instead: whatever
// was accumulated so far is returned without an error, and the caller
// decides whether the partial result is usable.
func (uc *FetchUsecase) Fetch(ctx context.Context, req FetchRequest) (*domain.FetchBatch, error) {
	switch req.Mode {
	case ModeSingle:
		batch, err := uc.source.FetchPage(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		batch.SortNewestFirst()
		return batch, nil

	case ModeRecent:
		if req.MaxPages <= 0 {
			return nil, fmt.Errorf("recent mode requires a positive max pages, got %d", req.MaxPages)
		}
		lowerBound := req.Window.LowerBoundMs(uc.now())
		return uc.paginate(ctx, req.URL, req.MaxPages, &lowerBound)

	case ModeAll:
		return uc.paginate(ctx, req.URL, allModePageCap, nil)

	default:
		return nil, fmt.Errorf("unknown fetch mode %q", req.Mode)
	}
}

// paginate runs the cursor-following loop. It stops when the page
// count is exhausted, the source stops returning a cursor, a page
// comes back empty, or (when lowerBoundMs is set) the oldest message
// of a page falls at or after the window's lower bound.
func (uc *FetchUsecase) paginate(ctx context.Context, rawURL string, maxPages int, lowerBoundMs *int64) (*domain.FetchBatch, error) {
	base, err := stripCursor(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	agg := &domain.FetchBatch{}
	pageURL := base

	for page := 1; page <= maxPages; page++ {
		batch, err := uc.source.FetchPage(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			uc.log.Warn().Err(err).Int("page", page).
				Msg("page fetch failed, keeping messages accumulated so far")
			break
		}

		if len(batch.Messages) == 0 {
			break
		}
		agg.Messages = append(agg.Messages, batch.Messages...)

		if lowerBoundMs != nil && batch.OldestTimestampMs() >= *lowerBoundMs {
			uc.log.Debug().Int("page", page).Msg("reached target window")
			break
		}
		if batch.NextCursor == "" {
			break
		}
		pageURL = withCursor(base, batch.NextCursor)
	}

	agg.SortNewestFirst()
	return agg, nil
}

// stripCursor removes any pre-existing cursor parameter, yielding the
// canonical base URL that each page request is built from
func stripCursor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Del("cursor")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// withCursor substitutes (never accumulates) the cursor on the base URL
func withCursor(baseURL, cursor string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	q.Set("cursor", cursor)
	u.RawQuery = q.Encode()
	return u.String()
}
