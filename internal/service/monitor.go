package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
	"github.com/wenlabs/wentracker/internal/biz/repo"
	"github.com/wenlabs/wentracker/internal/conf"
)

const (
	// defaultSleepStep is the increment at which sleeps re-check the
	// stop flag, bounding shutdown latency
	defaultSleepStep = 5 * time.Second
	// defaultBackoff is the fixed wait after a failed tick
	defaultBackoff = 30 * time.Second
)

// ChangeIndicator describes how the match count moved between ticks
type ChangeIndicator string

const (
	ChangeFirst    ChangeIndicator = "first-observation"
	ChangeIncrease ChangeIndicator = "increase"
	ChangeDecrease ChangeIndicator = "decrease"
	ChangeSame     ChangeIndicator = "same"
)

// MonitorState is the monitor's mutable state. It is created when the
// loop starts and touched only by the loop itself, so it needs no
// locking in a single-monitor deployment; run one Monitor per source.
type MonitorState struct {
	Running        bool
	HasLastCount   bool
	LastMatchCount int
	UpdateCount    int
	StartedAt      time.Time
}

// Update is one successful tick's report
type Update struct {
	RunID    string
	Tick     int
	Change   ChangeIndicator
	Analysis *domain.AnalysisResult
	Uptime   time.Duration
	Interval time.Duration
	At       time.Time
}

// Reporter receives tick results for presentation
type Reporter interface {
	Report(u *Update)
}

// Monitor owns the poll/analyze/report/sleep loop. The loop is
// strictly sequential: fetches block the whole tick and never overlap.
type Monitor struct {
	tracker  *TrackerService
	req      TrackRequest
	reporter Reporter
	history  repo.HistoryRepo // optional snapshot store
	log      zerolog.Logger

	interval  time.Duration
	sleepStep time.Duration
	backoff   time.Duration

	runID string
	state MonitorState

	// stopRequested is the cooperative cancellation flag, checked at
	// loop top and at every sleep increment. It may be set from a
	// signal handler goroutine, hence atomic.
	stopRequested atomic.Bool
}

// NewMonitor creates a new live monitor. reporter and history may be
// nil when no presentation or persistence is wanted.
func NewMonitor(tracker *TrackerService, req TrackRequest, interval time.Duration, reporter Reporter, history repo.HistoryRepo, log zerolog.Logger) *Monitor {
	return &Monitor{
		tracker:   tracker,
		req:       req,
		reporter:  reporter,
		history:   history,
		log:       log.With().Str("component", "monitor").Logger(),
		interval:  interval,
		sleepStep: defaultSleepStep,
		backoff:   defaultBackoff,
		runID:     uuid.NewString(),
	}
}

// SetTimings overrides the sleep increment and error backoff
func (m *Monitor) SetTimings(sleepStep, backoff time.Duration) {
	if sleepStep > 0 {
		m.sleepStep = sleepStep
	}
	if backoff > 0 {
		m.backoff = backoff
	}
}

// RunID returns the identifier keying this run's history snapshots
func (m *Monitor) RunID() string { return m.runID }

// State returns a copy of the monitor state
func (m *Monitor) State() MonitorState { return m.state }

// RequestStop asks the loop to stop cooperatively. An in-flight fetch
// runs to completion first; the request is honored within one sleep
// increment otherwise.
func (m *Monitor) RequestStop() {
	m.stopRequested.Store(true)
}

// Run validates parameters and drives the loop until a stop request or
// context cancellation. Tick errors back the loop off; they are never
// fatal.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.req.Validate(); err != nil {
		return err
	}
	if m.interval <= 0 {
		return &conf.ConfigError{Field: "interval", Message: "must be positive"}
	}

	m.state = MonitorState{Running: true, StartedAt: time.Now()}
	m.log.Info().Str("run_id", m.runID).Dur("interval", m.interval).Msg("monitor started")

	for !m.stopped(ctx) {
		analysis, err := m.tracker.RunOnce(ctx, m.req)
		if err != nil {
			m.log.Error().Err(err).Dur("backoff", m.backoff).Msg("tick failed, backing off")
			m.sleep(ctx, m.backoff)
			continue
		}

		m.state.UpdateCount++
		change := m.change(analysis.TotalMatchCount)
		m.state.LastMatchCount = analysis.TotalMatchCount
		m.state.HasLastCount = true

		now := time.Now()
		update := &Update{
			RunID:    m.runID,
			Tick:     m.state.UpdateCount,
			Change:   change,
			Analysis: analysis,
			Uptime:   now.Sub(m.state.StartedAt),
			Interval: m.interval,
			At:       now,
		}
		if m.reporter != nil {
			m.reporter.Report(update)
		}
		m.saveSnapshot(ctx, update)

		m.sleep(ctx, m.interval)
	}

	m.state.Running = false
	m.log.Info().Int("updates", m.state.UpdateCount).Msg("monitor stopped")
	return nil
}

func (m *Monitor) change(count int) ChangeIndicator {
	switch {
	case !m.state.HasLastCount:
		return ChangeFirst
	case count > m.state.LastMatchCount:
		return ChangeIncrease
	case count < m.state.LastMatchCount:
		return ChangeDecrease
	default:
		return ChangeSame
	}
}

func (m *Monitor) saveSnapshot(ctx context.Context, u *Update) {
	if m.history == nil {
		return
	}
	snap := &repo.Snapshot{
		RunID:             u.RunID,
		Tick:              u.Tick,
		TotalMessages:     u.Analysis.TotalMessages,
		MessagesWithMatch: u.Analysis.MessagesWithMatch,
		TotalMatchCount:   u.Analysis.TotalMatchCount,
		TimeSpan:          u.Analysis.TimeSpan,
		CreatedAt:         u.At,
	}
	if err := m.history.Save(ctx, snap); err != nil {
		m.log.Warn().Err(err).Msg("failed to save snapshot")
	}
}

func (m *Monitor) stopped(ctx context.Context) bool {
	return m.stopRequested.Load() || ctx.Err() != nil
}

// sleep waits for d in sleepStep increments, returning early when a
// stop is requested or the context ends
func (m *Monitor) sleep(ctx context.Context, d time.Duration) {
	deadline := time.Now().Add(d)
	for {
		if m.stopped(ctx) {
			return
		}
		remain := time.Until(deadline)
		if remain <= 0 {
			return
		}
		step := m.sleepStep
		if remain < step {
			step = remain
		}
		time.Sleep(step)
	}
}
