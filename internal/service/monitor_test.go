package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/domain"
	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/conf"
)

// sequenceSource serves each scripted page once per FetchPage call,
// repeating the last entry when the script runs out
type sequenceSource struct {
	script []func() (*domain.FetchBatch, error)
	calls  int
}

func (s *sequenceSource) FetchPage(ctx context.Context, url string) (*domain.FetchBatch, error) {
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	return s.script[i]()
}

func pageWithWens(n int) func() (*domain.FetchBatch, error) {
	return func() (*domain.FetchBatch, error) {
		batch := &domain.FetchBatch{}
		for i := 0; i < n; i++ {
			batch.Messages = append(batch.Messages, domain.Message{
				ID:          "m",
				Kind:        domain.KindText,
				Body:        "wen",
				TimestampMs: int64(1000 + i),
			})
		}
		return batch, nil
	}
}

func failingPage(msg string) func() (*domain.FetchBatch, error) {
	return func() (*domain.FetchBatch, error) { return nil, errors.New(msg) }
}

type chanReporter struct {
	ch chan *Update
}

// Report never blocks the loop; a full buffer drops the update
func (r *chanReporter) Report(u *Update) {
	select {
	case r.ch <- u:
	default:
	}
}

func newTestMonitor(source *sequenceSource, interval time.Duration, reporter Reporter) *Monitor {
	log := zerolog.Nop()
	tracker := NewTrackerService(
		usecase.NewFetchUsecase(source, log),
		usecase.NewAnalyzeUsecase(log),
		log,
	)
	mon := NewMonitor(tracker, TrackRequest{Mode: usecase.ModeSingle, URL: "https://api.example.com/messages"},
		interval, reporter, nil, log)
	mon.SetTimings(5*time.Millisecond, 20*time.Millisecond)
	return mon
}

func TestMonitor_ChangeIndicators(t *testing.T) {
	source := &sequenceSource{script: []func() (*domain.FetchBatch, error){
		pageWithWens(1),
		pageWithWens(3),
		pageWithWens(3),
		pageWithWens(2),
	}}
	reporter := &chanReporter{ch: make(chan *Update, 8)}
	mon := newTestMonitor(source, 10*time.Millisecond, reporter)

	done := make(chan error, 1)
	go func() { done <- mon.Run(context.Background()) }()

	expected := []ChangeIndicator{ChangeFirst, ChangeIncrease, ChangeSame, ChangeDecrease}
	for i, want := range expected {
		select {
		case u := <-reporter.ch:
			if u.Change != want {
				t.Errorf("Tick %d: expected change %q, got %q", i+1, want, u.Change)
			}
			if u.Tick != i+1 {
				t.Errorf("Expected tick %d, got %d", i+1, u.Tick)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for tick %d", i+1)
		}
	}

	mon.RequestStop()
	if err := <-done; err != nil {
		t.Errorf("Expected clean stop, got %v", err)
	}
	if mon.State().Running {
		t.Error("Expected monitor state to report stopped")
	}
}

func TestMonitor_CancellationLatency(t *testing.T) {
	source := &sequenceSource{script: []func() (*domain.FetchBatch, error){pageWithWens(1)}}
	reporter := &chanReporter{ch: make(chan *Update, 1)}

	// A long interval with a short sleep step: the stop request must be
	// honored at the next increment, never after the full interval
	mon := newTestMonitor(source, time.Hour, reporter)

	done := make(chan error, 1)
	go func() { done <- mon.Run(context.Background()) }()

	<-reporter.ch
	start := time.Now()
	mon.RequestStop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Monitor did not stop within one sleep increment")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Expected stop within one increment, took %v", elapsed)
	}
}

func TestMonitor_ErrorBacksOffAndRecovers(t *testing.T) {
	source := &sequenceSource{script: []func() (*domain.FetchBatch, error){
		failingPage("transient"),
		pageWithWens(2),
	}}
	reporter := &chanReporter{ch: make(chan *Update, 2)}
	mon := newTestMonitor(source, 10*time.Millisecond, reporter)

	done := make(chan error, 1)
	go func() { done <- mon.Run(context.Background()) }()

	select {
	case u := <-reporter.ch:
		if u.Analysis.TotalMatchCount != 2 {
			t.Errorf("Expected 2 matches after recovery, got %d", u.Analysis.TotalMatchCount)
		}
		if u.Change != ChangeFirst {
			t.Errorf("Expected first-observation after a failed tick, got %q", u.Change)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the loop to survive the failed tick and report")
	}

	mon.RequestStop()
	if err := <-done; err != nil {
		t.Errorf("Expected clean stop, got %v", err)
	}
}

func TestMonitor_ContextCancellation(t *testing.T) {
	source := &sequenceSource{script: []func() (*domain.FetchBatch, error){pageWithWens(1)}}
	reporter := &chanReporter{ch: make(chan *Update, 1)}
	mon := newTestMonitor(source, time.Hour, reporter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mon.Run(ctx) }()

	<-reporter.ch
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on context cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Monitor did not observe context cancellation")
	}
}

func TestMonitor_RejectsNonPositiveInterval(t *testing.T) {
	source := &sequenceSource{script: []func() (*domain.FetchBatch, error){pageWithWens(1)}}
	mon := newTestMonitor(source, 0, nil)

	err := mon.Run(context.Background())
	if err == nil {
		t.Fatal("Expected an error for a non-positive interval")
	}
	var cfgErr *conf.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected *conf.ConfigError, got %T", err)
	}
}

func TestMonitor_RejectsBadRequestBeforeLoop(t *testing.T) {
	tests := []struct {
		name string
		req  TrackRequest
	}{
		{"unknown mode", TrackRequest{Mode: "bogus", URL: "https://api.example.com/messages"}},
		{"recent without pages", TrackRequest{Mode: usecase.ModeRecent, URL: "https://api.example.com/messages", MaxPages: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &sequenceSource{script: []func() (*domain.FetchBatch, error){pageWithWens(1)}}
			log := zerolog.Nop()
			tracker := NewTrackerService(
				usecase.NewFetchUsecase(source, log),
				usecase.NewAnalyzeUsecase(log),
				log,
			)
			mon := NewMonitor(tracker, tt.req, 10*time.Millisecond, nil, nil, log)
			mon.SetTimings(5*time.Millisecond, 20*time.Millisecond)

			// A bad parameter must be fatal up front, never reach the
			// backoff loop
			done := make(chan error, 1)
			go func() { done <- mon.Run(context.Background()) }()

			select {
			case err := <-done:
				if err == nil {
					t.Fatal("Expected a validation error")
				}
				var cfgErr *conf.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Expected *conf.ConfigError, got %T: %v", err, err)
				}
			case <-time.After(500 * time.Millisecond):
				t.Fatal("Run kept looping instead of failing validation")
			}
			if source.calls != 0 {
				t.Errorf("Expected no fetch attempts, got %d", source.calls)
			}
		})
	}
}
