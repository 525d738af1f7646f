package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"rakta/internal/domain"
)

// Refresh steps, used for notifications and metrics.
const (
	StepSeries = "series"
	StepTotal  = "total"
)

// Recorder observes refresh outcomes. infra.Metrics satisfies it.
type Recorder interface {
	RefreshStep(step string, ok bool)
}

// Notification is a user-facing message produced by a failed refresh step.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Snapshot is the dashboard display state.
type Snapshot struct {
	Series        Series         `json:"series"`
	LifetimeTotal int            `json:"lives_saved"`
	LastUpdated   time.Time      `json:"last_updated"`
	Notifications []Notification `json:"notifications,omitempty"`
}

// Options configures a Service.
type Options struct {
	PastDays   int
	FutureDays int
	Now        func() time.Time
	Logger     zerolog.Logger
	Recorder   Recorder
}

// Service owns the dashboard state and recomputes it on refresh.
type Service struct {
	source     domain.UsageRecordSource
	pastDays   int
	futureDays int
	now        func() time.Time
	logger     zerolog.Logger
	recorder   Recorder

	mu        sync.RWMutex
	state     Snapshot
	refreshed bool
}

// NewService creates a Service reading from source.
func NewService(source domain.UsageRecordSource, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:     source,
		pastDays:   clamp(opts.PastDays),
		futureDays: clamp(opts.FutureDays),
		now:        now,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		state:      Snapshot{Series: Series{Labels: []string{}, Data: []int{}}},
	}
}

// Series computes the chart series for the window around now.
func (s *Service) Series(ctx context.Context) (Series, error) {
	today := s.now()
	from, to := WindowRange(today, s.pastDays, s.futureDays)
	records, err := s.source.ListUsage(ctx, &from, &to)
	if err != nil {
		return Series{}, fmt.Errorf("dashboard: list usage in window: %w", err)
	}
	labels, counts := BuildWindow(today, s.pastDays, s.futureDays)
	merged, skipped := MergeRecords(counts, records)
	s.logger.Debug().Int("merged", merged).Int("skipped", skipped).Msg("dashboard: records merged")
	return FinalizeSeries(labels, counts), nil
}

// LifetimeTotal sums donation counts over the whole, unfiltered source.
func (s *Service) LifetimeTotal(ctx context.Context) (int, error) {
	records, err := s.source.ListUsage(ctx, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("dashboard: list usage: %w", err)
	}
	return SumDonations(records), nil
}

// Refresh recomputes the series and the total independently. A failed step
// keeps its previous value and adds one notification; it never cancels the
// other step. LastUpdated moves only when at least one step succeeded.
func (s *Service) Refresh(ctx context.Context) Snapshot {
	var (
		series            Series
		total             int
		seriesErr, totErr error
		g                 errgroup.Group
	)
	g.Go(func() error {
		series, seriesErr = s.Series(ctx)
		return nil
	})
	g.Go(func() error {
		total, totErr = s.LifetimeTotal(ctx)
		return nil
	})
	_ = g.Wait()

	s.observe(StepSeries, seriesErr)
	s.observe(StepTotal, totErr)

	var notes []Notification
	if seriesErr != nil {
		s.logger.Error().Err(seriesErr).Msg("dashboard: series refresh failed")
		notes = append(notes, Notification{Kind: StepSeries, Message: "Failed to load donation activity."})
	}
	if totErr != nil {
		s.logger.Error().Err(totErr).Msg("dashboard: total refresh failed")
		notes = append(notes, Notification{Kind: StepTotal, Message: "Failed to load lives saved."})
	}

	s.mu.Lock()
	if seriesErr == nil {
		s.state.Series = series
	}
	if totErr == nil {
		s.state.LifetimeTotal = total
	}
	if seriesErr == nil || totErr == nil {
		s.state.LastUpdated = s.now()
		s.refreshed = true
	}
	out := s.state
	s.mu.Unlock()

	out.Notifications = notes
	return out
}

// Snapshot returns the current display state and whether any refresh has
// succeeded yet.
func (s *Service) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.refreshed
}

// Current returns the display state, running an initial refresh when
// nothing has been loaded yet.
func (s *Service) Current(ctx context.Context) Snapshot {
	if snap, ok := s.Snapshot(); ok {
		return snap
	}
	return s.Refresh(ctx)
}

func (s *Service) observe(step string, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RefreshStep(step, err == nil)
}
