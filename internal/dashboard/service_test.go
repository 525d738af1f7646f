package dashboard

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"rakta/internal/domain"
)

type fakeSource struct {
	mu        sync.Mutex
	records   []domain.UsageRecord
	rangeErr  error
	fullErr   error
	rangeSeen [][2]time.Time
}

func (f *fakeSource) ListUsage(_ context.Context, from, to *time.Time) ([]domain.UsageRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if from == nil && to == nil {
		if f.fullErr != nil {
			return nil, f.fullErr
		}
		return append([]domain.UsageRecord(nil), f.records...), nil
	}
	f.rangeSeen = append(f.rangeSeen, [2]time.Time{*from, *to})
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	var out []domain.UsageRecord
	for _, rec := range f.records {
		if rec.Date == nil || rec.Date.Before(*from) || rec.Date.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type stepRecorder struct {
	mu    sync.Mutex
	steps map[string][]bool
}

func (r *stepRecorder) RefreshStep(step string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.steps == nil {
		r.steps = map[string][]bool{}
	}
	r.steps[step] = append(r.steps[step], ok)
}

func newTestService(src domain.UsageRecordSource, now time.Time, rec Recorder) *Service {
	return NewService(src, Options{
		PastDays:   DefaultPastDays,
		FutureDays: DefaultFutureDays,
		Now:        func() time.Time { return now },
		Logger:     zerolog.Nop(),
		Recorder:   rec,
	})
}

func TestServiceRefresh(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []domain.UsageRecord{
		domain.NewUsageRecord(date(2024, 6, 13), 4),
		domain.NewUsageRecord(date(2024, 6, 20), 9),
		domain.NewUsageRecord(date(2023, 1, 1), 1),
	}}
	rec := &stepRecorder{}
	svc := newTestService(src, now, rec)

	snap := svc.Refresh(context.Background())

	wantSeries := Series{
		Labels: []string{"11/6", "12/6", "13/6", "14/6", "15/6", "16/6", "17/6"},
		Data:   []int{0, 0, 4, 0, 0, 0, 0},
	}
	if !reflect.DeepEqual(snap.Series, wantSeries) {
		t.Fatalf("Series = %+v, want %+v", snap.Series, wantSeries)
	}
	if snap.LifetimeTotal != 14 {
		t.Fatalf("LifetimeTotal = %d, want 14", snap.LifetimeTotal)
	}
	if !snap.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %s, want %s", snap.LastUpdated, now)
	}
	if len(snap.Notifications) != 0 {
		t.Fatalf("Notifications = %+v, want none", snap.Notifications)
	}
	if len(src.rangeSeen) != 1 || !src.rangeSeen[0][0].Equal(date(2024, 6, 11)) || !src.rangeSeen[0][1].Equal(date(2024, 6, 17)) {
		t.Fatalf("range queries = %v", src.rangeSeen)
	}
	if got := rec.steps[StepSeries]; len(got) != 1 || !got[0] {
		t.Fatalf("series steps = %v", got)
	}
}

func TestServiceRefreshKeepsStaleSeriesOnFailure(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []domain.UsageRecord{domain.NewUsageRecord(date(2024, 6, 14), 2)}}
	svc := newTestService(src, now, nil)

	first := svc.Refresh(context.Background())

	src.records = append(src.records, domain.NewUsageRecord(date(2022, 3, 3), 5))
	src.rangeErr = errors.New("connection reset")
	second := svc.Refresh(context.Background())

	if !reflect.DeepEqual(second.Series, first.Series) {
		t.Fatalf("Series = %+v, want stale %+v", second.Series, first.Series)
	}
	if second.LifetimeTotal != 7 {
		t.Fatalf("LifetimeTotal = %d, want 7", second.LifetimeTotal)
	}
	if len(second.Notifications) != 1 || second.Notifications[0].Kind != StepSeries {
		t.Fatalf("Notifications = %+v, want one series notification", second.Notifications)
	}
}

func TestServiceRefreshKeepsStaleTotalOnFailure(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{records: []domain.UsageRecord{domain.NewUsageRecord(date(2024, 6, 14), 2)}}
	rec := &stepRecorder{}
	svc := newTestService(src, now, rec)
	svc.Refresh(context.Background())

	src.records = append(src.records, domain.NewUsageRecord(date(2024, 6, 15), 6))
	src.fullErr = errors.New("timeout")
	snap := svc.Refresh(context.Background())

	if snap.LifetimeTotal != 2 {
		t.Fatalf("LifetimeTotal = %d, want stale 2", snap.LifetimeTotal)
	}
	if snap.Series.Data[4] != 6 {
		t.Fatalf("Series.Data = %v, want 6 on 15/6", snap.Series.Data)
	}
	if len(snap.Notifications) != 1 || snap.Notifications[0].Kind != StepTotal {
		t.Fatalf("Notifications = %+v", snap.Notifications)
	}
	if got := rec.steps[StepTotal]; len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("total steps = %v, want [true false]", got)
	}
}

func TestServiceRefreshBothFailLeavesStateUntouched(t *testing.T) {
	src := &fakeSource{rangeErr: errors.New("down"), fullErr: errors.New("down")}
	svc := newTestService(src, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)

	snap := svc.Refresh(context.Background())
	if len(snap.Notifications) != 2 {
		t.Fatalf("Notifications = %+v, want 2", snap.Notifications)
	}
	if !snap.LastUpdated.IsZero() {
		t.Fatalf("LastUpdated = %s, want zero", snap.LastUpdated)
	}
	if _, ok := svc.Snapshot(); ok {
		t.Fatalf("Snapshot() reported refreshed after total failure")
	}
	if len(snap.Series.Labels) != 0 || len(snap.Series.Data) != 0 {
		t.Fatalf("Series = %+v, want empty", snap.Series)
	}
}

func TestServiceCurrentRefreshesOnce(t *testing.T) {
	src := &fakeSource{records: []domain.UsageRecord{domain.NewUsageRecord(date(2024, 6, 15), 1)}}
	svc := newTestService(src, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)

	first := svc.Current(context.Background())
	second := svc.Current(context.Background())
	if first.LifetimeTotal != 1 || second.LifetimeTotal != 1 {
		t.Fatalf("LifetimeTotal = %d, %d; want 1", first.LifetimeTotal, second.LifetimeTotal)
	}
	if len(src.rangeSeen) != 1 {
		t.Fatalf("range queries = %d, want 1", len(src.rangeSeen))
	}
}

func TestServiceConcurrentRefresh(t *testing.T) {
	src := &fakeSource{records: []domain.UsageRecord{domain.NewUsageRecord(date(2024, 6, 15), 3)}}
	svc := newTestService(src, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Refresh(context.Background())
		}()
	}
	wg.Wait()

	snap, ok := svc.Snapshot()
	if !ok || snap.LifetimeTotal != 3 {
		t.Fatalf("Snapshot() = %+v, %v", snap, ok)
	}
}
