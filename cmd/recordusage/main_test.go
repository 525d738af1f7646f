package main

import (
	"context"
	"testing"
	"time"

	"rakta/internal/domain"
)

func TestParseDay(t *testing.T) {
	loc := time.FixedZone("NPT", 5*3600+45*60)
	now := time.Date(2024, 6, 15, 23, 30, 0, 0, loc)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "", want: time.Date(2024, 6, 15, 0, 0, 0, 0, loc)},
		{raw: "2024-01-31", want: time.Date(2024, 1, 31, 0, 0, 0, 0, loc)},
		{raw: "31/01/2024", wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseDay(tc.raw, now, loc)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseDay(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseDay(%q) error: %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parseDay(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

type usageCalls struct {
	domain.UsageRepository
	added, set int
}

func (u *usageCalls) AddDonations(ctx context.Context, day time.Time, count int) error {
	u.added += count
	return nil
}

func (u *usageCalls) SetDonations(ctx context.Context, day time.Time, count int) error {
	u.set = count
	return nil
}

func TestRecordChoosesOperation(t *testing.T) {
	u := &usageCalls{}
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if err := record(context.Background(), u, day, 3, true); err != nil {
		t.Fatalf("record add: %v", err)
	}
	if err := record(context.Background(), u, day, 7, false); err != nil {
		t.Fatalf("record set: %v", err)
	}
	if u.added != 3 || u.set != 7 {
		t.Fatalf("added=%d set=%d", u.added, u.set)
	}
}
