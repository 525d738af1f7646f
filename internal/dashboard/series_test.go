package dashboard

import (
	"reflect"
	"testing"
	"time"

	"rakta/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestMergeRecordsOverwritesInsteadOfSumming(t *testing.T) {
	_, counts := BuildWindow(date(2024, 6, 15), 4, 2)
	records := []domain.UsageRecord{
		domain.NewUsageRecord(date(2024, 6, 14), 3),
		domain.NewUsageRecord(time.Date(2024, 6, 14, 17, 0, 0, 0, time.UTC), 7),
	}
	merged, skipped := MergeRecords(counts, records)
	if merged != 2 || skipped != 0 {
		t.Fatalf("MergeRecords() = %d, %d; want 2, 0", merged, skipped)
	}
	if counts["14/6"] != 7 {
		t.Fatalf("counts[14/6] = %d, want 7", counts["14/6"])
	}
}

func TestMergeRecordsSkipsOutOfWindow(t *testing.T) {
	_, counts := BuildWindow(date(2024, 6, 15), 4, 2)
	before := make(map[string]int, len(counts))
	for k, v := range counts {
		before[k] = v
	}
	merged, skipped := MergeRecords(counts, []domain.UsageRecord{
		domain.NewUsageRecord(date(2024, 6, 20), 9),
		domain.NewUsageRecord(date(2024, 6, 10), 2),
	})
	if merged != 0 || skipped != 2 {
		t.Fatalf("MergeRecords() = %d, %d; want 0, 2", merged, skipped)
	}
	if !reflect.DeepEqual(counts, before) {
		t.Fatalf("counts changed: %v, want %v", counts, before)
	}
}

func TestMergeRecordsSkipsMalformed(t *testing.T) {
	_, counts := BuildWindow(date(2024, 6, 15), 4, 2)
	day := date(2024, 6, 13)
	_, skipped := MergeRecords(counts, []domain.UsageRecord{
		{Date: &day},
		{DonationCount: intPtr(5)},
		{},
	})
	if skipped != 3 {
		t.Fatalf("skipped = %d, want 3", skipped)
	}
	if counts["13/6"] != 0 {
		t.Fatalf("counts[13/6] = %d, want 0", counts["13/6"])
	}
}

func TestScenarioMergeIntoWindow(t *testing.T) {
	labels, counts := BuildLegacyWindow(date(2024, 6, 15), 4, 2)
	MergeRecords(counts, []domain.UsageRecord{
		domain.NewUsageRecord(date(2024, 6, 13), 4),
		domain.NewUsageRecord(date(2024, 6, 20), 9),
	})
	got := FinalizeSeries(labels, counts)
	want := Series{
		Labels: []string{"11/6", "12/6", "13/6", "14/6", "15/6", "16/6", "17/6"},
		Data:   []int{0, 0, 4, 0, 0, 0, 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("series = %+v, want %+v", got, want)
	}
}

func TestFinalizeSeriesLengthsMatch(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		counts map[string]int
	}{
		{name: "empty", labels: nil, counts: map[string]int{}},
		{name: "duplicates", labels: []string{"1/1", "1/1", "2/1", "1/1"}, counts: map[string]int{"1/1": 3}},
		{name: "missing count defaults to zero", labels: []string{"9/9"}, counts: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FinalizeSeries(tc.labels, tc.counts)
			if len(got.Labels) != len(got.Data) {
				t.Fatalf("len(Labels) = %d, len(Data) = %d", len(got.Labels), len(got.Data))
			}
			if got.Labels == nil || got.Data == nil {
				t.Fatalf("FinalizeSeries() returned nil slices")
			}
		})
	}

	got := FinalizeSeries([]string{"1/1", "1/1", "2/1", "1/1"}, map[string]int{"1/1": 3})
	if !reflect.DeepEqual(got.Labels, []string{"1/1", "2/1"}) || !reflect.DeepEqual(got.Data, []int{3, 0}) {
		t.Fatalf("FinalizeSeries() = %+v", got)
	}
}

func TestSumDonations(t *testing.T) {
	day := date(2024, 6, 1)
	tests := []struct {
		name    string
		records []domain.UsageRecord
		want    int
	}{
		{name: "empty", records: nil, want: 0},
		{
			name:    "malformed contributes zero",
			records: []domain.UsageRecord{{DonationCount: intPtr(5)}, {}, {DonationCount: intPtr(3)}},
			want:    8,
		},
		{
			name: "ignores window",
			records: []domain.UsageRecord{
				domain.NewUsageRecord(date(2019, 1, 1), 1),
				domain.NewUsageRecord(date(2024, 6, 13), 2),
				domain.NewUsageRecord(date(2031, 7, 9), 3),
			},
			want: 6,
		},
		{name: "date without count", records: []domain.UsageRecord{{Date: &day}}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SumDonations(tc.records); got != tc.want {
				t.Fatalf("SumDonations() = %d, want %d", got, tc.want)
			}
		})
	}
}
