package dashboard

import "rakta/internal/domain"

// Series is the chart input: index-aligned labels and counts.
type Series struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// MergeRecords overwrites counts[label] with each record's donation count
// when the record's day falls inside the window. Later records win over
// earlier ones for the same label. Records missing a date or a count, and
// records outside the window, are skipped.
func MergeRecords(counts map[string]int, records []domain.UsageRecord) (merged, skipped int) {
	for _, rec := range records {
		if !rec.Valid() {
			skipped++
			continue
		}
		label := DayLabel(*rec.Date)
		if _, ok := counts[label]; !ok {
			skipped++
			continue
		}
		counts[label] = *rec.DonationCount
		merged++
	}
	return merged, skipped
}

// FinalizeSeries drops repeated labels, keeping first occurrences in order,
// and projects the counts onto the surviving labels.
func FinalizeSeries(labels []string, counts map[string]int) Series {
	out := Series{
		Labels: make([]string, 0, len(labels)),
		Data:   make([]int, 0, len(labels)),
	}
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out.Labels = append(out.Labels, label)
		out.Data = append(out.Data, counts[label])
	}
	return out
}

// SumDonations totals the donation count over every record. Records without
// a count contribute nothing.
func SumDonations(records []domain.UsageRecord) int {
	total := 0
	for _, rec := range records {
		if rec.DonationCount == nil {
			continue
		}
		total += *rec.DonationCount
	}
	return total
}
