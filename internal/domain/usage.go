package domain

import "time"

// UsageRecord is one day's recorded donation count. Both fields may be absent
// in stored data; consumers treat a nil field as a malformed record.
type UsageRecord struct {
	Date          *time.Time
	DonationCount *int
}

// NewUsageRecord builds a well-formed record.
func NewUsageRecord(date time.Time, count int) UsageRecord {
	return UsageRecord{Date: &date, DonationCount: &count}
}

// Valid reports whether both the date and the count are present.
func (r UsageRecord) Valid() bool {
	return r.Date != nil && r.DonationCount != nil
}
