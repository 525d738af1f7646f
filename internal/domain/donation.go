package domain

import "time"

// Donation is a submitted donate-blood form.
type Donation struct {
	ID        string
	UserID    string
	BloodType BloodType
	Location  string
	AmountML  int
	CreatedAt time.Time
}
