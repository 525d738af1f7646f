package domain

// CommunityStats summarizes activity across all donors.
type CommunityStats struct {
	Donors           int64
	AvailableDonors  int64
	Donations        int64
	DonatedML        int64
	OpenRequests     int64
	RequestsLast24h  int64
	DonationsLast24h int64
}
