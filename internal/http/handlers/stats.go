package handlers

import (
	"net/http"
)

// StatsSummary serves community-wide totals for the landing screen.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Stats.Summary(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"donors":             stats.Donors,
		"available_donors":   stats.AvailableDonors,
		"donations":          stats.Donations,
		"donated_ml":         stats.DonatedML,
		"open_requests":      stats.OpenRequests,
		"requests_last_24h":  stats.RequestsLast24h,
		"donations_last_24h": stats.DonationsLast24h,
	})
}
