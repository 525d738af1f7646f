package handlers

import (
	"context"
	"net/http"

	"github.com/dustin/go-humanize"

	"rakta/internal/dashboard"
)

type dashboardResponse struct {
	Series           dashboard.Series         `json:"series"`
	LivesSaved       int                      `json:"lives_saved"`
	LastUpdated      *string                  `json:"last_updated"`
	LastUpdatedHuman string                   `json:"last_updated_human"`
	Notifications    []dashboard.Notification `json:"notifications"`
}

func (a *App) toDashboardResponse(ctx context.Context, snap dashboard.Snapshot) dashboardResponse {
	p := printer(ctx)
	resp := dashboardResponse{
		Series:           snap.Series,
		LivesSaved:       snap.LifetimeTotal,
		LastUpdatedHuman: p.Sprintf(msgNever),
		Notifications:    localizeNotifications(p, snap.Notifications),
	}
	if !snap.LastUpdated.IsZero() {
		ts := snap.LastUpdated.UTC().Format(timeLayout)
		resp.LastUpdated = &ts
		resp.LastUpdatedHuman = humanize.RelTime(snap.LastUpdated, a.now(), "ago", "from now")
	}
	if resp.Series.Labels == nil {
		resp.Series.Labels = []string{}
	}
	if resp.Series.Data == nil {
		resp.Series.Data = []int{}
	}
	return resp
}

// DashboardGet returns the last computed snapshot, loading it on first use.
func (a *App) DashboardGet(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.toDashboardResponse(r.Context(), a.Dashboard.Current(r.Context())))
}

// DashboardRefresh recomputes the snapshot. Failed steps are reported in
// notifications while the stale values are still returned.
func (a *App) DashboardRefresh(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.toDashboardResponse(r.Context(), a.Dashboard.Refresh(r.Context())))
}
