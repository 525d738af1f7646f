package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

// Health is the liveness probe. It never touches dependencies.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready is the readiness probe. The database must answer a ping. It also
// reports when the dashboard snapshot was last refreshed, without
// triggering a refresh.
func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		Status    string            `json:"status"`
		Checks    map[string]string `json:"checks"`
		Dashboard *time.Time        `json:"dashboard_updated_at,omitempty"`
	}{Status: "ok", Checks: map[string]string{}}

	status := http.StatusOK
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("readiness: database ping failed")
			resp.Status = "unavailable"
			resp.Checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["database"] = "ok"
		}
	}
	if a.Dashboard != nil {
		if snap, ok := a.Dashboard.Snapshot(); ok && !snap.LastUpdated.IsZero() {
			resp.Dashboard = &snap.LastUpdated
		}
	}
	a.json(w, status, resp)
}
