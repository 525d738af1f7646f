package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"rakta/internal/domain"
)

const (
	defaultRequestListLimit = 20
	maxRequestListLimit     = 100
)

type bloodRequestRequest struct {
	BloodGroup string `json:"blood_group"`
	Units      int    `json:"units"`
	Hospital   string `json:"hospital"`
	Location   string `json:"location"`
	Urgency    string `json:"urgency"`
	Note       string `json:"note"`
}

type bloodRequestDTO struct {
	ID        string `json:"id"`
	BloodType string `json:"blood_type"`
	Units     int    `json:"units"`
	Hospital  string `json:"hospital"`
	Location  string `json:"location"`
	Urgency   string `json:"urgency"`
	Note      string `json:"note"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toBloodRequestDTO(req domain.BloodRequest) bloodRequestDTO {
	return bloodRequestDTO{
		ID:        req.ID,
		BloodType: string(req.BloodType),
		Units:     req.Units,
		Hospital:  req.Hospital,
		Location:  req.Location,
		Urgency:   string(req.Urgency),
		Note:      req.Note,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt.UTC().Format(timeLayout),
	}
}

// RequestsCreate stores a blood request; the notification worker picks it up.
func (a *App) RequestsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req bloodRequestRequest
	if !a.decode(w, r, &req) {
		return
	}
	bt, _ := domain.ParseBloodType(req.BloodGroup)
	urgency := domain.Urgency(strings.ToLower(strings.TrimSpace(req.Urgency)))
	if urgency == "" {
		urgency = domain.UrgencyNormal
	}
	br := &domain.BloodRequest{
		UserID:    userID,
		BloodType: bt,
		Units:     req.Units,
		Hospital:  strings.TrimSpace(req.Hospital),
		Location:  strings.TrimSpace(req.Location),
		Urgency:   urgency,
		Note:      strings.TrimSpace(req.Note),
		Status:    domain.RequestStatusOpen,
	}
	if err := br.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	created, err := a.Requests.Create(r.Context(), br)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Users.RecordRequest(r.Context(), userID); err != nil {
		a.Logger.Warn().Err(err).Str("user_id", userID).Msg("record request count failed")
	}
	a.json(w, http.StatusCreated, toBloodRequestDTO(*created))
}

func (a *App) RequestsList(w http.ResponseWriter, r *http.Request) {
	limit := defaultRequestListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxRequestListLimit)
	}
	items, err := a.Requests.ListOpen(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]bloodRequestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toBloodRequestDTO(item))
	}
	a.json(w, http.StatusOK, map[string]any{"items": out})
}
