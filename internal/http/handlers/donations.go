package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"rakta/internal/domain"
)

type donationRequest struct {
	BloodGroup string `json:"blood_group"`
	Location   string `json:"location"`
	AmountML   int    `json:"amount_ml"`
}

type donationResponse struct {
	ID        string `json:"id"`
	BloodType string `json:"blood_type"`
	Location  string `json:"location"`
	AmountML  int    `json:"amount_ml"`
	CreatedAt string `json:"created_at"`
	Message   string `json:"message"`
}

// DonationsCreate records a donation, counts it towards today's activity and
// adds it to the donor's totals.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req donationRequest
	if !a.decode(w, r, &req) {
		return
	}
	bt, _ := domain.ParseBloodType(req.BloodGroup)
	donation := &domain.Donation{
		UserID:    userID,
		BloodType: bt,
		Location:  strings.TrimSpace(req.Location),
		AmountML:  req.AmountML,
	}
	if err := donation.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	created, err := a.Donations.Record(r.Context(), donation, a.now())
	if err != nil {
		a.fail(w, r, fmt.Errorf("record donation: %w", err))
		return
	}
	a.Logger.Info().Str("user_id", userID).Str("donation_id", created.ID).Int("amount_ml", created.AmountML).Msg("donation recorded")
	a.json(w, http.StatusCreated, donationResponse{
		ID:        created.ID,
		BloodType: string(created.BloodType),
		Location:  created.Location,
		AmountML:  created.AmountML,
		CreatedAt: created.CreatedAt.UTC().Format(timeLayout),
		Message:   donationThanks(printer(r.Context()), created.AmountML, created.BloodType),
	})
}
