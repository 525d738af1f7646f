package handlers

import (
	"net/http"
	"strings"

	"rakta/internal/domain"
	"rakta/internal/middleware"
)

type bloodBankDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	OpenHours   string `json:"open_hours"`
}

// BloodBanksList filters by ?country and ?city. Without ?country the
// country resolved for the request is used; ?country=all lists everything.
func (a *App) BloodBanksList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := strings.ToUpper(strings.TrimSpace(q.Get("country")))
	switch country {
	case "":
		country = middleware.CountryFromContext(r.Context())
	case "ALL":
		country = ""
	}
	city := strings.TrimSpace(q.Get("city"))

	banks, err := a.BloodBanks.List(r.Context(), country, city)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]bloodBankDTO, 0, len(banks))
	for _, b := range banks {
		out = append(out, toBloodBankDTO(b))
	}
	a.json(w, http.StatusOK, map[string]any{"country": country, "items": out})
}

func toBloodBankDTO(b domain.BloodBank) bloodBankDTO {
	return bloodBankDTO{
		ID:          b.ID,
		Name:        b.Name,
		Address:     b.Address,
		City:        b.City,
		CountryCode: b.CountryCode,
		Phone:       b.Phone,
		OpenHours:   b.OpenHours,
	}
}
