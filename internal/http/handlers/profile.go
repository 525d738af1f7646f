package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"rakta/internal/domain"
	"rakta/internal/storage"
)

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"

	defaultMaxUploadBytes = 5 << 20
)

type userDTO struct {
	ID                  string   `json:"id"`
	Email               string   `json:"email"`
	FullName            string   `json:"full_name"`
	ContactNo           string   `json:"contact_no"`
	Address             string   `json:"address"`
	BloodGroup          string   `json:"blood_group"`
	RH                  string   `json:"rh"`
	BloodType           *string  `json:"blood_type"`
	DateOfBirth         *string  `json:"date_of_birth"`
	AgeYears            *int     `json:"age_years"`
	CountryRegion       string   `json:"country_region"`
	HeightCM            *int     `json:"height_cm"`
	WeightKG            *int     `json:"weight_kg"`
	ChronicDiseases     []string `json:"chronic_diseases"`
	HasChronicDisease   bool     `json:"has_chronic_disease"`
	DonatedRecently     *bool    `json:"donated_recently"`
	OnboardingCompleted bool     `json:"onboarding_completed"`
	TotalBloodDonated   int      `json:"total_blood_donated"`
	ProfilePictureURL   string   `json:"profile_picture_url"`
	AvailableToDonate   bool     `json:"available_to_donate"`
	DonationCount       int      `json:"donation_count"`
	RequestCount        int      `json:"request_count"`
	CreatedAt           string   `json:"created_at"`
}

func (a *App) toUserDTO(u *domain.User) userDTO {
	dto := userDTO{
		ID:                  u.ID,
		Email:               u.Email,
		FullName:            u.FullName,
		ContactNo:           u.ContactNo,
		Address:             u.Address,
		BloodGroup:          u.BloodGroup,
		RH:                  u.RH,
		AgeYears:            u.AgeYears(a.now()),
		CountryRegion:       u.CountryRegion,
		HeightCM:            u.HeightCM,
		WeightKG:            u.WeightKG,
		ChronicDiseases:     u.ChronicDiseases,
		HasChronicDisease:   u.HasChronicDisease,
		DonatedRecently:     u.DonatedRecently,
		OnboardingCompleted: u.OnboardingCompleted,
		TotalBloodDonated:   u.TotalBloodDonated,
		ProfilePictureURL:   u.ProfilePictureURL,
		AvailableToDonate:   u.AvailableToDonate,
		DonationCount:       u.DonationCount,
		RequestCount:        u.RequestCount,
		CreatedAt:           u.CreatedAt.UTC().Format(timeLayout),
	}
	if u.BloodType != nil {
		bt := string(*u.BloodType)
		dto.BloodType = &bt
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(dateLayout)
		dto.DateOfBirth = &dob
	}
	if dto.ChronicDiseases == nil {
		dto.ChronicDiseases = []string{}
	}
	return dto
}

type personalInfoRequest struct {
	FullName      string `json:"full_name"`
	DateOfBirth   string `json:"date_of_birth"`
	CountryRegion string `json:"country_region"`
	ContactNo     string `json:"contact_no"`
	Address       string `json:"address"`
}

type medicalInfoRequest struct {
	BloodType       string   `json:"blood_type"`
	HeightCM        int      `json:"height_cm"`
	WeightKG        int      `json:"weight_kg"`
	ChronicDiseases []string `json:"chronic_diseases"`
	DonatedRecently bool     `json:"donated_recently"`
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.toUserDTO(user))
}

func (a *App) UpdatePersonal(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req personalInfoRequest
	if !a.decode(w, r, &req) {
		return
	}
	info := domain.PersonalInfo{
		FullName:      strings.TrimSpace(req.FullName),
		CountryRegion: strings.TrimSpace(req.CountryRegion),
		ContactNo:     strings.TrimSpace(req.ContactNo),
		Address:       strings.TrimSpace(req.Address),
	}
	if dob := strings.TrimSpace(req.DateOfBirth); dob != "" {
		parsed, err := time.Parse(dateLayout, dob)
		if err != nil {
			a.fail(w, r, &domain.ValidationError{Fields: map[string]string{"date_of_birth": "date of birth must be YYYY-MM-DD"}})
			return
		}
		if parsed.After(a.now()) {
			a.fail(w, r, &domain.ValidationError{Fields: map[string]string{"date_of_birth": "date of birth is in the future"}})
			return
		}
		info.DateOfBirth = &parsed
	}
	if err := info.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	user, err := a.Users.UpdatePersonal(r.Context(), userID, info)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.toUserDTO(user))
}

func (a *App) UpdateMedical(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req medicalInfoRequest
	if !a.decode(w, r, &req) {
		return
	}
	bt, _ := domain.ParseBloodType(req.BloodType)
	info := domain.MedicalInfo{
		BloodType:       bt,
		HeightCM:        req.HeightCM,
		WeightKG:        req.WeightKG,
		ChronicDiseases: req.ChronicDiseases,
		DonatedRecently: req.DonatedRecently,
	}
	if err := info.Validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	user, err := a.Users.UpdateMedical(r.Context(), userID, info)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.toUserDTO(user))
}

func (a *App) SetAvailability(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	var req availabilityRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Available == nil {
		a.fail(w, r, &domain.ValidationError{Fields: map[string]string{"available": "available is required"}})
		return
	}
	user, err := a.Users.SetAvailability(r.Context(), userID, *req.Available)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.toUserDTO(user))
}

// UploadPicture accepts a multipart form with a "picture" file field.
func (a *App) UploadPicture(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	limit := a.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024)
	if err := r.ParseMultipartForm(limit); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("picture")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "picture file is required")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, limit+1)); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read picture")
		return
	}
	if int64(buf.Len()) > limit {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "picture exceeds upload limit")
		return
	}
	url, err := a.Pictures.SaveProfilePicture(r.Context(), userID, buf.Bytes())
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			a.error(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "picture must be JPEG, PNG or WebP")
			return
		}
		a.fail(w, r, err)
		return
	}
	user, err := a.Users.SetProfilePicture(r.Context(), userID, url)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, a.toUserDTO(user))
}
