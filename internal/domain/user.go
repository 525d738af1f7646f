package domain

import "time"

// User is the donor profile document, one per account, keyed by email.
// Optional profile fields are pointers so that "never provided" stays distinct
// from a zero value.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	FullName            string
	ContactNo           string
	Address             string
	BloodGroup          string
	RH                  string
	BloodType           *BloodType
	DateOfBirth         *time.Time
	CountryRegion       string
	HeightCM            *int
	WeightKG            *int
	ChronicDiseases     []string
	HasChronicDisease   bool
	DonatedRecently     *bool
	OnboardingCompleted bool
	TotalBloodDonated   int
	ProfilePictureURL   string
	AvailableToDonate   bool
	DonationCount       int
	RequestCount        int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AgeYears returns the age derived from the date of birth, or nil when unknown.
func (u User) AgeYears(now time.Time) *int {
	if u.DateOfBirth == nil {
		return nil
	}
	dob := *u.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return &age
}

// PersonalInfo is the first onboarding step.
type PersonalInfo struct {
	FullName      string
	DateOfBirth   *time.Time
	CountryRegion string
	ContactNo     string
	Address       string
}

// MedicalInfo is the second onboarding step. Saving it completes onboarding.
type MedicalInfo struct {
	BloodType       BloodType
	HeightCM        int
	WeightKG        int
	ChronicDiseases []string
	DonatedRecently bool
}

// HasChronicDisease reports whether any selected disease is a real condition.
func (m MedicalInfo) HasChronicDisease() bool {
	for _, d := range m.ChronicDiseases {
		if d != ChronicDiseaseNone {
			return true
		}
	}
	return false
}
