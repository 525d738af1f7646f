package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	MinPasswordLength = 6

	MinHeightCM = 100
	MaxHeightCM = 250
	MinWeightKG = 30
	MaxWeightKG = 200

	MaxDonationML = 1000
	MaxUnits      = 20
)

// SignUp is the registration form.
type SignUp struct {
	FullName        string
	ContactNo       string
	Address         string
	BloodGroup      string
	RH              string
	Email           string
	Password        string
	ConfirmPassword string
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks the registration form.
func (s SignUp) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(s.FullName) == "" {
		v.Add("full_name", "full name is required")
	}
	if strings.TrimSpace(s.ContactNo) == "" {
		v.Add("contact_no", "contact number is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		v.Add("address", "address is required")
	}
	if !contains(BloodGroups, s.BloodGroup) {
		v.Add("blood_group", "blood group must be one of A, B, O, AB")
	}
	if !contains(RHFactors, s.RH) {
		v.Add("rh", "rh must be +ve or -ve")
	}
	if !ValidEmail(NormalizeEmail(s.Email)) {
		v.Add("email", "a valid email is required")
	}
	ValidatePassword(v, s.Password, s.ConfirmPassword)
	return v.Err()
}

// ValidatePassword records password problems on v.
func ValidatePassword(v *ValidationError, password, confirm string) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		v.Add("password", "password must be at least 6 characters")
	}
	if password != confirm {
		v.Add("confirm_password", "passwords do not match")
	}
}

// Validate checks the first onboarding step.
func (p PersonalInfo) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(p.FullName) == "" {
		v.Add("full_name", "full name is required")
	}
	if p.DateOfBirth != nil && p.DateOfBirth.Year() < 1900 {
		v.Add("date_of_birth", "date of birth is out of range")
	}
	return v.Err()
}

// Validate checks the medical onboarding step.
func (m MedicalInfo) Validate() error {
	v := &ValidationError{}
	if _, ok := ParseBloodType(string(m.BloodType)); !ok {
		v.Add("blood_type", "Please select a blood type")
	}
	if m.HeightCM < MinHeightCM || m.HeightCM > MaxHeightCM {
		v.Add("height", "Height must be between 100 and 250 cm")
	}
	if m.WeightKG < MinWeightKG || m.WeightKG > MaxWeightKG {
		v.Add("weight", "Weight must be between 30 and 200 kg")
	}
	for _, d := range m.ChronicDiseases {
		if !contains(ChronicDiseases, d) {
			v.Add("chronic_diseases", "unknown chronic disease "+d)
		}
	}
	return v.Err()
}

// Validate checks the donate-blood form.
func (d Donation) Validate() error {
	v := &ValidationError{}
	if _, ok := ParseBloodType(string(d.BloodType)); !ok {
		v.Add("blood_group", "Please fill out all fields!")
	}
	if strings.TrimSpace(d.Location) == "" {
		v.Add("location", "Please fill out all fields!")
	}
	if d.AmountML <= 0 || d.AmountML > MaxDonationML {
		v.Add("amount_ml", "donation amount must be between 1 and 1000 ml")
	}
	return v.Err()
}

// Validate checks the request-blood form.
func (r BloodRequest) Validate() error {
	v := &ValidationError{}
	if _, ok := ParseBloodType(string(r.BloodType)); !ok {
		v.Add("blood_group", "a valid blood group is required")
	}
	if r.Units <= 0 || r.Units > MaxUnits {
		v.Add("units", "units must be between 1 and 20")
	}
	if strings.TrimSpace(r.Hospital) == "" && strings.TrimSpace(r.Location) == "" {
		v.Add("location", "hospital or location is required")
	}
	switch r.Urgency {
	case UrgencyNormal, UrgencyUrgent, UrgencyCritical:
	default:
		v.Add("urgency", "urgency must be normal, urgent or critical")
	}
	return v.Err()
}
