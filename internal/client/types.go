package client

// Session is returned by sign up and sign in.
type Session struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      Profile `json:"user"`
}

type SignUpInput struct {
	FullName        string `json:"full_name"`
	ContactNo       string `json:"contact_no"`
	Address         string `json:"address"`
	BloodGroup      string `json:"blood_group"`
	RH              string `json:"rh"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Profile mirrors the user document served by /v1/me.
type Profile struct {
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

type Series struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Dashboard struct {
	Series           Series         `json:"series"`
	LivesSaved       int            `json:"lives_saved"`
	LastUpdated      *string        `json:"last_updated"`
	LastUpdatedHuman string         `json:"last_updated_human"`
	Notifications    []Notification `json:"notifications"`
}

type DonationInput struct {
	BloodGroup string `json:"blood_group"`
	Location   string `json:"location"`
	AmountML   int    `json:"amount_ml"`
}

type Donation struct {
	ID        string `json:"id"`
	BloodType string `json:"blood_type"`
	Location  string `json:"location"`
	AmountML  int    `json:"amount_ml"`
	CreatedAt string `json:"created_at"`
	Message   string `json:"message"`
}

type BloodRequestInput struct {
	BloodGroup string `json:"blood_group"`
	Units      int    `json:"units"`
	Hospital   string `json:"hospital"`
	Location   string `json:"location"`
	Urgency    string `json:"urgency,omitempty"`
	Note       string `json:"note,omitempty"`
}

type BloodRequest struct {
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

type BloodBank struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	OpenHours   string `json:"open_hours"`
}

type BloodBankList struct {
	Country string      `json:"country"`
	Items   []BloodBank `json:"items"`
}
