package domain

// BloodBank is a directory entry.
type BloodBank struct {
	ID          string
	Name        string
	Address     string
	City        string
	CountryCode string
	Phone       string
	OpenHours   string
}
