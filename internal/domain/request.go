package domain

import "time"

// RequestStatus enumerates blood request lifecycle states.
type RequestStatus string

const (
	RequestStatusOpen     RequestStatus = "open"
	RequestStatusSending  RequestStatus = "sending"
	RequestStatusNotified RequestStatus = "notified"
	RequestStatusFailed   RequestStatus = "failed"
)

// Urgency ranks how soon a request must be fulfilled.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// BloodRequest is a submitted request-blood form. The notification worker
// publishes open requests to matching donors.
type BloodRequest struct {
	ID           string
	UserID       string
	BloodType    BloodType
	Units        int
	Hospital     string
	Location     string
	Urgency      Urgency
	Note         string
	Status       RequestStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
