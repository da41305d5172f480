package models

import "time"

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "PENDING"
	StatusReviewing ApplicationStatus = "REVIEWING"
	StatusAccepted  ApplicationStatus = "ACCEPTED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	UserID      string            `json:"userId"`
	Status      ApplicationStatus `json:"status"`
	Resume      *string           `json:"resume"`
	CoverLetter *string           `json:"coverLetter"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Job         *Job              `json:"job,omitempty"`
	User        *User             `json:"user,omitempty"`
}

// Upload is the stored location of an uploaded file.
type Upload struct {
	URL string `json:"url"`
}
