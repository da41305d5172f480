package models

import (
	"strconv"
	"time"
)

type Job struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	ExperienceLevel string    `json:"experienceLevel"`
	Category        string    `json:"category"`
	EmploymentType  string    `json:"employmentType,omitempty"`
	Remote          bool      `json:"remote,omitempty"`
	Salary          *float64  `json:"salary"`
	Status          string    `json:"status,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Count           *Count    `json:"_count,omitempty"`
}

// JobInput is the body for creating or updating a listing.
type JobInput struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	Category        string   `json:"category" validate:"required"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required"`
	EmploymentType  string   `json:"employmentType,omitempty"`
	Salary          *float64 `json:"salary,omitempty" validate:"omitempty,gte=0"`
	Remote          *bool    `json:"remote,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
	Benefits        []string `json:"benefits,omitempty"`
}

// Company job listing states.
const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
	JobStatusDraft  = "DRAFT"
)

type Pagination struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Limit   int  `json:"limit,omitempty"`
	HasMore bool `json:"hasMore,omitempty"`
}

// DefaultPagination is used when a listing response omits pagination.
func DefaultPagination() Pagination {
	return Pagination{Total: 0, Page: 1, Pages: 1}
}

type JobPage struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

// JobFilter narrows a job search. Zero fields are not sent.
type JobFilter struct {
	Search          string
	Location        string
	Category        string
	ExperienceLevel string
	SalaryMin       int
	SalaryMax       int
	EmploymentType  string
	Remote          *bool
}

// Params renders f and page as query parameters.
func (f JobFilter) Params(page int) map[string]string {
	if page < 1 {
		page = 1
	}
	p := map[string]string{"page": strconv.Itoa(page)}

	set := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	set("search", f.Search)
	set("location", f.Location)
	set("category", f.Category)
	set("experienceLevel", f.ExperienceLevel)
	set("employmentType", f.EmploymentType)
	if f.SalaryMin > 0 {
		p["salary_min"] = strconv.Itoa(f.SalaryMin)
	}
	if f.SalaryMax > 0 {
		p["salary_max"] = strconv.Itoa(f.SalaryMax)
	}
	if f.Remote != nil {
		p["remote"] = strconv.FormatBool(*f.Remote)
	}
	return p
}
