package models

type CompanyProfile struct {
	CompanyName string `json:"companyName" validate:"required"`
	Description string `json:"description" validate:"required"`
	Industry    string `json:"industry" validate:"required"`
	Size        string `json:"size" validate:"required"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Location    string `json:"location" validate:"required"`
	Logo        string `json:"logo,omitempty"`
}

// Profile is the signed-in user's editable profile.
type Profile struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Resume   string   `json:"resume,omitempty"`
}

// Stats holds dashboard counters. Keys differ between the admin and company
// dashboards, so values are kept loosely typed.
type Stats map[string]any
