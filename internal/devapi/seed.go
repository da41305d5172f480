package devapi

import (
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

// Demo accounts created when seeding is enabled.
const (
	SeedAdminEmail   = "admin@jobboard.dev"
	SeedCompanyEmail = "hiring@acme.dev"
	SeedSeekerEmail  = "seeker@jobboard.dev"
	SeedPassword     = "password123"
)

func (s *Server) seed() error {
	if _, err := s.CreateUser("Admin", SeedAdminEmail, SeedPassword, models.WireRoleAdmin); err != nil {
		return err
	}
	acme, err := s.CreateUser("Acme Hiring", SeedCompanyEmail, SeedPassword, models.WireRoleCompany)
	if err != nil {
		return err
	}
	if _, err := s.CreateUser("Sam Seeker", SeedSeekerEmail, SeedPassword, models.WireRoleUser); err != nil {
		return err
	}

	if _, err := s.store.setCompanyProfile(acme.ID, models.CompanyProfile{
		CompanyName: "Acme Corp",
		Description: "Makers of everything.",
		Industry:    "Manufacturing",
		Size:        "51-200",
		Website:     "https://acme.dev",
		Location:    "Riga",
	}); err != nil {
		return err
	}

	salary := func(v float64) *float64 { return &v }
	remote := true
	for _, in := range []models.JobInput{
		{Title: "Backend Engineer", Description: "Go services and Postgres.", Location: "Riga", Category: "Engineering", ExperienceLevel: "MID", EmploymentType: "FULL_TIME", Salary: salary(4200)},
		{Title: "Frontend Engineer", Description: "React and TypeScript.", Location: "Remote", Category: "Engineering", ExperienceLevel: "SENIOR", EmploymentType: "FULL_TIME", Salary: salary(5000), Remote: &remote},
		{Title: "Product Designer", Description: "Own the design system.", Location: "Vilnius", Category: "Design", ExperienceLevel: "MID", EmploymentType: "CONTRACT", Salary: salary(3800)},
		{Title: "Support Intern", Description: "Help our customers.", Location: "Tallinn", Category: "Support", ExperienceLevel: "ENTRY", EmploymentType: "INTERNSHIP"},
	} {
		s.store.createJob(acme.ID, in)
	}
	return nil
}
