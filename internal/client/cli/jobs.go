package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
	"github.com/dmitrijs2005/jobboard/internal/filex"
)

const maxResumeSize = 5 << 20

// Jobs prints the first page of open listings, optionally filtered by a
// free-text search.
func (a *App) Jobs(ctx context.Context, search string) error {
	page, err := a.jobs.List(ctx, 1, models.JobFilter{Search: search})
	if err != nil {
		return a.report(err)
	}

	if len(page.Jobs) == 0 {
		printlnFn("No jobs found")
		return nil
	}
	for _, j := range page.Jobs {
		printlnFn(fmt.Sprintf("%s  %s @ %s (%s)", j.ID, j.Title, j.Company, j.Location))
	}
	p := page.Pagination
	printlnFn(fmt.Sprintf("Page %d of %d, %d total", p.Page, p.Pages, p.Total))
	return nil
}

func (a *App) Job(ctx context.Context, id string) error {
	j, err := a.jobs.Get(ctx, id)
	if err != nil {
		return a.report(err)
	}

	printlnFn(fmt.Sprintf("%s\n%s, %s", j.Title, j.Company, j.Location))
	details := []string{j.Category, j.ExperienceLevel}
	if j.EmploymentType != "" {
		details = append(details, j.EmploymentType)
	}
	if j.Remote {
		details = append(details, "remote")
	}
	printlnFn(strings.Join(details, " | "))
	if j.Salary != nil {
		printlnFn(fmt.Sprintf("Salary: %.0f", *j.Salary))
	}
	printlnFn("")
	printlnFn(j.Description)
	return nil
}

// Apply asks for a cover letter and applies to jobID, attaching the resume
// uploaded last in this session, if any.
func (a *App) Apply(ctx context.Context, jobID string) error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return nil
	}

	letter, err := getMultiline(a.reader, "Cover letter (finish with an empty line)", a.out)
	if err != nil {
		return err
	}

	a.mu.Lock()
	resume := a.lastResume
	a.mu.Unlock()

	app, err := a.applications.Apply(ctx, jobID, letter, resume)
	if err != nil {
		return a.report(err)
	}
	printlnFn(fmt.Sprintf("Applied, application %s is %s", app.ID, app.Status))
	return nil
}

func (a *App) MyApplications(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return nil
	}

	apps, err := a.applications.Mine(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(apps) == 0 {
		printlnFn("No applications yet")
		return nil
	}
	for _, app := range apps {
		title := app.JobID
		if app.Job != nil {
			title = app.Job.Title
		}
		printlnFn(fmt.Sprintf("%s  %-10s %s", app.ID, app.Status, title))
	}
	return nil
}

// Upload sends a resume file. Its URL is attached to later applications.
func (a *App) Upload(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return nil
	}

	data, err := filex.ReadFileLimit(path, maxResumeSize)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	url, err := a.applications.UploadResume(ctx, filepath.Base(path), data)
	if err != nil {
		return a.report(err)
	}

	a.mu.Lock()
	a.lastResume = url
	a.mu.Unlock()

	printlnFn("Uploaded:", url)
	return nil
}
