package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

func TestJobService_List(t *testing.T) {
	api := newFakeAPI()
	api.on("jobs", ok(`{"success":true,"data":{"jobs":[{"id":"j1","title":"Go"}],"pagination":{"total":11,"page":2,"pages":2}}}`))
	s := NewJobService(api)

	page, err := s.List(context.Background(), 2, models.JobFilter{Search: "go", Location: "Riga"})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	require.Equal(t, 11, page.Pagination.Total)

	call := api.callsTo("jobs")[0]
	require.Equal(t, http.MethodGet, call.Method)
	require.Equal(t, map[string]string{"page": "2", "search": "go", "location": "Riga"}, call.Query)
}

func TestJobService_List_DefaultsMissingParts(t *testing.T) {
	api := newFakeAPI()
	api.on("jobs", ok(`{"success":true,"data":{}}`))

	page, err := NewJobService(api).List(context.Background(), 1, models.JobFilter{})
	require.NoError(t, err)
	require.NotNil(t, page.Jobs)
	require.Empty(t, page.Jobs)
	require.Equal(t, models.DefaultPagination(), page.Pagination)
}

func TestJobService_GetEscapesID(t *testing.T) {
	api := newFakeAPI()
	api.on("jobs/a%2Fb", ok(`{"success":true,"data":{"id":"a/b"}}`))

	j, err := NewJobService(api).Get(context.Background(), "a/b")
	require.NoError(t, err)
	require.Equal(t, "a/b", j.ID)
}

func TestJobService_CreateValidates(t *testing.T) {
	api := newFakeAPI()
	s := NewJobService(api)

	_, err := s.Create(context.Background(), models.JobInput{Title: "Only title"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, api.totalCalls())

	api.on("jobs", ok(`{"success":true,"data":{"id":"j9","title":"Go dev"}}`))
	j, err := s.Create(context.Background(), models.JobInput{
		Title: "Go dev", Description: "d", Location: "Remote", Category: "eng", ExperienceLevel: "senior",
	})
	require.NoError(t, err)
	require.Equal(t, "j9", j.ID)
}

func TestJobService_DeleteAndRecommendations(t *testing.T) {
	api := newFakeAPI()
	api.on("jobs/j1", ok(`{"success":true}`))
	api.on("jobs/recommendations", ok(`{"success":true}`))
	s := NewJobService(api)

	require.NoError(t, s.Delete(context.Background(), "j1"))
	require.Equal(t, http.MethodDelete, api.callsTo("jobs/j1")[0].Method)

	recs, err := s.Recommendations(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)

	require.ErrorIs(t, s.Delete(context.Background(), ""), ErrInvalidInput)
}

func TestJobService_PropagatesClientErrors(t *testing.T) {
	api := newFakeAPI()
	api.on("jobs/j1", fail(&client.APIError{StatusCode: 404, Message: "Job not found"}))

	_, err := NewJobService(api).Get(context.Background(), "j1")
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestApplicationService_ApplyAndMine(t *testing.T) {
	api := newFakeAPI()
	api.on("applications", ok(`{"success":true,"data":{"id":"a1","jobId":"j1","status":"PENDING"}}`))
	api.on("user/applications", ok(`{"success":true,"data":[{"id":"a1"},{"id":"a2"}]}`))
	s := NewApplicationService(api)

	a, err := s.Apply(context.Background(), "j1", "hello", "/files/cv.pdf")
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, a.Status)
	require.Equal(t, applyRequest{JobID: "j1", CoverLetter: "hello", Resume: "/files/cv.pdf"}, api.callsTo("applications")[0].Body)

	mine, err := s.Mine(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestApplicationService_UploadResume(t *testing.T) {
	api := newFakeAPI()
	api.on("uploads", ok(`{"success":true,"data":{"url":"https://cdn.example/cv.pdf"}}`))
	s := NewApplicationService(api)

	url, err := s.UploadResume(context.Background(), "/home/ann/cv.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/cv.pdf", url)

	f := api.callsTo("uploads")[0].File
	require.Equal(t, "file", f.Field)
	require.Equal(t, "cv.pdf", f.Name)
	require.Equal(t, []byte("%PDF"), f.Data)

	_, err = s.UploadResume(context.Background(), "cv.pdf", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplicationService_UploadWithoutURL(t *testing.T) {
	api := newFakeAPI()
	api.on("uploads", ok(`{"success":true,"data":{}}`))

	_, err := NewApplicationService(api).UploadResume(context.Background(), "cv.pdf", []byte("x"))
	require.ErrorContains(t, err, "no url")
}

func TestCompanyService(t *testing.T) {
	api := newFakeAPI()
	api.on("company/jobs", ok(`{"success":true,"data":{"jobs":[{"id":"j1"}],"pagination":{"total":1,"page":1,"pages":1,"limit":5}}}`))
	api.on("company/jobs/j1/applications", ok(`{"success":true,"data":[{"id":"a1","status":"REVIEWING"}]}`))
	api.on("company/jobs/j1/applications/a1", ok(`{"success":true}`))
	api.on("company/stats", ok(`{"success":true,"data":{"activeJobs":3}}`))
	api.on("company/profile", ok(`{"success":true,"data":{"companyName":"Acme"}}`))
	s := NewCompanyService(api)
	ctx := context.Background()

	page, err := s.Jobs(ctx, 1, 5, models.JobStatusOpen)
	require.NoError(t, err)
	require.Equal(t, 5, page.Pagination.Limit)
	require.Equal(t, map[string]string{"page": "1", "limit": "5", "status": "OPEN"}, api.callsTo("company/jobs")[0].Query)

	_, err = s.Jobs(ctx, 0, 0, "ARCHIVED")
	require.ErrorIs(t, err, ErrInvalidInput)

	apps, err := s.Applicants(ctx, "j1")
	require.NoError(t, err)
	require.Equal(t, models.StatusReviewing, apps[0].Status)

	require.NoError(t, s.UpdateApplicationStatus(ctx, "j1", "a1", models.StatusAccepted))
	call := api.callsTo("company/jobs/j1/applications/a1")[0]
	require.Equal(t, http.MethodPatch, call.Method)
	require.Equal(t, map[string]string{"status": "ACCEPTED"}, call.Body)

	require.ErrorIs(t, s.UpdateApplicationStatus(ctx, "j1", "a1", "HIRED"), ErrInvalidInput)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, stats["activeJobs"])

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Acme", p.CompanyName)

	_, err = s.UpdateProfile(ctx, models.CompanyProfile{CompanyName: "Acme"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminService(t *testing.T) {
	api := newFakeAPI()
	api.on("admin/users", ok(`{"success":true,"data":[{"id":"u1","role":"USER"}]}`))
	api.on("admin/users/u1/role", ok(`{"success":true}`))
	api.on("admin/applications/a1/status", ok(`{"success":true,"data":{"id":"a1","status":"REJECTED"}}`))
	api.on("admin/stats", ok(`{"success":true,"data":{"users":10}}`))
	s := NewAdminService(api)
	ctx := context.Background()

	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, s.UpdateUserRole(ctx, "u1", models.RoleCompany))
	require.Equal(t, map[string]string{"role": "COMPANY"}, api.callsTo("admin/users/u1/role")[0].Body)
	require.ErrorIs(t, s.UpdateUserRole(ctx, "u1", models.Role("root")), ErrInvalidInput)

	a, err := s.UpdateApplicationStatus(ctx, "a1", models.StatusRejected)
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, a.Status)

	_, err = s.UpdateApplicationStatus(ctx, "a1", "rejected")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, api.callsTo("admin/applications/a1/status"), 1)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 10, stats["users"])
}

func TestProfileService(t *testing.T) {
	api := newFakeAPI()
	api.on("user/profile", ok(`{"success":true,"data":{"name":"Ann","email":"ann@example.com"}}`))
	s := NewProfileService(api)

	p, err := s.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ann", p.Name)

	_, err = s.Update(context.Background(), models.Profile{Name: "Ann B"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, api.callsTo("user/profile")[1].Method)
}
