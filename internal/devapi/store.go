package devapi

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobboard/internal/client/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrForbidden     = errors.New("forbidden")
	ErrClosed        = errors.New("job is not accepting applications")
)

type account struct {
	user     models.User
	password []byte
	profile  models.Profile
	company  *models.CompanyProfile
}

type jobRecord struct {
	job          models.Job
	ownerID      string
	requirements []string
	benefits     []string
}

type upload struct {
	name string
	data []byte
}

// memStore keeps every entity in maps guarded by one RWMutex. Returned
// values are copies; callers never hold pointers into the store.
type memStore struct {
	now func() time.Time

	mu           sync.RWMutex
	accounts     map[string]*account
	byEmail      map[string]string
	jobs         map[string]*jobRecord
	jobOrder     []string
	applications map[string]*models.Application
	uploads      map[string]upload
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		now:          now,
		accounts:     map[string]*account{},
		byEmail:      map[string]string{},
		jobs:         map[string]*jobRecord{},
		applications: map[string]*models.Application{},
		uploads:      map[string]upload{},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *memStore) createAccount(name, email, wireRole string, hash []byte) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(email)
	if _, ok := m.byEmail[key]; ok {
		return models.User{}, ErrAlreadyExists
	}

	u := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    key,
		Role:     models.RoleFromWire(wireRole).Wire(),
		IsActive: true,
	}
	m.accounts[u.ID] = &account{
		user:     u,
		password: hash,
		profile:  models.Profile{ID: u.ID, Name: u.Name, Email: u.Email},
	}
	m.byEmail[key] = u.ID
	return u, nil
}

// credentials returns the user and password hash for email.
func (m *memStore) credentials(email string) (models.User, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return models.User{}, nil, ErrNotFound
	}
	a := m.accounts[id]
	return a.user, a.password, nil
}

func (m *memStore) user(id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return a.user, nil
}

func (m *memStore) users() []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.accounts))
	for _, a := range m.accounts {
		u := a.user
		u.Count = &models.Count{Applications: m.countApplications(func(ap *models.Application) bool {
			return ap.UserID == u.ID
		})}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b models.User) int { return strings.Compare(a.Email, b.Email) })
	return out
}

func (m *memStore) setRole(id, wireRole string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	a.user.Role = wireRole
	return a.user, nil
}

func (m *memStore) profile(id string) (models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	p := a.profile
	p.Skills = slices.Clone(p.Skills)
	return p, nil
}

// updateProfile applies the editable fields of p. The email and id never
// change; a non-empty name is mirrored into the user record.
func (m *memStore) updateProfile(id string, p models.Profile) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	if p.Name != "" {
		a.profile.Name = p.Name
		a.user.Name = p.Name
	}
	a.profile.Phone = p.Phone
	a.profile.Location = p.Location
	a.profile.Bio = p.Bio
	a.profile.Skills = slices.Clone(p.Skills)
	a.profile.Resume = p.Resume

	out := a.profile
	out.Skills = slices.Clone(out.Skills)
	return out, nil
}

func (m *memStore) companyProfile(id string) (models.CompanyProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok || a.company == nil {
		return models.CompanyProfile{}, ErrNotFound
	}
	return *a.company, nil
}

func (m *memStore) setCompanyProfile(id string, p models.CompanyProfile) (models.CompanyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return models.CompanyProfile{}, ErrNotFound
	}
	a.company = &p

	for _, j := range m.jobs {
		if j.ownerID == id {
			j.job.Company = p.CompanyName
		}
	}
	return p, nil
}

// companyName is the display name used on listings; caller holds the lock.
func (m *memStore) companyName(ownerID string) string {
	a, ok := m.accounts[ownerID]
	if !ok {
		return ""
	}
	if a.company != nil && a.company.CompanyName != "" {
		return a.company.CompanyName
	}
	return a.user.Name
}

func (m *memStore) createJob(ownerID string, in models.JobInput) models.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec := &jobRecord{
		job: models.Job{
			ID:        uuid.NewString(),
			Company:   m.companyName(ownerID),
			Status:    models.JobStatusOpen,
			CreatedAt: now,
			UpdatedAt: now,
		},
		ownerID: ownerID,
	}
	applyJobInput(rec, in)

	m.jobs[rec.job.ID] = rec
	m.jobOrder = append(m.jobOrder, rec.job.ID)
	return m.jobView(rec)
}

func applyJobInput(rec *jobRecord, in models.JobInput) {
	rec.job.Title = in.Title
	rec.job.Description = in.Description
	rec.job.Location = in.Location
	rec.job.Category = in.Category
	rec.job.ExperienceLevel = in.ExperienceLevel
	rec.job.EmploymentType = in.EmploymentType
	rec.job.Salary = in.Salary
	if in.Remote != nil {
		rec.job.Remote = *in.Remote
	}
	rec.requirements = slices.Clone(in.Requirements)
	rec.benefits = slices.Clone(in.Benefits)
}

// jobView copies rec with its application counter; caller holds the lock.
func (m *memStore) jobView(rec *jobRecord) models.Job {
	j := rec.job
	if j.Salary != nil {
		s := *j.Salary
		j.Salary = &s
	}
	j.Count = &models.Count{Applications: m.countApplications(func(ap *models.Application) bool {
		return ap.JobID == j.ID
	})}
	return j
}

func (m *memStore) countApplications(match func(*models.Application) bool) int {
	n := 0
	for _, ap := range m.applications {
		if match(ap) {
			n++
		}
	}
	return n
}

func (m *memStore) job(id string) (models.Job, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.jobs[id]
	if !ok {
		return models.Job{}, "", ErrNotFound
	}
	return m.jobView(rec), rec.ownerID, nil
}

// editJob runs fn on the job if actor owns it or isAdmin is set.
func (m *memStore) editJob(id, actorID string, isAdmin bool, fn func(*jobRecord)) (models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.jobs[id]
	if !ok {
		return models.Job{}, ErrNotFound
	}
	if rec.ownerID != actorID && !isAdmin {
		return models.Job{}, ErrForbidden
	}
	fn(rec)
	rec.job.UpdatedAt = m.now()
	return m.jobView(rec), nil
}

func (m *memStore) deleteJob(id, actorID string, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if rec.ownerID != actorID && !isAdmin {
		return ErrForbidden
	}
	delete(m.jobs, id)
	m.jobOrder = slices.DeleteFunc(m.jobOrder, func(s string) bool { return s == id })
	for aid, ap := range m.applications {
		if ap.JobID == id {
			delete(m.applications, aid)
		}
	}
	return nil
}

// listJobs returns jobs accepted by keep, newest first.
func (m *memStore) listJobs(keep func(models.Job, string) bool) []models.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Job
	for i := len(m.jobOrder) - 1; i >= 0; i-- {
		rec := m.jobs[m.jobOrder[i]]
		if keep(rec.job, rec.ownerID) {
			out = append(out, m.jobView(rec))
		}
	}
	return out
}

func (m *memStore) apply(userID, jobID, coverLetter, resume string) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.jobs[jobID]
	if !ok {
		return models.Application{}, ErrNotFound
	}
	if rec.job.Status != models.JobStatusOpen {
		return models.Application{}, ErrClosed
	}
	for _, ap := range m.applications {
		if ap.JobID == jobID && ap.UserID == userID {
			return models.Application{}, ErrAlreadyExists
		}
	}

	now := m.now()
	ap := &models.Application{
		ID:        uuid.NewString(),
		JobID:     jobID,
		UserID:    userID,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if coverLetter != "" {
		ap.CoverLetter = &coverLetter
	}
	if resume != "" {
		ap.Resume = &resume
	}
	m.applications[ap.ID] = ap
	return *ap, nil
}

// applicationsWhere returns matches newest first, with the job and the
// applicant attached.
func (m *memStore) applicationsWhere(match func(*models.Application) bool) []models.Application {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Application{}
	for _, ap := range m.applications {
		if !match(ap) {
			continue
		}
		v := *ap
		if rec, ok := m.jobs[ap.JobID]; ok {
			j := m.jobView(rec)
			v.Job = &j
		}
		if a, ok := m.accounts[ap.UserID]; ok {
			u := a.user
			v.User = &u
		}
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b models.Application) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

// setApplicationStatus updates an application. A non-empty jobID must match
// the application's job.
func (m *memStore) setApplicationStatus(id, jobID string, status models.ApplicationStatus) (models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ap, ok := m.applications[id]
	if !ok || (jobID != "" && ap.JobID != jobID) {
		return models.Application{}, ErrNotFound
	}
	ap.Status = status
	ap.UpdatedAt = m.now()
	return *ap, nil
}

func (m *memStore) saveUpload(name string, data []byte) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.uploads[id] = upload{name: name, data: data}
	m.mu.Unlock()
	return id
}

func (m *memStore) upload(id string) (upload, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.uploads[id]
	return u, ok
}

type counts struct {
	users, companies, jobs, openJobs, applications, pending int
}

// tally counts entities, restricted to ownerID's listings when non-empty.
func (m *memStore) tally(ownerID string) counts {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var c counts
	for _, a := range m.accounts {
		c.users++
		if a.user.Role == models.WireRoleCompany {
			c.companies++
		}
	}
	owned := map[string]bool{}
	for id, rec := range m.jobs {
		if ownerID != "" && rec.ownerID != ownerID {
			continue
		}
		owned[id] = true
		c.jobs++
		if rec.job.Status == models.JobStatusOpen {
			c.openJobs++
		}
	}
	for _, ap := range m.applications {
		if !owned[ap.JobID] {
			continue
		}
		c.applications++
		if ap.Status == models.StatusPending {
			c.pending++
		}
	}
	return c
}
