package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// MemoryDB is a Store kept in process memory. It backs memory:// URLs and tests.
type MemoryDB struct {
	mu sync.RWMutex

	jobs         []types.Job
	applications []types.Application
	resumes      []types.Resume
	users        []UserRecord

	nextJobID         int64
	nextApplicationID int64
	nextResumeID      int64

	now func() time.Time
}

// NewMemoryDB returns an empty in-memory store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{now: time.Now}
}

// Ping always succeeds.
func (m *MemoryDB) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryDB) Close() {}

// ListJobs implements JobStore.
func (m *MemoryDB) ListJobs(_ context.Context, filters types.JobFilters) ([]types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]types.Job, 0, len(m.jobs))
	for i := range m.jobs {
		if filters.Matches(&m.jobs[i]) {
			result = append(result, cloneJob(m.jobs[i]))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].PostedAt.Equal(result[j].PostedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].PostedAt.After(result[j].PostedAt)
	})
	return result, nil
}

// GetJob implements JobStore.
func (m *MemoryDB) GetJob(_ context.Context, id int64) (*types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job := m.findJob(id)
	if job == nil {
		return nil, nil
	}
	c := cloneJob(*job)
	return &c, nil
}

// CreateJob implements JobStore.
func (m *MemoryDB) CreateJob(_ context.Context, in *types.NewJob) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	m.nextJobID++
	job := types.Job{
		ID:          m.nextJobID,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		Description: in.Description,
		JobType:     in.JobType,
		WorkMode:    in.WorkMode,
		SalaryRange: in.SalaryRange,
		Skills:      append([]string(nil), in.Skills...),
		ExternalURL: in.ExternalURL,
		PostedAt:    now,
		CreatedAt:   now,
	}
	if !in.PostedAt.IsZero() {
		job.PostedAt = in.PostedAt.UTC()
	}
	m.jobs = append(m.jobs, job)

	c := cloneJob(job)
	return &c, nil
}

// CountJobs implements JobStore.
func (m *MemoryDB) CountJobs(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs), nil
}

// CreateApplication implements ApplicationStore.
func (m *MemoryDB) CreateApplication(_ context.Context, in *types.NewApplication) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	m.nextApplicationID++
	app := types.Application{
		ID:        m.nextApplicationID,
		UserID:    in.UserID,
		JobID:     in.JobID,
		Status:    in.Status,
		Notes:     in.Notes,
		AppliedAt: now,
		UpdatedAt: now,
	}
	m.applications = append(m.applications, app)
	return &app, nil
}

// GetApplication implements ApplicationStore.
func (m *MemoryDB) GetApplication(_ context.Context, userID uuid.UUID, id int64) (*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, app := range m.applications {
		if app.ID == id && app.UserID == userID {
			return &app, nil
		}
	}
	return nil, nil
}

// UpdateApplicationStatus implements ApplicationStore.
func (m *MemoryDB) UpdateApplicationStatus(_ context.Context, userID uuid.UUID, id int64, status types.ApplicationStatus) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.applications {
		app := &m.applications[i]
		if app.ID == id && app.UserID == userID {
			app.Status = status
			app.UpdatedAt = m.now().UTC()
			updated := *app
			return &updated, nil
		}
	}
	return nil, nil
}

// ListApplicationsWithJobs implements ApplicationStore.
func (m *MemoryDB) ListApplicationsWithJobs(_ context.Context, userID uuid.UUID) ([]types.ApplicationWithJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]types.ApplicationWithJob, 0)
	for _, app := range m.applications {
		if app.UserID != userID {
			continue
		}
		job := m.findJob(app.JobID)
		if job == nil {
			continue
		}
		result = append(result, types.ApplicationWithJob{Application: app, Job: cloneJob(*job)})
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].AppliedAt.Equal(result[j].AppliedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	return result, nil
}

// CreateResume implements ResumeStore.
func (m *MemoryDB) CreateResume(_ context.Context, in *types.NewResume) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	m.nextResumeID++
	resume := types.Resume{
		ID:        m.nextResumeID,
		UserID:    in.UserID,
		FileName:  in.FileName,
		Content:   in.Content,
		FileURL:   in.FileURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.resumes = append(m.resumes, resume)
	return &resume, nil
}

// GetCurrentResume implements ResumeStore.
func (m *MemoryDB) GetCurrentResume(_ context.Context, userID uuid.UUID) (*types.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.resumes) - 1; i >= 0; i-- {
		if m.resumes[i].UserID == userID {
			r := m.resumes[i]
			return &r, nil
		}
	}
	return nil, nil
}

// UpdateResumeContent implements ResumeStore.
func (m *MemoryDB) UpdateResumeContent(_ context.Context, userID uuid.UUID, id int64, content string) (*types.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.resumes {
		r := &m.resumes[i]
		if r.ID == id && r.UserID == userID {
			r.Content = content
			r.UpdatedAt = m.now().UTC()
			updated := *r
			return &updated, nil
		}
	}
	return nil, nil
}

// CreateUser implements UserStore.
func (m *MemoryDB) CreateUser(_ context.Context, in *types.NewUser) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(in.Email)
	for _, u := range m.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	now := m.now().UTC()
	rec := UserRecord{
		User: types.User{
			ID:        uuid.New(),
			Name:      in.Name,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: in.PasswordHash,
	}
	m.users = append(m.users, rec)
	u := rec.User
	return &u, nil
}

// GetUserByID implements UserStore.
func (m *MemoryDB) GetUserByID(_ context.Context, id uuid.UUID) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.users {
		if rec.ID == id {
			u := rec.User
			return &u, nil
		}
	}
	return nil, nil
}

// GetUserByEmail implements UserStore.
func (m *MemoryDB) GetUserByEmail(_ context.Context, email string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = strings.ToLower(email)
	for _, rec := range m.users {
		if rec.Email == email {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemoryDB) findJob(id int64) *types.Job {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			return &m.jobs[i]
		}
	}
	return nil
}

func cloneJob(j types.Job) types.Job {
	j.Skills = append([]string(nil), j.Skills...)
	return j
}
