package db

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// ErrDuplicateEmail is returned by CreateUser when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Lookups return nil, nil when the row does not exist.

// JobStore reads and writes the job catalog.
type JobStore interface {
	// ListJobs returns the jobs matching filters ordered by posting time, newest first.
	ListJobs(ctx context.Context, filters types.JobFilters) ([]types.Job, error)
	GetJob(ctx context.Context, id int64) (*types.Job, error)
	CreateJob(ctx context.Context, job *types.NewJob) (*types.Job, error)
	CountJobs(ctx context.Context) (int, error)
}

// ApplicationStore persists a user's applications. Every lookup is scoped to userID.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *types.NewApplication) (*types.Application, error)
	GetApplication(ctx context.Context, userID uuid.UUID, id int64) (*types.Application, error)
	UpdateApplicationStatus(ctx context.Context, userID uuid.UUID, id int64, status types.ApplicationStatus) (*types.Application, error)
	// ListApplicationsWithJobs returns the user's applications newest first, each joined to its job.
	ListApplicationsWithJobs(ctx context.Context, userID uuid.UUID) ([]types.ApplicationWithJob, error)
}

// ResumeStore persists uploaded resumes. The current resume is the most recently created one.
type ResumeStore interface {
	CreateResume(ctx context.Context, resume *types.NewResume) (*types.Resume, error)
	GetCurrentResume(ctx context.Context, userID uuid.UUID) (*types.Resume, error)
	UpdateResumeContent(ctx context.Context, userID uuid.UUID, id int64, content string) (*types.Resume, error)
}

// UserRecord is a stored account including its password hash.
type UserRecord struct {
	types.User
	PasswordHash string
}

// UserStore persists accounts. Emails are stored lower-cased.
type UserStore interface {
	CreateUser(ctx context.Context, user *types.NewUser) (*types.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	JobStore
	ApplicationStore
	ResumeStore
	UserStore
	Ping(ctx context.Context) error
	Close()
}
