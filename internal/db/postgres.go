package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

const uniqueViolation = "23505"

// PostgresDB is a Store backed by a PostgreSQL connection pool.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool to the database.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Migrate applies the embedded PostgreSQL migrations.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	return runMigrations(ctx, stdlib.OpenDBFromPool(db.pool), goose.DialectPostgres, "migrations/postgres")
}

// Ping verifies the pool can reach the server.
func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the connection pool.
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const pgJobColumns = `id, title, company, location, description, job_type, work_mode,
	salary_range, skills, external_url, posted_at, created_at`

func scanPGJob(row pgx.Row) (*types.Job, error) {
	var j types.Job
	var jobType, workMode string
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &jobType, &workMode,
		&j.SalaryRange, &j.Skills, &j.ExternalURL, &j.PostedAt, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	j.JobType = types.JobType(jobType)
	j.WorkMode = types.WorkMode(workMode)
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return &j, nil
}

// ListJobs implements JobStore.
func (db *PostgresDB) ListJobs(ctx context.Context, filters types.JobFilters) ([]types.Job, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Search != "" {
		p := arg(likePattern(filters.Search))
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s OR company ILIKE %[1]s)", p))
	}
	if filters.Location != "" {
		conds = append(conds, "location ILIKE "+arg(likePattern(filters.Location)))
	}
	if filters.Type != "" {
		conds = append(conds, "job_type = "+arg(string(filters.Type)))
	}
	if filters.WorkMode != "" {
		conds = append(conds, "work_mode = "+arg(string(filters.WorkMode)))
	}

	query := "SELECT " + pgJobColumns + " FROM jobs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY posted_at DESC, id DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		j, err := scanPGJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// GetJob implements JobStore.
func (db *PostgresDB) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	j, err := scanPGJob(db.pool.QueryRow(ctx, "SELECT "+pgJobColumns+" FROM jobs WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// CreateJob implements JobStore.
func (db *PostgresDB) CreateJob(ctx context.Context, in *types.NewJob) (*types.Job, error) {
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	var postedAt any
	if !in.PostedAt.IsZero() {
		postedAt = in.PostedAt
	}

	j, err := scanPGJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, company, location, description, job_type, work_mode,
		                   salary_range, skills, external_url, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10::timestamptz, NOW()))
		 RETURNING `+pgJobColumns,
		in.Title, in.Company, in.Location, in.Description, string(in.JobType), string(in.WorkMode),
		in.SalaryRange, skills, in.ExternalURL, postedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// CountJobs implements JobStore.
func (db *PostgresDB) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM jobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

const pgApplicationColumns = "id, user_id, job_id, status, notes, applied_at, updated_at"

func scanPGApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var status string
	if err := row.Scan(&a.ID, &a.UserID, &a.JobID, &status, &a.Notes, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = types.ApplicationStatus(status)
	return &a, nil
}

// CreateApplication implements ApplicationStore.
func (db *PostgresDB) CreateApplication(ctx context.Context, in *types.NewApplication) (*types.Application, error) {
	a, err := scanPGApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_id, status, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+pgApplicationColumns,
		in.UserID, in.JobID, string(in.Status), in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// GetApplication implements ApplicationStore.
func (db *PostgresDB) GetApplication(ctx context.Context, userID uuid.UUID, id int64) (*types.Application, error) {
	a, err := scanPGApplication(db.pool.QueryRow(ctx,
		"SELECT "+pgApplicationColumns+" FROM applications WHERE id = $1 AND user_id = $2",
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// UpdateApplicationStatus implements ApplicationStore.
func (db *PostgresDB) UpdateApplicationStatus(ctx context.Context, userID uuid.UUID, id int64, status types.ApplicationStatus) (*types.Application, error) {
	a, err := scanPGApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+pgApplicationColumns,
		string(status), id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return a, nil
}

// ListApplicationsWithJobs implements ApplicationStore.
func (db *PostgresDB) ListApplicationsWithJobs(ctx context.Context, userID uuid.UUID) ([]types.ApplicationWithJob, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.notes, a.applied_at, a.updated_at,
		        j.id, j.title, j.company, j.location, j.description, j.job_type, j.work_mode,
		        j.salary_range, j.skills, j.external_url, j.posted_at, j.created_at
		 FROM applications a
		 INNER JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1
		 ORDER BY a.applied_at DESC, a.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	result := make([]types.ApplicationWithJob, 0)
	for rows.Next() {
		var aw types.ApplicationWithJob
		var status, jobType, workMode string
		err := rows.Scan(&aw.ID, &aw.UserID, &aw.JobID, &status, &aw.Notes, &aw.AppliedAt, &aw.UpdatedAt,
			&aw.Job.ID, &aw.Job.Title, &aw.Job.Company, &aw.Job.Location, &aw.Job.Description, &jobType, &workMode,
			&aw.Job.SalaryRange, &aw.Job.Skills, &aw.Job.ExternalURL, &aw.Job.PostedAt, &aw.Job.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		aw.Status = types.ApplicationStatus(status)
		aw.Job.JobType = types.JobType(jobType)
		aw.Job.WorkMode = types.WorkMode(workMode)
		result = append(result, aw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return result, nil
}

const pgResumeColumns = "id, user_id, file_name, content, file_url, created_at, updated_at"

func scanPGResume(row pgx.Row) (*types.Resume, error) {
	var r types.Resume
	if err := row.Scan(&r.ID, &r.UserID, &r.FileName, &r.Content, &r.FileURL, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume implements ResumeStore.
func (db *PostgresDB) CreateResume(ctx context.Context, in *types.NewResume) (*types.Resume, error) {
	r, err := scanPGResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, file_name, content, file_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+pgResumeColumns,
		in.UserID, in.FileName, in.Content, in.FileURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetCurrentResume implements ResumeStore.
func (db *PostgresDB) GetCurrentResume(ctx context.Context, userID uuid.UUID) (*types.Resume, error) {
	r, err := scanPGResume(db.pool.QueryRow(ctx,
		"SELECT "+pgResumeColumns+" FROM resumes WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1",
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResumeContent implements ResumeStore.
func (db *PostgresDB) UpdateResumeContent(ctx context.Context, userID uuid.UUID, id int64, content string) (*types.Resume, error) {
	r, err := scanPGResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET content = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+pgResumeColumns,
		content, id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// CreateUser implements UserStore.
func (db *PostgresDB) CreateUser(ctx context.Context, in *types.NewUser) (*types.User, error) {
	var u types.User
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, created_at, updated_at`,
		uuid.New(), in.Name, strings.ToLower(in.Email), in.PasswordHash,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetUserByID implements UserStore.
func (db *PostgresDB) GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	var u types.User
	err := db.pool.QueryRow(ctx,
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1", id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail implements UserStore.
func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	var rec UserRecord
	err := db.pool.QueryRow(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = $1",
		strings.ToLower(email),
	).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &rec, nil
}
