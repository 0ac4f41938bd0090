package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// SQLiteDB is a Store backed by an embedded SQLite database.
type SQLiteDB struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path. ":memory:" gives a private
// in-memory database that lives as long as the returned store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1) // single writer; also keeps :memory: on one connection

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: conn, now: time.Now}, nil
}

// Migrate applies the embedded SQLite migrations.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db, goose.DialectSQLite3, "migrations/sqlite")
}

// Ping verifies the database is reachable.
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteDB) Close() {
	_ = s.db.Close()
}

func (s *SQLiteDB) timestamp() string {
	return formatTime(s.now())
}

type rowScanner interface {
	Scan(dest ...any) error
}

const liteJobColumns = `id, title, company, location, description, job_type, work_mode,
	salary_range, skills, external_url, posted_at, created_at`

func scanLiteJob(row rowScanner) (*types.Job, error) {
	var j types.Job
	var jobType, workMode, skills, postedAt, createdAt string
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &jobType, &workMode,
		&j.SalaryRange, &skills, &j.ExternalURL, &postedAt, &createdAt)
	if err != nil {
		return nil, err
	}
	if err := fillLiteJob(&j, jobType, workMode, skills, postedAt, createdAt); err != nil {
		return nil, err
	}
	return &j, nil
}

func fillLiteJob(j *types.Job, jobType, workMode, skills, postedAt, createdAt string) error {
	j.JobType = types.JobType(jobType)
	j.WorkMode = types.WorkMode(workMode)
	j.Skills = []string{}
	if skills != "" {
		if err := json.Unmarshal([]byte(skills), &j.Skills); err != nil {
			return fmt.Errorf("failed to decode skills: %w", err)
		}
	}
	var err error
	if j.PostedAt, err = parseTime(postedAt); err != nil {
		return err
	}
	if j.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	return nil
}

// ListJobs implements JobStore. Matching uses lower() LIKE, which folds ASCII only.
func (s *SQLiteDB) ListJobs(ctx context.Context, filters types.JobFilters) ([]types.Job, error) {
	var conds []string
	var args []any

	if filters.Search != "" {
		p := likePattern(strings.ToLower(filters.Search))
		conds = append(conds, `(lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\' OR lower(company) LIKE ? ESCAPE '\')`)
		args = append(args, p, p, p)
	}
	if filters.Location != "" {
		conds = append(conds, `lower(location) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(strings.ToLower(filters.Location)))
	}
	if filters.Type != "" {
		conds = append(conds, "job_type = ?")
		args = append(args, string(filters.Type))
	}
	if filters.WorkMode != "" {
		conds = append(conds, "work_mode = ?")
		args = append(args, string(filters.WorkMode))
	}

	query := "SELECT " + liteJobColumns + " FROM jobs"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY posted_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		j, err := scanLiteJob(rows)
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
func (s *SQLiteDB) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	j, err := scanLiteJob(s.db.QueryRowContext(ctx, "SELECT "+liteJobColumns+" FROM jobs WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// CreateJob implements JobStore.
func (s *SQLiteDB) CreateJob(ctx context.Context, in *types.NewJob) (*types.Job, error) {
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("failed to encode skills: %w", err)
	}

	now := s.timestamp()
	postedAt := now
	if !in.PostedAt.IsZero() {
		postedAt = formatTime(in.PostedAt)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (title, company, location, description, job_type, work_mode,
		                   salary_range, skills, external_url, posted_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Company, in.Location, in.Description, string(in.JobType), string(in.WorkMode),
		in.SalaryRange, string(skillsJSON), in.ExternalURL, postedAt, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read job id: %w", err)
	}
	return s.GetJob(ctx, id)
}

// CountJobs implements JobStore.
func (s *SQLiteDB) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

const liteApplicationColumns = "id, user_id, job_id, status, notes, applied_at, updated_at"

func scanLiteApplication(row rowScanner) (*types.Application, error) {
	var a types.Application
	var userID, status, appliedAt, updatedAt string
	if err := row.Scan(&a.ID, &userID, &a.JobID, &status, &a.Notes, &appliedAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := fillLiteApplication(&a, userID, status, appliedAt, updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func fillLiteApplication(a *types.Application, userID, status, appliedAt, updatedAt string) error {
	var err error
	if a.UserID, err = uuid.Parse(userID); err != nil {
		return fmt.Errorf("failed to parse user id: %w", err)
	}
	a.Status = types.ApplicationStatus(status)
	if a.AppliedAt, err = parseTime(appliedAt); err != nil {
		return err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return err
	}
	return nil
}

// CreateApplication implements ApplicationStore.
func (s *SQLiteDB) CreateApplication(ctx context.Context, in *types.NewApplication) (*types.Application, error) {
	now := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (user_id, job_id, status, notes, applied_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.UserID.String(), in.JobID, string(in.Status), in.Notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read application id: %w", err)
	}
	return s.GetApplication(ctx, in.UserID, id)
}

// GetApplication implements ApplicationStore.
func (s *SQLiteDB) GetApplication(ctx context.Context, userID uuid.UUID, id int64) (*types.Application, error) {
	a, err := scanLiteApplication(s.db.QueryRowContext(ctx,
		"SELECT "+liteApplicationColumns+" FROM applications WHERE id = ? AND user_id = ?",
		id, userID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// UpdateApplicationStatus implements ApplicationStore.
func (s *SQLiteDB) UpdateApplicationStatus(ctx context.Context, userID uuid.UUID, id int64, status types.ApplicationStatus) (*types.Application, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE applications SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		string(status), s.timestamp(), id, userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetApplication(ctx, userID, id)
}

// ListApplicationsWithJobs implements ApplicationStore.
func (s *SQLiteDB) ListApplicationsWithJobs(ctx context.Context, userID uuid.UUID) ([]types.ApplicationWithJob, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.status, a.notes, a.applied_at, a.updated_at,
		        j.id, j.title, j.company, j.location, j.description, j.job_type, j.work_mode,
		        j.salary_range, j.skills, j.external_url, j.posted_at, j.created_at
		 FROM applications a
		 INNER JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = ?
		 ORDER BY a.applied_at DESC, a.id DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	result := make([]types.ApplicationWithJob, 0)
	for rows.Next() {
		var aw types.ApplicationWithJob
		var appUser, status, appliedAt, updatedAt string
		var jobType, workMode, skills, postedAt, createdAt string
		err := rows.Scan(&aw.ID, &appUser, &aw.JobID, &status, &aw.Notes, &appliedAt, &updatedAt,
			&aw.Job.ID, &aw.Job.Title, &aw.Job.Company, &aw.Job.Location, &aw.Job.Description, &jobType, &workMode,
			&aw.Job.SalaryRange, &skills, &aw.Job.ExternalURL, &postedAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if err := fillLiteApplication(&aw.Application, appUser, status, appliedAt, updatedAt); err != nil {
			return nil, err
		}
		if err := fillLiteJob(&aw.Job, jobType, workMode, skills, postedAt, createdAt); err != nil {
			return nil, err
		}
		result = append(result, aw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return result, nil
}

const liteResumeColumns = "id, user_id, file_name, content, file_url, created_at, updated_at"

func scanLiteResume(row rowScanner) (*types.Resume, error) {
	var r types.Resume
	var userID, createdAt, updatedAt string
	if err := row.Scan(&r.ID, &userID, &r.FileName, &r.Content, &r.FileURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if r.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume implements ResumeStore.
func (s *SQLiteDB) CreateResume(ctx context.Context, in *types.NewResume) (*types.Resume, error) {
	now := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (user_id, file_name, content, file_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.UserID.String(), in.FileName, in.Content, in.FileURL, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read resume id: %w", err)
	}
	return scanLiteResume(s.db.QueryRowContext(ctx, "SELECT "+liteResumeColumns+" FROM resumes WHERE id = ?", id))
}

// GetCurrentResume implements ResumeStore.
func (s *SQLiteDB) GetCurrentResume(ctx context.Context, userID uuid.UUID) (*types.Resume, error) {
	r, err := scanLiteResume(s.db.QueryRowContext(ctx,
		"SELECT "+liteResumeColumns+" FROM resumes WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		userID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResumeContent implements ResumeStore.
func (s *SQLiteDB) UpdateResumeContent(ctx context.Context, userID uuid.UUID, id int64, content string) (*types.Resume, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE resumes SET content = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		content, s.timestamp(), id, userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return scanLiteResume(s.db.QueryRowContext(ctx, "SELECT "+liteResumeColumns+" FROM resumes WHERE id = ?", id))
}

// CreateUser implements UserStore.
func (s *SQLiteDB) CreateUser(ctx context.Context, in *types.NewUser) (*types.User, error) {
	now := s.now().UTC()
	u := types.User{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     strings.ToLower(in.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, in.PasswordHash, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// isUniqueViolation matches both the extended and the primary constraint result code.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}

func (s *SQLiteDB) getUserRecord(ctx context.Context, where string, arg any) (*UserRecord, error) {
	var rec UserRecord
	var id, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE "+where, arg,
	).Scan(&id, &rec.Name, &rec.Email, &rec.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetUserByID implements UserStore.
func (s *SQLiteDB) GetUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	rec, err := s.getUserRecord(ctx, "id = ?", id.String())
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.User, nil
}

// GetUserByEmail implements UserStore.
func (s *SQLiteDB) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return s.getUserRecord(ctx, "email = ?", strings.ToLower(email))
}
