//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// setupPostgres connects to TEST_DATABASE_URL and applies migrations.
// Skipped if TEST_DATABASE_URL is not set or the connection fails.
func setupPostgres(t *testing.T) *PostgresDB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pg, err := ConnectPostgres(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, pg.Migrate(ctx))
	return pg
}

func TestIntegration_PostgresRoundTrip(t *testing.T) {
	pg := setupPostgres(t)
	defer pg.Close()
	ctx := context.Background()

	job, err := pg.CreateJob(ctx, &types.NewJob{
		Title:       "Integration Engineer " + uuid.NewString(),
		Company:     "TestCorp",
		Location:    "Remote",
		Description: "Testing 100% of the things",
		JobType:     types.JobTypeFullTime,
		WorkMode:    types.WorkModeRemote,
		Skills:      []string{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, job.Skills)

	jobs, err := pg.ListJobs(ctx, types.JobFilters{Search: job.Title[len("Integration "):]})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	email := "it-" + uuid.NewString() + "@example.com"
	u, err := pg.CreateUser(ctx, &types.NewUser{Name: "IT", Email: email, PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = pg.CreateUser(ctx, &types.NewUser{Name: "IT", Email: email, PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	app, err := pg.CreateApplication(ctx, &types.NewApplication{UserID: u.ID, JobID: job.ID, Status: types.StatusApplied})
	require.NoError(t, err)

	updated, err := pg.UpdateApplicationStatus(ctx, u.ID, app.ID, types.StatusInterview)
	require.NoError(t, err)
	assert.Equal(t, types.StatusInterview, updated.Status)

	list, err := pg.ListApplicationsWithJobs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, job.Title, list[0].Job.Title)

	r, err := pg.CreateResume(ctx, &types.NewResume{UserID: u.ID, FileName: "cv.txt", Content: "Go"})
	require.NoError(t, err)
	current, err := pg.GetCurrentResume(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, current.ID)
}
