package tracker

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

func newTracker(t *testing.T) (*Tracker, []types.Job) {
	t.Helper()
	store := db.NewMemoryDB()
	ctx := context.Background()
	_, err := db.Seed(ctx, store)
	require.NoError(t, err)
	jobs, err := store.ListJobs(ctx, types.JobFilters{})
	require.NoError(t, err)
	return New(store, zap.NewNop()), jobs
}

func TestCreate_DefaultsToApplied(t *testing.T) {
	tr, jobs := newTracker(t)
	user := uuid.New()

	app, err := tr.Create(context.Background(), user, &types.CreateApplicationRequest{JobID: jobs[0].ID})
	require.NoError(t, err)
	assert.Equal(t, types.StatusApplied, app.Status)
	assert.Equal(t, user, app.UserID)
	assert.Equal(t, jobs[0].ID, app.JobID)
	assert.Nil(t, app.Notes)
}

func TestCreate_HonoursExplicitStatus(t *testing.T) {
	tr, jobs := newTracker(t)
	notes := "referral from Sam"

	app, err := tr.Create(context.Background(), uuid.New(), &types.CreateApplicationRequest{
		JobID:  jobs[1].ID,
		Status: types.StatusInterview,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusInterview, app.Status)
	require.NotNil(t, app.Notes)
	assert.Equal(t, notes, *app.Notes)
}

func TestCreate_Validation(t *testing.T) {
	tr, jobs := newTracker(t)

	tests := []struct {
		name  string
		req   *types.CreateApplicationRequest
		field string
	}{
		{"missing job", &types.CreateApplicationRequest{}, "jobId"},
		{"unknown job", &types.CreateApplicationRequest{JobID: 9999}, "jobId"},
		{"bad status", &types.CreateApplicationRequest{JobID: jobs[0].ID, Status: "Ghosted"}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Create(context.Background(), uuid.New(), tt.req)

			var verr *types.ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUpdateStatus_AnyTransition(t *testing.T) {
	tr, jobs := newTracker(t)
	user := uuid.New()
	ctx := context.Background()

	app, err := tr.Create(ctx, user, &types.CreateApplicationRequest{JobID: jobs[0].ID})
	require.NoError(t, err)

	for _, status := range []types.ApplicationStatus{types.StatusRejected, types.StatusOffer, types.StatusApplied, types.StatusInterview} {
		updated, err := tr.UpdateStatus(ctx, user, app.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(app.UpdatedAt))
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	tr, jobs := newTracker(t)
	owner := uuid.New()
	ctx := context.Background()

	app, err := tr.Create(ctx, owner, &types.CreateApplicationRequest{JobID: jobs[0].ID})
	require.NoError(t, err)

	_, err = tr.UpdateStatus(ctx, owner, app.ID, "Pending")
	var verr *types.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	_, err = tr.UpdateStatus(ctx, owner, 9999, types.StatusOffer)
	var nf *types.ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Application not found", nf.Error())

	_, err = tr.UpdateStatus(ctx, uuid.New(), app.ID, types.StatusOffer)
	require.ErrorAs(t, err, &nf, "another user's application is not visible")
}

func TestList(t *testing.T) {
	tr, jobs := newTracker(t)
	user := uuid.New()
	ctx := context.Background()

	empty, err := tr.List(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = tr.Create(ctx, user, &types.CreateApplicationRequest{JobID: jobs[0].ID})
	require.NoError(t, err)
	_, err = tr.Create(ctx, user, &types.CreateApplicationRequest{JobID: jobs[2].ID})
	require.NoError(t, err)
	_, err = tr.Create(ctx, uuid.New(), &types.CreateApplicationRequest{JobID: jobs[1].ID})
	require.NoError(t, err)

	apps, err := tr.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, jobs[2].ID, apps[0].JobID, "newest first")
	assert.Equal(t, jobs[2].Title, apps[0].Job.Title)
	assert.Equal(t, jobs[0].ID, apps[1].JobID)
}
