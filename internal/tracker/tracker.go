// Package tracker manages a user's job applications and their pipeline status.
package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// Store is the persistence the tracker needs.
type Store interface {
	db.JobStore
	db.ApplicationStore
}

// Tracker creates, updates and lists applications.
type Tracker struct {
	store  Store
	logger *zap.Logger
}

// New returns a Tracker backed by store.
func New(store Store, log *zap.Logger) *Tracker {
	return &Tracker{store: store, logger: logger.OrNop(log)}
}

// Create records that userID applied to req.JobID. The status defaults to Applied.
func (t *Tracker) Create(ctx context.Context, userID uuid.UUID, req *types.CreateApplicationRequest) (*types.Application, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}

	job, err := t.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, &types.ErrValidation{Field: "jobId", Message: "job does not exist"}
	}

	status := req.Status
	if status == "" {
		status = types.StatusApplied
	}

	app, err := t.store.CreateApplication(ctx, &types.NewApplication{
		UserID: userID,
		JobID:  req.JobID,
		Status: status,
		Notes:  req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	t.logger.Info("application created",
		zap.String(logger.FieldUserID, userID.String()),
		zap.Int64("application_id", app.ID),
		zap.Int64("job_id", app.JobID))
	return app, nil
}

// UpdateStatus moves an application to status. Any status may follow any other.
func (t *Tracker) UpdateStatus(ctx context.Context, userID uuid.UUID, id int64, status types.ApplicationStatus) (*types.Application, error) {
	if err := types.Validate(&types.UpdateStatusRequest{Status: status}); err != nil {
		return nil, err
	}

	app, err := t.store.UpdateApplicationStatus(ctx, userID, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	if app == nil {
		return nil, &types.ErrNotFound{Resource: "Application"}
	}
	return app, nil
}

// List returns the user's applications joined with their jobs, newest first.
func (t *Tracker) List(ctx context.Context, userID uuid.UUID) ([]types.ApplicationWithJob, error) {
	apps, err := t.store.ListApplicationsWithJobs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	if apps == nil {
		apps = []types.ApplicationWithJob{}
	}
	return apps, nil
}
