package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is a stage of the application pipeline.
type ApplicationStatus string

// The four statuses of the pipeline. Any status may follow any other.
const (
	StatusApplied   ApplicationStatus = "Applied"
	StatusInterview ApplicationStatus = "Interview"
	StatusOffer     ApplicationStatus = "Offer"
	StatusRejected  ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists the statuses in pipeline order.
var ApplicationStatuses = []ApplicationStatus{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s is one of the four pipeline statuses.
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Application links a user to a job they applied to.
type Application struct {
	ID        int64             `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	JobID     int64             `json:"jobId"`
	Status    ApplicationStatus `json:"status"`
	Notes     *string           `json:"notes"`
	AppliedAt time.Time         `json:"appliedAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ApplicationWithJob is an application joined with its job for display.
type ApplicationWithJob struct {
	Application
	Job Job `json:"job"`
}

// NewApplication is the insert shape of an Application.
type NewApplication struct {
	UserID uuid.UUID
	JobID  int64
	Status ApplicationStatus
	Notes  *string
}

// CreateApplicationRequest is the body of POST /api/applications.
type CreateApplicationRequest struct {
	JobID  int64             `json:"jobId" validate:"required,gt=0"`
	Status ApplicationStatus `json:"status,omitempty" validate:"omitempty,oneof=Applied Interview Offer Rejected"`
	Notes  *string           `json:"notes,omitempty"`
}

// UpdateStatusRequest is the body of PATCH /api/applications/{id}/status.
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=Applied Interview Offer Rejected"`
}
