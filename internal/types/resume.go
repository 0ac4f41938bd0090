package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume holds the extracted text of an uploaded resume. A user's current resume is
// the most recently created row.
type Resume struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	FileName  string    `json:"fileName"`
	Content   string    `json:"content"`
	FileURL   *string   `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewResume is the insert shape of a Resume.
type NewResume struct {
	UserID   uuid.UUID
	FileName string
	Content  string
	FileURL  *string
}

// UpdateResumeRequest is the body of PUT /api/resumes/current.
type UpdateResumeRequest struct {
	Content string `json:"content" validate:"required"`
}
