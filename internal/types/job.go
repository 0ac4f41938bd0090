// Package types provides the entities, view types and request shapes shared by the job matcher.
package types

import "time"

// JobType classifies the employment arrangement of a job.
type JobType string

// Job types accepted by the catalog and the assistant's update_filters tool.
const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// JobTypes lists every valid job type in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}

// Valid reports whether t is one of the known job types.
func (t JobType) Valid() bool {
	for _, v := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}

// WorkMode is the Remote / Hybrid / On-site classification of a job.
type WorkMode string

// Work modes.
const (
	WorkModeRemote WorkMode = "Remote"
	WorkModeHybrid WorkMode = "Hybrid"
	WorkModeOnSite WorkMode = "On-site"
)

// WorkModes lists every valid work mode in display order.
var WorkModes = []WorkMode{WorkModeRemote, WorkModeHybrid, WorkModeOnSite}

// Valid reports whether m is one of the known work modes.
func (m WorkMode) Valid() bool {
	for _, v := range WorkModes {
		if m == v {
			return true
		}
	}
	return false
}

// Job is a listed job posting. Jobs are immutable once created.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	JobType     JobType   `json:"jobType"`
	WorkMode    WorkMode  `json:"workMode"`
	SalaryRange *string   `json:"salaryRange"`
	Skills      []string  `json:"skills"`
	ExternalURL *string   `json:"externalUrl"`
	PostedAt    time.Time `json:"postedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewJob is the insert shape of a Job; identity and timestamps are assigned by the store.
type NewJob struct {
	Title       string   `json:"title" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Description string   `json:"description" validate:"required"`
	JobType     JobType  `json:"jobType" validate:"required,oneof=Full-time Part-time Contract Internship"`
	WorkMode    WorkMode `json:"workMode" validate:"required,oneof=Remote Hybrid On-site"`
	SalaryRange *string  `json:"salaryRange,omitempty"`
	Skills      []string `json:"skills"`
	ExternalURL *string  `json:"externalUrl,omitempty"`

	// PostedAt defaults to the insert time when zero.
	PostedAt time.Time `json:"postedAt,omitempty"`
}

// JobWithScore decorates a Job with a request-scoped match against the caller's resume.
// It is a view type and is never persisted.
type JobWithScore struct {
	Job
	MatchScore       *int   `json:"matchScore,omitempty"`
	MatchExplanation string `json:"matchExplanation,omitempty"`
}

// JobMatch is one entry of the /api/jobs/match response.
type JobMatch struct {
	JobID       int64  `json:"jobId"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// MatchRequest is the body of POST /api/jobs/match.
type MatchRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
	AI         bool   `json:"ai,omitempty"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=10"`
}
