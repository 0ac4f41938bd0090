package types

import (
	"math"
	"strings"
)

// JobFilters are the structural predicates of a job listing. Empty fields are ignored;
// supplied fields are AND-combined.
type JobFilters struct {
	Search        string   `json:"search,omitempty"`
	Location      string   `json:"location,omitempty"`
	Type          JobType  `json:"type,omitempty"`
	WorkMode      WorkMode `json:"workMode,omitempty"`
	MinMatchScore *int     `json:"minMatchScore,omitempty"`
}

// Matches applies the structural predicates to a single job: case-insensitive substring
// on title, description or company for Search, case-insensitive substring on location,
// exact match for Type and WorkMode. MinMatchScore is not structural and is ignored here.
func (f JobFilters) Matches(job *Job) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(job.Title), needle) &&
			!strings.Contains(strings.ToLower(job.Description), needle) &&
			!strings.Contains(strings.ToLower(job.Company), needle) {
			return false
		}
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Type != "" && job.JobType != f.Type {
		return false
	}
	if f.WorkMode != "" && job.WorkMode != f.WorkMode {
		return false
	}
	return true
}

// FilterUpdate is a partial set of filters produced by the assistant's update_filters tool.
// Nil fields are left unchanged by the client.
type FilterUpdate struct {
	Search        *string   `json:"search,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Type          *JobType  `json:"type,omitempty"`
	WorkMode      *WorkMode `json:"workMode,omitempty"`
	MinMatchScore *float64  `json:"minMatchScore,omitempty"`
}

// Apply returns f with the non-nil fields of u set. A fractional MinMatchScore is
// rounded up since scores are integers.
func (f JobFilters) Apply(u *FilterUpdate) JobFilters {
	if u == nil {
		return f
	}
	if u.Search != nil {
		f.Search = *u.Search
	}
	if u.Location != nil {
		f.Location = *u.Location
	}
	if u.Type != nil {
		f.Type = *u.Type
	}
	if u.WorkMode != nil {
		f.WorkMode = *u.WorkMode
	}
	if u.MinMatchScore != nil {
		score := int(math.Ceil(*u.MinMatchScore))
		f.MinMatchScore = &score
	}
	return f
}
