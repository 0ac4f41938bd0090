// Package feed assembles the job listing shown to a user: structural filters first,
// then an optional local match score against the user's resume.
package feed

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/matching"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// Assembler builds job feeds from a JobStore.
type Assembler struct {
	jobs   db.JobStore
	logger *zap.Logger
}

// NewAssembler returns an Assembler reading from jobs.
func NewAssembler(jobs db.JobStore, log *zap.Logger) *Assembler {
	return &Assembler{jobs: jobs, logger: logger.OrNop(log)}
}

// List returns the jobs matching filters. Without a resume the jobs are returned
// newest first and unscored, and MinMatchScore is ignored. With a resume every job
// is scored, jobs below MinMatchScore are dropped, and the rest are sorted by score
// descending with recency order kept among equal scores.
func (a *Assembler) List(ctx context.Context, filters types.JobFilters, resume *types.Resume) ([]types.JobWithScore, error) {
	jobs, err := a.jobs.ListJobs(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	out := make([]types.JobWithScore, 0, len(jobs))
	if resume == nil {
		for _, job := range jobs {
			out = append(out, types.JobWithScore{Job: job})
		}
		return out, nil
	}

	for i := range jobs {
		result := matching.ScoreLocal(&jobs[i], resume.Content)
		if filters.MinMatchScore != nil && result.Score < *filters.MinMatchScore {
			continue
		}
		score := result.Score
		out = append(out, types.JobWithScore{
			Job:              jobs[i],
			MatchScore:       &score,
			MatchExplanation: result.Explanation,
		})
	}
	SortByScore(out)

	a.logger.Debug("assembled scored feed",
		zap.Int("candidates", len(jobs)),
		zap.Int("returned", len(out)))
	return out, nil
}

// SortByScore orders scored jobs by score descending. Equal scores keep their
// relative order; unscored entries sort last.
func SortByScore(jobs []types.JobWithScore) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return scoreOf(jobs[i]) > scoreOf(jobs[j])
	})
}

func scoreOf(j types.JobWithScore) int {
	if j.MatchScore == nil {
		return -1
	}
	return *j.MatchScore
}
