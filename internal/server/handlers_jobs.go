package server

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/feed"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/matching"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

const (
	// defaultAIMatchLimit is how many top local matches are re-scored by the model.
	defaultAIMatchLimit = 5
	// maxConcurrentAIScores bounds in-flight model calls per match request.
	maxConcurrentAIScores = 3
)

// parseJobFilters reads the feed query parameters. Only minMatchScore can be malformed.
func parseJobFilters(q url.Values) (types.JobFilters, error) {
	filters := types.JobFilters{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		Type:     types.JobType(q.Get("type")),
		WorkMode: types.WorkMode(q.Get("workMode")),
	}

	if raw := q.Get("minMatchScore"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return filters, &types.ErrValidation{Field: "minMatchScore", Message: "must be a number"}
		}
		// Scores are integers, so score >= v is score >= ceil(v).
		threshold := int(math.Ceil(math.Max(-1, math.Min(v, 101))))
		filters.MinMatchScore = &threshold
	}
	return filters, nil
}

// handleListJobs serves the job feed. Signed-in callers with a resume get scored results.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filters, err := parseJobFilters(r.URL.Query())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var resume *types.Resume
	if id, ok := callerID(r); ok {
		resume, err = s.store.GetCurrentResume(r.Context(), id)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	jobs, err := s.feed.List(r.Context(), filters, resume)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.lookupJob(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) lookupJob(r *http.Request) (*types.Job, error) {
	id, err := pathID(r, "Job")
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &types.ErrNotFound{Resource: "Job"}
	}
	return job, nil
}

// handleMatchJobs scores the whole catalog against the posted resume text. With
// ai set, the best local matches are re-scored by the model.
func (s *Server) handleMatchJobs(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	scored, err := s.feed.List(r.Context(), types.JobFilters{}, &types.Resume{Content: req.ResumeText})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if req.AI && len(scored) > 0 {
		limit := req.Limit
		if limit == 0 {
			limit = defaultAIMatchLimit
		}
		s.rescoreWithLLM(r, scored[:min(limit, len(scored))], req.ResumeText)
		feed.SortByScore(scored)
	}

	matches := make([]types.JobMatch, 0, len(scored))
	for _, job := range scored {
		matches = append(matches, types.JobMatch{
			JobID:       job.ID,
			Score:       *job.MatchScore,
			Explanation: job.MatchExplanation,
		})
	}
	s.jsonResponse(w, http.StatusOK, matches)
}

// rescoreWithLLM replaces the scores of jobs with model scores, at most
// maxConcurrentAIScores at a time. A job whose model call fails keeps its local score.
func (s *Server) rescoreWithLLM(r *http.Request, jobs []types.JobWithScore, resumeText string) {
	ctx, cancel := s.withAITimeout(r)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(maxConcurrentAIScores)
	for i := range jobs {
		g.Go(func() error {
			result := s.llmScorer.ScoreJob(ctx, &jobs[i].Job, resumeText)
			if result.Explanation == matching.AIFailedExplanation {
				return nil
			}
			jobs[i].MatchScore = &result.Score
			jobs[i].MatchExplanation = result.Explanation
			return nil
		})
	}
	_ = g.Wait()
}

// handleJobAnalysis runs the model scorer for one job against the caller's resume.
func (s *Server) handleJobAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	job, err := s.lookupJob(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resume, err := s.store.GetCurrentResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	result := types.MatchResult{Score: 0, Explanation: matching.NoResumeExplanation}
	if resume != nil {
		ctx, cancel := s.withAITimeout(r)
		defer cancel()
		result = s.llmScorer.ScoreJob(ctx, job, resume.Content)
	}

	s.jsonResponse(w, http.StatusOK, types.JobMatch{
		JobID:       job.ID,
		Score:       result.Score,
		Explanation: result.Explanation,
	})
}
