package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/prompts"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// MaxResumeRunes bounds the resume prefix sent to the model.
const MaxResumeRunes = 3000

// llmScoreResponse is the JSON object the model is asked for.
type llmScoreResponse struct {
	Score       *float64 `json:"score"`
	Explanation string   `json:"explanation"`
}

// LLMScorer scores a job description against a resume with a language model.
// It is safe for concurrent use.
type LLMScorer struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewLLMScorer returns a scorer using the standard tier of client.
func NewLLMScorer(client llm.Client, log *zap.Logger) *LLMScorer {
	return &LLMScorer{
		client: client,
		tier:   llm.TierStandard,
		logger: logger.OrNop(log),
	}
}

// Score never fails: model errors and unparseable output yield a zero score with
// AIFailedExplanation.
func (s *LLMScorer) Score(ctx context.Context, jobDescription, resumeText string) types.MatchResult {
	if strings.TrimSpace(resumeText) == "" {
		return types.MatchResult{Score: 0, Explanation: NoResumeExplanation}
	}

	result, err := s.score(ctx, jobDescription, resumeText)
	if err != nil {
		s.logger.Warn("ai match scoring failed",
			zap.String(logger.FieldModel, s.client.GetModel(s.tier)),
			zap.Error(err),
		)
		return types.MatchResult{Score: 0, Explanation: AIFailedExplanation}
	}
	return result
}

func (s *LLMScorer) score(ctx context.Context, jobDescription, resumeText string) (types.MatchResult, error) {
	prompt := buildScorePrompt(jobDescription, resumeText)

	msg, err := s.client.Chat(ctx, &llm.ChatRequest{
		System:   prompts.MustGet("matching.json", "system"),
		Messages: []llm.Message{{Role: llm.RoleUser, Text: prompt}},
		Tier:     s.tier,
		JSON:     true,
	})
	if err != nil {
		return types.MatchResult{}, &types.ErrUpstreamModel{Err: err}
	}

	raw := llm.CleanJSONBlock(msg.Text)
	s.logger.Debug("ai match response", zap.String("response", logger.TruncateForLog(raw, 200)))

	var resp llmScoreResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return types.MatchResult{}, &types.ErrUpstreamModel{Err: fmt.Errorf("failed to parse LLM response: %w", err)}
	}
	if resp.Score == nil || math.IsNaN(*resp.Score) {
		return types.MatchResult{}, &types.ErrUpstreamModel{Err: fmt.Errorf("LLM response has no score")}
	}

	return types.MatchResult{
		Score:       clamp(int(math.Round(*resp.Score))),
		Explanation: strings.TrimSpace(resp.Explanation),
	}, nil
}

func buildScorePrompt(jobDescription, resumeText string) string {
	return prompts.Format(prompts.MustGet("matching.json", "score-job"), map[string]string{
		"JobDescription": jobDescription,
		"Resume":         truncateRunes(resumeText, MaxResumeRunes),
	})
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// ScoreJob scores job against resumeText using DescribeJob as the job description.
func (s *LLMScorer) ScoreJob(ctx context.Context, job *types.Job, resumeText string) types.MatchResult {
	return s.Score(ctx, DescribeJob(job), resumeText)
}

// DescribeJob renders the fields of job the model scores against.
func DescribeJob(job *types.Job) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", job.Title)
	fmt.Fprintf(&sb, "Company: %s\n", job.Company)
	if len(job.Skills) > 0 {
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(job.Skills, ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(job.Description)
	return sb.String()
}
