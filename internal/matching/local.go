// Package matching scores a resume against a job, either with a local keyword
// heuristic or with a language model.
package matching

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// Weights of the local keyword set.
const (
	skillWeight     = 2
	titleWordWeight = 1
	minTitleWordLen = 4
)

// Fixed explanations.
const (
	NoResumeExplanation   = "No resume uploaded."
	LowOverlapExplanation = "Low keyword overlap."
	AIFailedExplanation   = "AI analysis failed."
	matchedPrefix         = "Matched skills: "
)

type keyword struct {
	text   string
	weight int
}

// keywords builds the weighted keyword set of a job: every skill, then every title
// word of at least four characters.
func keywords(job *types.Job) []keyword {
	out := make([]keyword, 0, len(job.Skills)+4)
	for _, skill := range job.Skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		out = append(out, keyword{text: skill, weight: skillWeight})
	}
	for _, word := range strings.Fields(job.Title) {
		if utf8.RuneCountInString(word) >= minTitleWordLen {
			out = append(out, keyword{text: word, weight: titleWordWeight})
		}
	}
	return out
}

// ScoreLocal scores resumeText against job by case-insensitive keyword containment.
// It never fails and makes no external calls.
func ScoreLocal(job *types.Job, resumeText string) types.MatchResult {
	if strings.TrimSpace(resumeText) == "" {
		return types.MatchResult{Score: 0, Explanation: NoResumeExplanation}
	}

	// Caser is stateful, so one per call.
	fold := cases.Fold()
	resume := fold.String(resumeText)

	var matched []string
	matchedWeight, totalWeight := 0, 0
	for _, kw := range keywords(job) {
		totalWeight += kw.weight
		if strings.Contains(resume, fold.String(kw.text)) {
			matchedWeight += kw.weight
			matched = append(matched, kw.text)
		}
	}

	if totalWeight == 0 {
		return types.MatchResult{Score: 0, Explanation: LowOverlapExplanation}
	}

	explanation := LowOverlapExplanation
	if len(matched) > 0 {
		explanation = matchedPrefix + strings.Join(matched, ", ")
	}

	return types.MatchResult{
		Score:       roundPercent(matchedWeight, totalWeight),
		Explanation: explanation,
	}
}

// roundPercent returns round-half-up(100*matched/total), clamped to [0,100].
func roundPercent(matched, total int) int {
	score := (200*matched + total) / (2 * total)
	return clamp(score)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// LocalScorer adapts ScoreLocal to the Scorer shape used by the feed.
type LocalScorer struct{}

// Score implements the feed's scorer.
func (LocalScorer) Score(job *types.Job, resumeText string) types.MatchResult {
	return ScoreLocal(job, resumeText)
}
