package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

func TestScoreLocal_BackendEngineerExample(t *testing.T) {
	job := &types.Job{Title: "Backend Engineer", Skills: []string{"Node.js", "PostgreSQL"}}

	got := ScoreLocal(job, "Experienced Node.js developer with PostgreSQL and AWS")

	assert.Equal(t, 67, got.Score)
	assert.Equal(t, "Matched skills: Node.js, PostgreSQL", got.Explanation)
}

func TestScoreLocal_EmptyResume(t *testing.T) {
	job := &types.Job{Title: "Backend Engineer", Skills: []string{"Go"}}

	for _, resume := range []string{"", "   \n\t"} {
		got := ScoreLocal(job, resume)
		assert.Equal(t, types.MatchResult{Score: 0, Explanation: NoResumeExplanation}, got)
	}
}

func TestScoreLocal_BlankSkillsIgnored(t *testing.T) {
	job := &types.Job{Title: "Go Dev", Skills: []string{"Go", "", "  ", "Rust"}}

	got := ScoreLocal(job, "Go services")
	assert.Equal(t, 50, got.Score)
	assert.Equal(t, "Matched skills: Go", got.Explanation)
}

func TestScoreLocal_NoKeywords(t *testing.T) {
	job := &types.Job{Title: "Dev Ops Guy"}

	got := ScoreLocal(job, "Dev Ops Guy with everything")
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, LowOverlapExplanation, got.Explanation)
}

func TestScoreLocal_NoMatches(t *testing.T) {
	job := &types.Job{Title: "Product Designer", Skills: []string{"Figma"}}

	got := ScoreLocal(job, "Go and Kubernetes")
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, LowOverlapExplanation, got.Explanation)
}

func TestScoreLocal_CaseInsensitiveSubstring(t *testing.T) {
	job := &types.Job{Title: "Frontend Developer", Skills: []string{"React", "TypeScript"}}

	got := ScoreLocal(job, "I write REACTIVE apps in typescript as a frontend developer")
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "Matched skills: React, TypeScript, Frontend, Developer", got.Explanation)
}

func TestScoreLocal_TitleWordLength(t *testing.T) {
	// "Lead" has four characters and counts; "QA" and "Eng" do not.
	job := &types.Job{Title: "QA Eng Lead"}

	got := ScoreLocal(job, "team lead")
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "Matched skills: Lead", got.Explanation)
}

func TestScoreLocal_RoundsHalfUp(t *testing.T) {
	thirds := &types.Job{Title: "Alpha Bravo Charlie"}
	assert.Equal(t, 33, ScoreLocal(thirds, "alpha").Score)
	assert.Equal(t, 67, ScoreLocal(thirds, "alpha bravo").Score)

	skills := &types.Job{Title: "X", Skills: []string{"a1", "b2", "c3", "d4"}}
	assert.Equal(t, 25, ScoreLocal(skills, "a1").Score)

	// 1 of 8 is 12.5
	eighths := &types.Job{Title: "one1 two2 thr3 fou4 fiv5 six6 sev7 eig8"}
	assert.Equal(t, 13, ScoreLocal(eighths, "one1").Score)
}

func TestScoreLocal_AlwaysInRange(t *testing.T) {
	job := &types.Job{Title: "Full Stack Developer", Skills: []string{"React", "Node.js", "Full Stack", "JavaScript"}}
	for _, resume := range []string{"x", "React", "React Node.js Full Stack JavaScript Developer", "full stack"} {
		got := ScoreLocal(job, resume)
		assert.GreaterOrEqual(t, got.Score, 0)
		assert.LessOrEqual(t, got.Score, 100)
	}
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 67, roundPercent(4, 6))
	assert.Equal(t, 50, roundPercent(1, 2))
	assert.Equal(t, 100, roundPercent(3, 3))
	assert.Equal(t, 0, roundPercent(0, 5))
	assert.Equal(t, 100, clamp(140))
	assert.Equal(t, 0, clamp(-3))
}
