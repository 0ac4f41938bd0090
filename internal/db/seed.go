package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

func strPtr(s string) *string { return &s }

// SeedJobs returns the demo catalog. Posting times step back one hour per entry
// from now so the first job is the newest.
func SeedJobs(now time.Time) []types.NewJob {
	jobs := []types.NewJob{
		{
			Title:       "Frontend Developer",
			Company:     "TechCorp",
			Location:    "San Francisco, CA",
			Description: "We are looking for a skilled React developer with experience in TypeScript and Tailwind CSS.",
			JobType:     types.JobTypeFullTime,
			WorkMode:    types.WorkModeHybrid,
			SalaryRange: strPtr("$120k - $150k"),
			Skills:      []string{"React", "TypeScript", "Tailwind", "Frontend"},
			ExternalURL: strPtr("https://example.com/jobs/1"),
		},
		{
			Title:       "Backend Engineer",
			Company:     "DataSystems",
			Location:    "New York, NY",
			Description: "Join our team to build scalable APIs using Node.js and PostgreSQL.",
			JobType:     types.JobTypeFullTime,
			WorkMode:    types.WorkModeOnSite,
			SalaryRange: strPtr("$130k - $160k"),
			Skills:      []string{"Node.js", "PostgreSQL", "API", "Backend"},
			ExternalURL: strPtr("https://example.com/jobs/2"),
		},
		{
			Title:       "Full Stack Developer",
			Company:     "StartupInc",
			Location:    "Remote",
			Description: "Looking for a generalist who can handle both frontend and backend tasks. React + Node.js stack.",
			JobType:     types.JobTypeContract,
			WorkMode:    types.WorkModeRemote,
			SalaryRange: strPtr("$80/hr"),
			Skills:      []string{"React", "Node.js", "Full Stack", "JavaScript"},
			ExternalURL: strPtr("https://example.com/jobs/3"),
		},
		{
			Title:       "AI Engineer",
			Company:     "FutureAI",
			Location:    "Austin, TX",
			Description: "Build the next generation of AI models using Python, PyTorch, and LangChain.",
			JobType:     types.JobTypeFullTime,
			WorkMode:    types.WorkModeRemote,
			SalaryRange: strPtr("$160k - $200k"),
			Skills:      []string{"Python", "AI", "LangChain", "PyTorch"},
			ExternalURL: strPtr("https://example.com/jobs/4"),
		},
		{
			Title:       "Product Designer",
			Company:     "CreativeStudio",
			Location:    "Los Angeles, CA",
			Description: "Design beautiful and intuitive user interfaces. Figma expertise required.",
			JobType:     types.JobTypePartTime,
			WorkMode:    types.WorkModeHybrid,
			SalaryRange: strPtr("$60k - $80k"),
			Skills:      []string{"Design", "Figma", "UI/UX"},
			ExternalURL: strPtr("https://example.com/jobs/5"),
		},
	}
	for i := range jobs {
		jobs[i].PostedAt = now.Add(-time.Duration(i) * time.Hour)
	}
	return jobs
}

// Seed inserts the demo catalog when the job table is empty and returns the number
// of jobs inserted.
func Seed(ctx context.Context, store JobStore) (int, error) {
	n, err := store.CountJobs(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for _, job := range SeedJobs(time.Now()) {
		if _, err := store.CreateJob(ctx, &job); err != nil {
			return inserted, fmt.Errorf("failed to seed job %q: %w", job.Title, err)
		}
		inserted++
	}
	return inserted, nil
}
