package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// maxExtractionRunes bounds the page text sent to the model.
const maxExtractionRunes = 20000

// ExtractJob asks the model to read catalog fields out of a job page's text.
// Values the model returns outside the known enums are dropped.
func ExtractJob(ctx context.Context, client llm.Client, text string) (*JobPage, error) {
	if runes := []rune(text); len(runes) > maxExtractionRunes {
		text = string(runes[:maxExtractionRunes])
	}

	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), text)
	resp, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &types.ErrUpstreamModel{Err: err}
	}

	var page JobPage
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &page); err != nil {
		return nil, &types.ErrUpstreamModel{Err: fmt.Errorf("failed to unmarshal extraction: %w", err)}
	}

	if !page.JobType.Valid() {
		page.JobType = ""
	}
	if !page.WorkMode.Valid() {
		page.WorkMode = ""
	}
	page.SourceURL = ""
	return &page, nil
}

// Merge fills the empty fields of p from other.
func (p *JobPage) Merge(other *JobPage) {
	if other == nil {
		return
	}
	p.Title = firstNonEmpty(p.Title, other.Title)
	p.Company = firstNonEmpty(p.Company, other.Company)
	p.Location = firstNonEmpty(p.Location, other.Location)
	p.Description = firstNonEmpty(p.Description, other.Description)
	p.JobType = types.JobType(firstNonEmpty(string(p.JobType), string(other.JobType)))
	p.WorkMode = types.WorkMode(firstNonEmpty(string(p.WorkMode), string(other.WorkMode)))
	p.SalaryRange = firstNonEmpty(p.SalaryRange, other.SalaryRange)
	if len(p.Skills) == 0 {
		p.Skills = other.Skills
	}
	for i, s := range p.Skills {
		p.Skills[i] = strings.TrimSpace(s)
	}
}
