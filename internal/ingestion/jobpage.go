package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

const (
	// DefaultFetchTimeout bounds a job page download.
	DefaultFetchTimeout = 30 * time.Second
	// MaxPageBytes caps the size of a downloaded job page.
	MaxPageBytes = 5 << 20

	userAgent = "Mozilla/5.0 (compatible; JobMatcher/1.0)"
)

// ErrInvalidURL is returned for URLs without an http(s) scheme and host.
var ErrInvalidURL = errors.New("invalid URL")

// noiseSelectors are removed before the description is extracted.
const noiseSelectors = "script, style, noscript, iframe, svg, form, nav, header, footer, " +
	".cookie-banner, .cookie-consent, .apply-button, .share-buttons, [aria-hidden='true']"

// descriptionSelectors are tried in order; the first match holds the description.
var descriptionSelectors = []string{
	"[data-testid='job-description']",
	".job-description",
	"#job-description",
	".posting-content",
	".job-details",
	"main article",
	"main",
	"article",
	"body",
}

// JobPage holds the catalog fields recovered from a job posting page. Fields the
// page does not state are left empty.
type JobPage struct {
	SourceURL   string         `json:"sourceUrl,omitempty"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	JobType     types.JobType  `json:"jobType,omitempty"`
	WorkMode    types.WorkMode `json:"workMode,omitempty"`
	SalaryRange string         `json:"salaryRange,omitempty"`
	Skills      []string       `json:"skills,omitempty"`
}

// FetchPage downloads the HTML at rawURL.
func FetchPage(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: HTTP status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxPageBytes {
		return "", fmt.Errorf("page at %s exceeds %d bytes", rawURL, MaxPageBytes)
	}
	return string(body), nil
}

// ParseJobPage extracts catalog fields from a job posting page. schema.org
// JobPosting data embedded as JSON-LD takes precedence over meta tags and headings.
// The description is converted to Markdown.
func ParseJobPage(html, sourceURL string) (*JobPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &JobPage{SourceURL: sourceURL}
	if posting := findJobPosting(doc); posting != nil {
		posting.apply(page)
	}

	doc.Find(noiseSelectors).Remove()

	if page.Title == "" {
		page.Title = firstNonEmpty(
			metaContent(doc, "og:title"),
			strings.TrimSpace(doc.Find("h1").First().Text()),
			strings.TrimSpace(doc.Find("title").First().Text()),
		)
	}
	if page.Company == "" {
		page.Company = metaContent(doc, "og:site_name")
	}

	if page.Description == "" {
		for _, selector := range descriptionSelectors {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				continue
			}
			inner, err := sel.Html()
			if err != nil {
				return nil, fmt.Errorf("failed to read description HTML: %w", err)
			}
			if strings.TrimSpace(sel.Text()) == "" {
				continue
			}
			page.Description = inner
			break
		}
	}

	if page.Description != "" {
		md, err := htmltomarkdown.ConvertString(page.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to convert description to markdown: %w", err)
		}
		page.Description = CleanText(md)
	}

	page.Title = strings.TrimSpace(page.Title)
	page.Company = strings.TrimSpace(page.Company)
	page.Location = strings.TrimSpace(page.Location)
	return page, nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf("meta[property=%q], meta[name=%q]", property, property)).First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

// jobPosting is the subset of schema.org/JobPosting read from JSON-LD.
type jobPosting struct {
	Type               any               `json:"@type"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	EmploymentType     any               `json:"employmentType"`
	JobLocationType    string            `json:"jobLocationType"`
	HiringOrganization json.RawMessage   `json:"hiringOrganization"`
	JobLocation        json.RawMessage   `json:"jobLocation"`
	Skills             any               `json:"skills"`
	Graph              []json.RawMessage `json:"@graph"`
}

func findJobPosting(doc *goquery.Document) *jobPosting {
	var found *jobPosting
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = decodeJobPosting([]byte(s.Text()))
		return found == nil
	})
	return found
}

func decodeJobPosting(data []byte) *jobPosting {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return nil
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		for _, item := range items {
			if p := decodeJobPosting(item); p != nil {
				return p
			}
		}
		return nil
	}

	var p jobPosting
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if hasType(p.Type, "JobPosting") {
		return &p
	}
	for _, item := range p.Graph {
		if nested := decodeJobPosting(item); nested != nil {
			return nested
		}
	}
	return nil
}

func hasType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func (p *jobPosting) apply(page *JobPage) {
	page.Title = p.Title
	page.Description = p.Description

	var org struct {
		Name string `json:"name"`
	}
	if len(p.HiringOrganization) > 0 && json.Unmarshal(p.HiringOrganization, &org) == nil {
		page.Company = org.Name
	}

	page.Location = postingLocation(p.JobLocation)
	page.JobType = employmentType(p.EmploymentType)
	if strings.EqualFold(p.JobLocationType, "TELECOMMUTE") {
		page.WorkMode = types.WorkModeRemote
		if page.Location == "" {
			page.Location = "Remote"
		}
	}

	switch s := p.Skills.(type) {
	case string:
		page.Skills = splitSkills(s)
	case []any:
		for _, item := range s {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				page.Skills = append(page.Skills, strings.TrimSpace(str))
			}
		}
	}
}

type postalPlace struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  any    `json:"addressCountry"`
	} `json:"address"`
}

func (p postalPlace) String() string {
	parts := make([]string, 0, 2)
	for _, v := range []string{p.Address.Locality, p.Address.Region} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// postingLocation reads jobLocation, which schema.org allows as one Place or a list.
func postingLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var one postalPlace
	if json.Unmarshal(raw, &one) == nil {
		return one.String()
	}
	var many []postalPlace
	if json.Unmarshal(raw, &many) == nil {
		for _, place := range many {
			if s := place.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

var employmentTypes = map[string]types.JobType{
	"FULL_TIME":  types.JobTypeFullTime,
	"PART_TIME":  types.JobTypePartTime,
	"CONTRACTOR": types.JobTypeContract,
	"TEMPORARY":  types.JobTypeContract,
	"INTERN":     types.JobTypeInternship,
}

func employmentType(v any) types.JobType {
	switch t := v.(type) {
	case string:
		return employmentTypes[strings.ToUpper(strings.TrimSpace(t))]
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if jt := employmentTypes[strings.ToUpper(strings.TrimSpace(s))]; jt != "" {
					return jt
				}
			}
		}
	}
	return ""
}

func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JobDefaults fill fields a page left empty when it becomes a catalog entry.
type JobDefaults struct {
	JobType  types.JobType
	WorkMode types.WorkMode
	Location string
	Skills   []string
}

// NewJob converts the page into an insert shape, filling gaps from defaults.
// Non-empty default skills replace the page's skills.
func (p *JobPage) NewJob(defaults JobDefaults) (*types.NewJob, error) {
	job := &types.NewJob{
		Title:       p.Title,
		Company:     p.Company,
		Location:    firstNonEmpty(p.Location, defaults.Location),
		Description: p.Description,
		JobType:     types.JobType(firstNonEmpty(string(p.JobType), string(defaults.JobType))),
		WorkMode:    types.WorkMode(firstNonEmpty(string(p.WorkMode), string(defaults.WorkMode))),
		Skills:      p.Skills,
	}
	if len(defaults.Skills) > 0 {
		job.Skills = defaults.Skills
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	if p.SalaryRange != "" {
		salary := p.SalaryRange
		job.SalaryRange = &salary
	}
	if p.SourceURL != "" {
		source := p.SourceURL
		job.ExternalURL = &source
	}

	if err := types.Validate(job); err != nil {
		return nil, err
	}
	return job, nil
}
