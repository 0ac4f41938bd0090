package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm/llmtest"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

const jsonLDPage = `<!doctype html>
<html><head>
<title>Careers | Ignored</title>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"Organization","name":"Acme"},
  {"@type":"JobPosting","title":"Platform Engineer",
   "description":"<p>Build <strong>Go</strong> services.</p><ul><li>Kubernetes</li></ul>",
   "employmentType":["CONTRACTOR"],
   "hiringOrganization":{"@type":"Organization","name":"Acme Cloud"},
   "jobLocation":[{"@type":"Place","address":{"addressLocality":"Berlin","addressRegion":"BE"}}],
   "skills":"Go, Kubernetes, Terraform"}
]}
</script>
</head><body><h1>Other</h1></body></html>`

const plainPage = `<!doctype html>
<html><head>
<title>Data Analyst - Example</title>
<meta property="og:title" content="Data Analyst">
<meta property="og:site_name" content="Example Corp">
<script>var tracking = true;</script>
</head>
<body>
<nav>Home | Jobs</nav>
<main>
  <div class="job-description">
    <h2>About the role</h2>
    <p>Analyse   product data with SQL.</p>
    <form><input name="email"></form>
  </div>
</main>
<footer>Copyright</footer>
</body></html>`

func TestParseJobPage_JSONLD(t *testing.T) {
	page, err := ParseJobPage(jsonLDPage, "https://jobs.example.com/1")
	require.NoError(t, err)

	assert.Equal(t, "Platform Engineer", page.Title)
	assert.Equal(t, "Acme Cloud", page.Company)
	assert.Equal(t, "Berlin, BE", page.Location)
	assert.Equal(t, types.JobTypeContract, page.JobType)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, page.Skills)
	assert.Contains(t, page.Description, "**Go**")
	assert.Contains(t, page.Description, "Kubernetes")
	assert.NotContains(t, page.Description, "<p>")
}

func TestParseJobPage_MetaAndContentFallbacks(t *testing.T) {
	page, err := ParseJobPage(plainPage, "")
	require.NoError(t, err)

	assert.Equal(t, "Data Analyst", page.Title)
	assert.Equal(t, "Example Corp", page.Company)
	assert.Empty(t, page.Location)
	assert.Contains(t, page.Description, "About the role")
	assert.Contains(t, page.Description, "Analyse product data with SQL.")
	assert.NotContains(t, page.Description, "tracking")
	assert.NotContains(t, page.Description, "Home | Jobs")
	assert.NotContains(t, page.Description, "Copyright")
}

func TestParseJobPage_Telecommute(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
{"@type":"JobPosting","title":"Support Engineer","jobLocationType":"TELECOMMUTE","employmentType":"PART_TIME",
 "hiringOrganization":{"name":"Helpful"},"description":"Help customers."}
</script></head><body></body></html>`

	page, err := ParseJobPage(html, "")
	require.NoError(t, err)
	assert.Equal(t, types.WorkModeRemote, page.WorkMode)
	assert.Equal(t, "Remote", page.Location)
	assert.Equal(t, types.JobTypePartTime, page.JobType)
	assert.Equal(t, "Help customers.", page.Description)
}

func TestJobPage_NewJob(t *testing.T) {
	page := &JobPage{
		SourceURL:   "https://jobs.example.com/1",
		Title:       "Platform Engineer",
		Company:     "Acme",
		Description: "Build services.",
		JobType:     types.JobTypeContract,
		Skills:      []string{"Go"},
	}

	job, err := page.NewJob(JobDefaults{WorkMode: types.WorkModeHybrid, Location: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, types.JobTypeContract, job.JobType, "page value wins over default")
	assert.Equal(t, types.WorkModeHybrid, job.WorkMode)
	assert.Equal(t, "Berlin", job.Location)
	assert.Equal(t, []string{"Go"}, job.Skills)
	require.NotNil(t, job.ExternalURL)
	assert.Equal(t, "https://jobs.example.com/1", *job.ExternalURL)
	assert.Nil(t, job.SalaryRange)

	job, err = page.NewJob(JobDefaults{WorkMode: types.WorkModeHybrid, Location: "Berlin", Skills: []string{"Rust"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust"}, job.Skills)
}

func TestJobPage_NewJobMissingFields(t *testing.T) {
	page := &JobPage{Title: "Engineer", Company: "Acme", Description: "x", Location: "Remote"}

	_, err := page.NewJob(JobDefaults{JobType: types.JobTypeFullTime})

	var verr *types.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "workMode", verr.Field)
}

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Contains(t, r.Header.Get("User-Agent"), "JobMatcher")
		_, _ = w.Write([]byte(plainPage))
	}))
	defer srv.Close()

	html, err := FetchPage(context.Background(), srv.Client(), srv.URL+"/job")
	require.NoError(t, err)
	assert.Equal(t, plainPage, html)

	_, err = FetchPage(context.Background(), srv.Client(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = FetchPage(context.Background(), nil, "ftp://example.com/job")
	assert.True(t, errors.Is(err, ErrInvalidURL))
}

func TestExtractJob(t *testing.T) {
	mock := &llmtest.MockClient{GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
		assert.Equal(t, llm.TierLite, tier)
		assert.Contains(t, prompt, "Senior Go developer wanted")
		return "```json\n" + `{"title":"Go Developer","company":"Gopher Inc","location":"Remote","description":"Write Go.",` +
			`"jobType":"Full-time","workMode":"Anywhere","skills":["Go","gRPC"]}` + "\n```", nil
	}}

	page, err := ExtractJob(context.Background(), mock, "Senior Go developer wanted")
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", page.Title)
	assert.Equal(t, types.JobTypeFullTime, page.JobType)
	assert.Empty(t, page.WorkMode, "values outside the enum are dropped")
	assert.Equal(t, []string{"Go", "gRPC"}, page.Skills)
}

func TestExtractJob_Errors(t *testing.T) {
	failing := &llmtest.MockClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	_, err := ExtractJob(context.Background(), failing, "text")
	var upstream *types.ErrUpstreamModel
	require.ErrorAs(t, err, &upstream)

	garbage := &llmtest.MockClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
		return "I could not find a job here.", nil
	}}
	_, err = ExtractJob(context.Background(), garbage, "text")
	require.ErrorAs(t, err, &upstream)
}

func TestJobPage_Merge(t *testing.T) {
	page := &JobPage{Title: "From Page", Skills: nil}
	page.Merge(&JobPage{Title: "From Model", Company: "Acme", WorkMode: types.WorkModeRemote, Skills: []string{" Go "}})

	assert.Equal(t, "From Page", page.Title)
	assert.Equal(t, "Acme", page.Company)
	assert.Equal(t, types.WorkModeRemote, page.WorkMode)
	assert.Equal(t, []string{"Go"}, page.Skills)
}
