package prompts

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("matching.json", "score-job")
	require.NoError(t, err)
	assert.Contains(t, prompt, "JOB DESCRIPTION:")
	assert.Contains(t, prompt, "{{.Resume}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("matching.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
	assert.Equal(t, "Navigating now.", MustGet("assistant.json", "navigating"))
	assert.Equal(t, "I've updated the filters for you.", MustGet("assistant.json", "filters-updated"))
}

func TestFormat(t *testing.T) {
	out := Format("Job: {{.JobDescription}} / Resume: {{.Resume}} / {{.Missing}}", map[string]string{
		"JobDescription": "Go dev",
		"Resume":         "Gopher",
	})
	assert.Equal(t, "Job: Go dev / Resume: Gopher / {{.Missing}}", out)
}

func TestList(t *testing.T) {
	keys, err := List("assistant.json")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"filters-updated", "navigating", "system"}, keys)
}
