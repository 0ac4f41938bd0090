package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

func TestResumeText_Accepts(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
	}{
		{"plain text", "cv.txt", "text/plain; charset=utf-8"},
		{"pdf", "cv.pdf", "application/pdf"},
		{"pdf by extension", "CV.PDF", "application/octet-stream"},
		{"txt by extension without type", "cv.txt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ResumeText(tt.fileName, tt.contentType, []byte("  Go engineer\nPostgreSQL  "))
			require.NoError(t, err)
			assert.Equal(t, "Go engineer\nPostgreSQL", text)
		})
	}
}

func TestResumeText_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		data        []byte
	}{
		{"word document", "cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("x")},
		{"image", "cv.png", "image/png", []byte("x")},
		{"generic type with unknown extension", "cv.docx", "application/octet-stream", []byte("x")},
		{"empty", "cv.txt", "text/plain", nil},
		{"too large", "cv.txt", "text/plain", make([]byte, MaxResumeBytes+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResumeText(tt.fileName, tt.contentType, tt.data)

			var verr *types.ErrValidation
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, ResumeField, verr.Field)
		})
	}
}

func TestResumeText_DropsInvalidBytes(t *testing.T) {
	data := []byte("%PDF-1.4\x00\xff\xfeSkills: Go, React")

	text, err := ResumeText("cv.pdf", "application/pdf", data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4Skills: Go, React", text)
	assert.False(t, strings.ContainsRune(text, '�'))
}

func TestResumeText_AtSizeLimit(t *testing.T) {
	data := []byte(strings.Repeat("a", MaxResumeBytes))
	text, err := ResumeText("cv.txt", "text/plain", data)
	require.NoError(t, err)
	assert.Len(t, text, MaxResumeBytes)
}
