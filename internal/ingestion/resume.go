// Package ingestion turns uploaded resumes and fetched job pages into catalog text.
package ingestion

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// MaxResumeBytes caps the size of an uploaded resume.
const MaxResumeBytes = 5 << 20

// ResumeField is the multipart field carrying the resume file.
const ResumeField = "resume"

var allowedResumeTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
}

var resumeExtensions = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
}

// ResumeText checks an uploaded file against the resume allowlist and returns its
// content decoded as UTF-8. Invalid byte sequences and NUL bytes are dropped; PDF
// structure is not interpreted.
func ResumeText(fileName, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &types.ErrValidation{Field: ResumeField, Message: "file is empty"}
	}
	if len(data) > MaxResumeBytes {
		return "", &types.ErrValidation{Field: ResumeField, Message: "file exceeds 5 MiB"}
	}
	if _, err := ResumeMediaType(fileName, contentType); err != nil {
		return "", err
	}

	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text), nil
}

// ResumeMediaType resolves the media type of an upload. A generic or missing
// content type falls back to the file extension.
func ResumeMediaType(fileName, contentType string) (string, error) {
	mediaType := ""
	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			mediaType = strings.ToLower(parsed)
		}
	}

	if allowedResumeTypes[mediaType] {
		return mediaType, nil
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		if byExt, ok := resumeExtensions[strings.ToLower(filepath.Ext(fileName))]; ok {
			return byExt, nil
		}
	}
	return "", &types.ErrValidation{
		Field:   ResumeField,
		Message: fmt.Sprintf("unsupported file type %q: upload a PDF or plain text file", firstNonEmpty(mediaType, filepath.Ext(fileName))),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
