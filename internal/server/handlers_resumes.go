package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/ingestion"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// multipartOverhead is the allowance for multipart framing on top of the file itself.
const multipartOverhead = 64 << 10

// handleUploadResume stores the text of a multipart "resume" upload as the caller's
// current resume.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxResumeBytes+multipartOverhead)
	file, header, err := r.FormFile(ingestion.ResumeField)
	if err != nil {
		s.handleError(w, r, uploadError(err))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxResumeBytes+1))
	if err != nil {
		s.handleError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	fileName := filepath.Base(header.Filename)
	text, err := ingestion.ResumeText(fileName, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resume, err := s.store.CreateResume(r.Context(), &types.NewResume{
		UserID:   id,
		FileName: fileName,
		Content:  text,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("resume uploaded",
		zap.String(logger.FieldUserID, id.String()),
		zap.Int64("resume_id", resume.ID),
		zap.Int("bytes", len(data)))
	s.jsonResponse(w, http.StatusCreated, resume)
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return &types.ErrValidation{Field: ingestion.ResumeField, Message: "file exceeds 5 MiB"}
	case errors.Is(err, http.ErrMissingFile):
		return &types.ErrValidation{Field: ingestion.ResumeField, Message: "resume file is required"}
	default:
		return &types.ErrValidation{Field: ingestion.ResumeField, Message: "invalid multipart upload"}
	}
}

func (s *Server) handleGetCurrentResume(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resume, err := s.store.GetCurrentResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if resume == nil {
		s.handleError(w, r, &types.ErrNotFound{Resource: "Resume"})
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateCurrentResume rewrites the content of the caller's current resume.
func (s *Server) handleUpdateCurrentResume(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpdateResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	current, err := s.store.GetCurrentResume(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if current == nil {
		s.handleError(w, r, &types.ErrNotFound{Resource: "Resume"})
		return
	}

	updated, err := s.store.UpdateResumeContent(r.Context(), id, current.ID, req.Content)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if updated == nil {
		s.handleError(w, r, &types.ErrNotFound{Resource: "Resume"})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}
