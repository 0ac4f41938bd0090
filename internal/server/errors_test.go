package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &types.ErrValidation{Field: "status", Message: "bad"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", &types.ErrValidation{Field: "jobId"}), http.StatusBadRequest},
		{"not found", &types.ErrNotFound{Resource: "Job"}, http.StatusNotFound},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.co"}, http.StatusConflict},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"upstream model", &types.ErrUpstreamModel{Err: errors.New("boom")}, http.StatusInternalServerError},
		{"plain", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBodyFor(t *testing.T) {
	body := errorBodyFor(&types.ErrValidation{Field: "jobId", Message: "job does not exist"}, http.StatusBadRequest)
	assert.Equal(t, errorBody{Message: "job does not exist", Field: "jobId"}, body)

	body = errorBodyFor(&types.ErrNotFound{Resource: "Application"}, http.StatusNotFound)
	assert.Equal(t, errorBody{Message: "Application not found"}, body)

	body = errorBodyFor(errors.New("pq: password authentication failed"), http.StatusInternalServerError)
	assert.Equal(t, errorBody{Message: "Internal server error"}, body)
}
