package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// chatFailureMessage is the only detail a client sees when the assistant fails.
const chatFailureMessage = "Sorry, I encountered an error."

// handleChat routes one assistant message. Any routing failure becomes a generic 500.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	ctx, cancel := s.withAITimeout(r)
	defer cancel()

	resp, err := s.router.Route(ctx, req.Message, req.CurrentFilters)
	if err != nil {
		s.logger.Error("assistant failed",
			zap.String(logger.FieldUserID, id.String()),
			zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, chatFailureMessage)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
