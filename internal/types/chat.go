package types

// ActionType tags a ChatAction.
type ActionType string

// Actions the assistant can ask the client to perform.
const (
	ActionUpdateFilters ActionType = "UPDATE_FILTERS"
	ActionNavigate      ActionType = "NAVIGATE"
)

// Paths the navigate tool may target.
const (
	PathJobFeed      = "/"
	PathApplications = "/applications"
	PathProfile      = "/profile"
)

// NavigationPaths lists the fixed navigation targets.
var NavigationPaths = []string{PathJobFeed, PathApplications, PathProfile}

// ChatAction is a UI mutation requested by the assistant. Payload is a *FilterUpdate
// for UPDATE_FILTERS and a *NavigatePayload for NAVIGATE.
type ChatAction struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload"`
}

// NavigatePayload is the payload of a NAVIGATE action.
type NavigatePayload struct {
	Path string `json:"path"`
}

// ChatRequest is the body of POST /api/ai/chat. CurrentFilters is whatever the client
// holds, including merged FilterUpdate payloads with fractional scores, and is only
// shown to the model.
type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	CurrentFilters any    `json:"currentFilters,omitempty"`
}

// ChatResponse is the assistant's reply to one message.
type ChatResponse struct {
	Message string      `json:"message"`
	Action  *ChatAction `json:"action,omitempty"`
}

// MatchResult is the outcome of scoring one job against one resume.
type MatchResult struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}
