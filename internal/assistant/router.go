// Package assistant turns a chat message into a reply and, when the model calls
// one of its tools, a UI action.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/prompts"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// state is a step of one routing turn: the model is asked once, any tool it calls
// is executed once, then the turn ends.
type state int

const (
	stateAgent state = iota
	stateTools
	stateEnd
)

// Router maps a user message to a ChatResponse. It keeps no state between calls.
type Router struct {
	client    llm.Client
	tools     []llm.ToolSpec
	validator *argValidator
	tier      llm.ModelTier
	logger    *zap.Logger
}

// NewRouter returns a Router using the lite tier of client.
func NewRouter(client llm.Client, log *zap.Logger) (*Router, error) {
	tools := Tools()
	validator, err := newArgValidator(tools)
	if err != nil {
		return nil, err
	}
	return &Router{
		client:    client,
		tools:     tools,
		validator: validator,
		tier:      llm.TierLite,
		logger:    logger.OrNop(log),
	}, nil
}

// Route runs one turn for message. current is the client's filter state in any
// JSON-encodable shape; nil means none. Model failures and invalid tool arguments
// are returned as *types.ErrUpstreamModel; the caller decides what the user sees.
func (r *Router) Route(ctx context.Context, message string, current any) (*types.ChatResponse, error) {
	system, err := systemPrompt(current)
	if err != nil {
		return nil, err
	}

	history := []llm.Message{{Role: llm.RoleUser, Text: message}}

	for st := stateAgent; st != stateEnd; {
		switch st {
		case stateAgent:
			reply, err := r.client.Chat(ctx, &llm.ChatRequest{
				System:   system,
				Messages: history,
				Tools:    r.tools,
				Tier:     r.tier,
			})
			if err != nil {
				return nil, &types.ErrUpstreamModel{Err: err}
			}
			reply.Role = llm.RoleModel
			history = append(history, *reply)

			st = stateEnd
			if len(reply.ToolCalls) > 0 {
				st = stateTools
			}

		case stateTools:
			results, err := r.executeTools(history[len(history)-1].ToolCalls)
			if err != nil {
				return nil, &types.ErrUpstreamModel{Err: err}
			}
			if len(results) > 0 {
				history = append(history, llm.Message{Role: llm.RoleTool, ToolResults: results})
			}
			st = stateEnd
		}
	}

	return r.resolve(history)
}

// executeTools runs the first call only; later calls in the same reply are dropped.
// The tools have no side effects: the result echoes the arguments, which become the
// action payload. An unknown first call yields no result.
func (r *Router) executeTools(calls []llm.ToolCall) ([]llm.ToolResult, error) {
	call := calls[0]
	if len(calls) > 1 {
		r.logger.Debug("ignoring extra tool calls", zap.Int("count", len(calls)-1))
	}
	if !r.validator.known(call.Name) {
		r.logger.Warn("model called an unknown tool", zap.String("tool", call.Name))
		return nil, nil
	}
	if err := r.validator.validate(call.Name, call.Args); err != nil {
		return nil, err
	}
	return []llm.ToolResult{{Name: call.Name, Output: call.Args}}, nil
}

// resolve turns the turn's history into a response. The first tool call of the
// model's reply decides the action; when it is unknown, or there is none, the
// model's text is returned verbatim with no action.
func (r *Router) resolve(history []llm.Message) (*types.ChatResponse, error) {
	var reply *llm.Message
	for i := range history {
		if history[i].Role == llm.RoleModel {
			reply = &history[i]
			break
		}
	}
	if reply == nil {
		return &types.ChatResponse{}, nil
	}
	if len(reply.ToolCalls) == 0 || !r.validator.known(reply.ToolCalls[0].Name) {
		return &types.ChatResponse{Message: reply.Text}, nil
	}

	call := reply.ToolCalls[0]
	action, err := toAction(call)
	if err != nil {
		return nil, &types.ErrUpstreamModel{Err: err}
	}
	r.logger.Debug("assistant action", zap.String("tool", call.Name))
	return &types.ChatResponse{Message: confirmation(action.Type), Action: action}, nil
}

func confirmation(action types.ActionType) string {
	if action == types.ActionNavigate {
		return prompts.MustGet("assistant.json", "navigating")
	}
	return prompts.MustGet("assistant.json", "filters-updated")
}

func systemPrompt(current any) (string, error) {
	filters := "none"
	if current != nil {
		data, err := json.Marshal(current)
		if err != nil {
			return "", fmt.Errorf("failed to encode current filters: %w", err)
		}
		if s := string(data); s != "null" {
			filters = s
		}
	}
	return prompts.Format(prompts.MustGet("assistant.json", "system"), map[string]string{
		"CurrentFilters": filters,
	}), nil
}
