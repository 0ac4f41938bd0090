package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/assistant"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm/llmtest"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

// scriptedInput returns a reader yielding lines, then promptui.ErrEOF.
func scriptedInput(lines ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(lines) == 0 {
			return "", promptui.ErrEOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

func TestChatLoop_CarriesFiltersBetweenTurns(t *testing.T) {
	turn := 0
	client := &llmtest.MockClient{ChatFunc: func(ctx context.Context, req *llm.ChatRequest) (*llm.Message, error) {
		turn++
		if turn == 1 {
			return llmtest.CallTool(assistant.ToolUpdateFilters, map[string]any{"search": "React"})(ctx, req)
		}
		return llmtest.Reply("There are React jobs in the feed.")(ctx, req)
	}}
	router, err := assistant.NewRouter(client, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	err = chatLoop(context.Background(), router, scriptedInput("react jobs please", "  ", "anything else?"), &out, time.Second)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Assistant: I've updated the filters for you.\n")
	assert.Contains(t, out.String(), `filters: {"search":"React"}`)
	assert.Contains(t, out.String(), "Assistant: There are React jobs in the feed.\n")

	reqs := client.Requests()
	require.Len(t, reqs, 2, "blank input is skipped")
	assert.Contains(t, reqs[1].System, `"search":"React"`)
}

func TestChatLoop_ErrorsDoNotEndSession(t *testing.T) {
	calls := 0
	client := &llmtest.MockClient{ChatFunc: func(context.Context, *llm.ChatRequest) (*llm.Message, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("quota exceeded")
		}
		return &llm.Message{Role: llm.RoleModel, Text: "Back again."}, nil
	}}
	router, err := assistant.NewRouter(client, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), router, scriptedInput("one", "two"), &out, 0))
	assert.Contains(t, out.String(), "Sorry, I encountered an error.")
	assert.Contains(t, out.String(), "Assistant: Back again.\n")
}

func TestChatLoop_InterruptEndsSession(t *testing.T) {
	router, err := assistant.NewRouter(&llmtest.MockClient{}, zap.NewNop())
	require.NoError(t, err)

	read := func(string) (string, error) { return "", promptui.ErrInterrupt }
	assert.NoError(t, chatLoop(context.Background(), router, read, &bytes.Buffer{}, time.Second))

	read = func(string) (string, error) { return "", errors.New("tty gone") }
	assert.Error(t, chatLoop(context.Background(), router, read, &bytes.Buffer{}, time.Second))
}

func TestChatLoop_PromptShowsCurrentPage(t *testing.T) {
	client := &llmtest.MockClient{ChatFunc: llmtest.CallTool(assistant.ToolNavigate, map[string]any{"path": "/applications"})}
	router, err := assistant.NewRouter(client, zap.NewNop())
	require.NoError(t, err)

	var labels []string
	next := scriptedInput("show my applications")
	read := func(label string) (string, error) {
		labels = append(labels, label)
		return next(label)
	}

	var out bytes.Buffer
	require.NoError(t, chatLoop(context.Background(), router, read, &out, time.Second))
	assert.Equal(t, []string{"You [/]", "You [/applications]"}, labels)
	assert.Contains(t, out.String(), "page: /applications")
}

func TestChatSession_Apply(t *testing.T) {
	s := &chatSession{page: types.PathJobFeed}
	assert.Empty(t, s.apply(nil))

	mode := types.WorkModeHybrid
	note := s.apply(&types.ChatAction{Type: types.ActionUpdateFilters, Payload: &types.FilterUpdate{WorkMode: &mode}})
	assert.Equal(t, `filters: {"workMode":"Hybrid"}`, note)
	assert.Equal(t, types.WorkModeHybrid, s.filters.WorkMode)

	note = s.apply(&types.ChatAction{Type: types.ActionNavigate, Payload: &types.NavigatePayload{Path: types.PathApplications}})
	assert.Equal(t, "page: /applications", note)
	assert.Equal(t, types.PathApplications, s.page)
}
