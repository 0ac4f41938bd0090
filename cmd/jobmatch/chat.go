package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/assistant"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the job search assistant",
		Long:  "Run the assistant interactively. Filter updates are kept between turns the way the web client keeps them. Ctrl-D or Ctrl-C exits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.newLLMClient(ctx, true)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			router, err := assistant.NewRouter(client, a.log)
			if err != nil {
				return err
			}

			read := func(label string) (string, error) {
				prompt := promptui.Prompt{Label: label}
				return prompt.Run()
			}
			return chatLoop(ctx, router, read, cmd.OutOrStdout(), a.cfg.AITimeout)
		},
	}
}

// chatSession holds the client-side state the assistant sees on every turn.
type chatSession struct {
	filters types.JobFilters
	page    string
}

// chatLoop reads messages with read until it reports an interrupt or EOF. Each
// prompt is labelled with the page the assistant last navigated to.
func chatLoop(ctx context.Context, router *assistant.Router, read func(label string) (string, error), out io.Writer, timeout time.Duration) error {
	session := &chatSession{page: types.PathJobFeed}
	for {
		line, err := read(session.label())
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		message := strings.TrimSpace(line)
		if message == "" {
			continue
		}

		turnCtx, cancel := contextWithTimeout(ctx, timeout)
		current := session.filters
		resp, err := router.Route(turnCtx, message, &current)
		cancel()
		if err != nil {
			fmt.Fprintf(out, "Assistant: Sorry, I encountered an error. (%v)\n", err)
			continue
		}

		fmt.Fprintf(out, "Assistant: %s\n", resp.Message)
		if note := session.apply(resp.Action); note != "" {
			fmt.Fprintf(out, "  %s\n", note)
		}
	}
}

func (s *chatSession) label() string {
	return "You [" + s.page + "]"
}

// apply records the effect of action and describes it.
func (s *chatSession) apply(action *types.ChatAction) string {
	if action == nil {
		return ""
	}
	switch payload := action.Payload.(type) {
	case *types.FilterUpdate:
		s.filters = s.filters.Apply(payload)
		data, _ := json.Marshal(s.filters)
		return "filters: " + string(data)
	case *types.NavigatePayload:
		s.page = payload.Path
		return "page: " + payload.Path
	default:
		return ""
	}
}

// contextWithTimeout bounds ctx by d when d is positive.
func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
