package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/server"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/server/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing the job feed, matching, applications, resumes and assistant endpoints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}
	cmd.Flags().Int("port", 8080, "Port to listen on")
	cmd.Flags().Bool("seed", true, "Seed the demo catalog when the job table is empty")
	_ = a.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("seed_on_start", cmd.Flags().Lookup("seed"))
	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	if err := a.cfg.ValidateServer(); err != nil {
		return err
	}
	jwtCfg, err := a.cfg.JWT()
	if err != nil {
		return err
	}
	pwCfg, err := a.cfg.Password()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if a.cfg.SeedOnStart {
		n, err := db.Seed(ctx, store)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		if n > 0 {
			a.log.Info("seeded job catalog", zap.Int("jobs", n))
		}
	}

	client, err := a.newLLMClient(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	if a.cfg.GeminiAPIKey == "" {
		a.log.Warn("GEMINI_API_KEY not set; AI scoring and the assistant are unavailable")
	}

	srv, err := server.New(server.Options{
		Port:      a.cfg.Port,
		Store:     store,
		LLM:       client,
		Logger:    a.log,
		JWT:       jwtCfg,
		Password:  pwCfg,
		RateLimit: ratelimit.LoadConfig(),
		AITimeout: a.cfg.AITimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
