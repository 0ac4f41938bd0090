package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/ingestion"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/matching"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/observability"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

type scoreOptions struct {
	jobID      int64
	resumePath string
	ai         bool
}

func newScoreCmd(a *app) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a resume file against one job",
		Long:  "Score a resume file (.txt or .pdf) against a catalog job with the local keyword scorer, or with the model when --ai is set.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, a, opts)
		},
	}
	cmd.Flags().Int64Var(&opts.jobID, "job-id", 0, "Catalog job ID (required)")
	cmd.Flags().StringVarP(&opts.resumePath, "resume", "r", "", "Path to the resume file (required)")
	cmd.Flags().BoolVar(&opts.ai, "ai", false, "Score with the language model")
	_ = cmd.MarkFlagRequired("job-id")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}

func runScore(cmd *cobra.Command, a *app, opts *scoreOptions) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(opts.resumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	resumeText, err := ingestion.ResumeText(filepath.Base(opts.resumePath), "", data)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	job, err := store.GetJob(ctx, opts.jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return &types.ErrNotFound{Resource: fmt.Sprintf("Job %d", opts.jobID)}
	}

	var result types.MatchResult
	if opts.ai {
		client, err := a.newLLMClient(ctx, true)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		scoreCtx, cancel := contextWithTimeout(ctx, a.cfg.AITimeout)
		defer cancel()
		result = matching.NewLLMScorer(client, a.log).ScoreJob(scoreCtx, job, resumeText)
	} else {
		result = matching.ScoreLocal(job, resumeText)
	}

	out := cmd.OutOrStdout()
	if a.verbose {
		observability.NewPrinter(out).PrintMatch(job, result)
		return nil
	}
	fmt.Fprintf(out, "%s at %s\n", job.Title, job.Company)
	fmt.Fprintf(out, "Score: %d\n", result.Score)
	fmt.Fprintf(out, "Explanation: %s\n", result.Explanation)
	return nil
}
