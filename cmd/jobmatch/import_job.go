package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/ingestion"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/observability"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/types"
)

type importJobOptions struct {
	url      string
	file     string
	jobType  string
	workMode string
	location string
	skills   []string
	ai       bool
	dryRun   bool
}

func newImportJobCmd(a *app) *cobra.Command {
	opts := &importJobOptions{}
	cmd := &cobra.Command{
		Use:   "import-job",
		Short: "Import a job posting page into the catalog",
		Long: `Import a job posting from a URL or a saved HTML file. Title, company, location and
description are read from the page; flags fill fields the page does not state.
With --ai the model extracts the fields the page markup leaves empty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImportJob(cmd, a, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.url, "url", "u", "", "URL of the job posting")
	flags.StringVarP(&opts.file, "file", "f", "", "Path to a saved HTML job posting")
	flags.StringVar(&opts.jobType, "job-type", "", "Job type when the page has none (Full-time, Part-time, Contract, Internship)")
	flags.StringVar(&opts.workMode, "work-mode", "", "Work mode when the page has none (Remote, Hybrid, On-site)")
	flags.StringVar(&opts.location, "location", "", "Location when the page has none")
	flags.StringSliceVar(&opts.skills, "skills", nil, "Comma-separated skills, replacing any found on the page")
	flags.BoolVar(&opts.ai, "ai", false, "Use the language model to fill fields missing from the markup")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the job as JSON instead of inserting it")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsOneRequired("url", "file")
	return cmd
}

func runImportJob(cmd *cobra.Command, a *app, opts *importJobOptions) error {
	ctx := cmd.Context()

	html, source, err := loadJobHTML(cmd, opts)
	if err != nil {
		return err
	}

	page, err := ingestion.ParseJobPage(html, source)
	if err != nil {
		return err
	}

	if opts.ai {
		client, err := a.newLLMClient(ctx, true)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		extractCtx, cancel := contextWithTimeout(ctx, a.cfg.AITimeout)
		defer cancel()
		extracted, err := ingestion.ExtractJob(extractCtx, client, page.Description)
		if err != nil {
			return err
		}
		page.Merge(extracted)
	}

	job, err := page.NewJob(ingestion.JobDefaults{
		JobType:  types.JobType(opts.jobType),
		WorkMode: types.WorkMode(opts.workMode),
		Location: opts.location,
		Skills:   opts.skills,
	})
	if err != nil {
		var verr *types.ErrValidation
		if errors.As(err, &verr) {
			return fmt.Errorf("page has no usable %s; pass it as a flag: %w", verr.Field, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if a.verbose {
		observability.NewPrinter(out).PrintJob(job)
	}
	if opts.dryRun {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(job)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	created, err := store.CreateJob(ctx, job)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	a.log.Info("job imported",
		zap.Int64("job_id", created.ID),
		zap.String("source", source))
	fmt.Fprintf(out, "Imported job %d: %s at %s\n", created.ID, created.Title, created.Company)
	return nil
}

// loadJobHTML returns the page HTML and its source URL, which is empty for files.
func loadJobHTML(cmd *cobra.Command, opts *importJobOptions) (string, string, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		return string(data), "", nil
	}

	html, err := ingestion.FetchPage(cmd.Context(), nil, opts.url)
	if err != nil {
		return "", "", err
	}
	return html, opts.url, nil
}
