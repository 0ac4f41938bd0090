// Package main provides the jobmatch command: the job matcher HTTP API server and
// its maintenance tools.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/config"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/llm"
	"github.com/aakarsha2003/AI-Job-Matcher/internal/logger"
)

// app carries the state shared by every subcommand. Config and logger are resolved
// once in the root PersistentPreRunE.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "jobmatch",
		Short:         "AI job matcher API server",
		Long:          "jobmatch serves the job feed, resume matching, application tracking and assistant API, and manages its catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Path to a YAML or JSON config file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Print formatted job and match cards")
	flags.String("database-url", config.DefaultDatabaseURL, "Database URL (postgres://, sqlite://, memory://)")
	flags.Bool("log-json", false, "Log as JSON")
	flags.Bool("log-debug", false, "Enable debug logging")
	_ = a.v.BindPFlag("database_url", flags.Lookup("database-url"))
	_ = a.v.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = a.v.BindPFlag("log_debug", flags.Lookup("log-debug"))

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newScoreCmd(a),
		newChatCmd(a),
		newImportJobCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// openStore opens and migrates the configured database.
func (a *app) openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// llmConfig applies the configured model overrides to the default model set.
func (a *app) llmConfig() *llm.Config {
	return llm.DefaultConfig().
		WithModel(llm.TierLite, a.cfg.AIModelLite).
		WithModel(llm.TierStandard, a.cfg.AIModelStandard)
}

// newLLMClient returns the configured model client. Without an API key every call
// fails, unless required is set, in which case the key is demanded up front.
func (a *app) newLLMClient(ctx context.Context, required bool) (llm.Client, error) {
	if required && a.cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for this command")
	}
	client, err := llm.NewClient(ctx, a.llmConfig(), a.cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
