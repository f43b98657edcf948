package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/config"
	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/llm"
	"github.com/interviewace/interviewace/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "interviewace",
	Short: "Mock interview coach",
	Long:  "InterviewAce runs mock interviews with an AI interviewer, scores every answer and tracks your progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides INTERVIEWACE_DB_DSN)")
	rootCmd.PersistentFlags().String("user", "", "Email sessions are stored under (overrides INTERVIEWACE_USER)")

	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the --config file and environment, then applies --db.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := resolveDBPath(cmd, cfg); err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return cfg, nil
}

// resolveDBPath lets --db (highest priority) override the configured
// SQLite path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) error {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		return nil
	}
	if cfg.DB.Driver != store.DriverSQLite {
		return fmt.Errorf("--db only applies to the %s driver, not %s", store.DriverSQLite, cfg.DB.Driver)
	}
	cfg.DB.DSN = p
	return store.EnsureDir(p)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// resolveUser returns the --user flag, INTERVIEWACE_USER, or a local
// address derived from the OS account.
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return strings.ToLower(strings.TrimSpace(u))
	}
	if u := os.Getenv(config.EnvPrefix + "_USER"); u != "" {
		return strings.ToLower(strings.TrimSpace(u))
	}
	name := "candidate"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return strings.ToLower(name) + "@localhost"
}

func newLogger(w io.Writer, cfg *config.Config, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// services are the interview components every command shares.
type services struct {
	orchestrator *interview.Orchestrator
	completer    *interview.Completer
	reporter     *interview.Reporter
	providers    *llm.Providers
}

// buildServices wires the model providers, when a credential is
// configured, into the orchestrator and reporter. Without one both run
// on their deterministic paths.
func buildServices(ctx context.Context, cfg *config.Config, st *store.Store, logger *slog.Logger) (*services, error) {
	svc := &services{}

	var events store.LLMEventRepo
	if st != nil {
		events = st.EventRepo()
		svc.completer = interview.NewCompleter(st.SessionRepo())
	}

	var interactive, background llm.Provider
	if cfg.AIEnabled {
		p, err := llm.NewProviders(ctx, cfg.LLM, events, logger)
		if err != nil {
			return nil, fmt.Errorf("LLM provider: %w", err)
		}
		svc.providers = p
		interactive, background = p.Interactive, p.Background
	} else {
		logger.Info("no LLM credential configured, using the question bank", "provider", cfg.LLM.Provider)
	}

	opts := interview.DefaultOptions()
	opts.AIEnabled = cfg.AIEnabled
	opts.Logger = logger
	svc.orchestrator = interview.NewOrchestrator(interactive, opts)
	svc.reporter = interview.NewReporter(background, cfg.AIEnabled, logger)
	return svc, nil
}
