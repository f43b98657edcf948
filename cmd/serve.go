package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interview HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}

		logger := newLogger(os.Stderr, cfg, true)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, err := buildServices(ctx, cfg, st, logger)
		if err != nil {
			return err
		}

		deps := server.Deps{
			Orchestrator: svc.orchestrator,
			Completer:    svc.completer,
			Reporter:     svc.reporter,
			Sessions:     st.SessionRepo(),
			Limiter:      server.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			Logger:       logger,
		}
		if svc.providers != nil {
			deps.Chat = svc.providers.Interactive
		}

		logger.Info("starting interviewace",
			"version", version,
			"mode", cfg.Mode,
			"db_driver", cfg.DB.Driver,
			"llm_provider", cfg.LLM.Provider,
			"ai_enabled", cfg.AIEnabled,
		)
		return server.New(deps).Run(ctx, cfg.ListenAddr())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Bind address (overrides config)")
	serveCmd.Flags().Int("port", 0, "Bind port (overrides config)")
}
