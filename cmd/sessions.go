package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse completed interviews",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your completed interviews, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		email := resolveUser(cmd)
		recs, err := st.SessionRepo().ListByUser(cmd.Context(), email, store.ListOpts{Limit: limit, Offset: offset})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(recs) == 0 {
			fmt.Printf("No sessions found for %s.\n", email)
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-24s  %-12s  %-6s  %3s  %5s\n",
			"ID", "Started", "Role", "Type", "Level", "Qs", "Score")
		fmt.Println(strings.Repeat("\u2500", 114))
		for _, r := range recs {
			fmt.Printf("%-36s  %-16s  %-24s  %-12s  %-6s  %3d  %5.1f\n",
				r.ID,
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.Role, 24),
				truncate(r.Type, 12),
				r.Difficulty,
				len(r.Questions),
				evaluator.NormalizeStored(r.OverallScore, r.ScoreScale),
			)
		}
		return nil
	},
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one interview with its report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		rec, err := st.SessionRepo().Get(ctx, args[0])
		if err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("session %s not found", args[0])
			}
			return fmt.Errorf("get session: %w", err)
		}
		if rec.UserEmail != resolveUser(cmd) {
			return fmt.Errorf("session %s not found", args[0])
		}

		logger := newLogger(os.Stderr, cfg, false)
		svc, err := buildServices(ctx, cfg, st, logger)
		if err != nil {
			return err
		}
		rep, err := svc.reporter.Generate(ctx, rec)
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		sep := strings.Repeat("\u2500", 60)
		fmt.Printf("ID:          %s\n", rec.ID)
		fmt.Printf("Role:        %s\n", rec.Role)
		fmt.Printf("Type:        %s (%s)\n", rec.Type, rec.Difficulty)
		fmt.Printf("Started:     %s\n", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Duration:    %s\n", rec.EndedAt.Sub(rec.StartedAt).Round(time.Second))
		fmt.Printf("Score:       %.1f/100\n", rep.OverallScore)
		fmt.Printf("Trend:       %s (consistency %.0f%%)\n", rep.Progress.Trend, rep.Progress.Consistency*100)

		for i, q := range rec.Questions {
			fmt.Println()
			fmt.Println(sep)
			fmt.Printf("Q%d  %.0f/100\n", i+1, evaluator.NormalizeStored(q.Score, rec.ScoreScale))
			fmt.Println(sep)
			fmt.Println(q.Question)
			fmt.Println()
			fmt.Println(q.Answer)
			if q.Feedback != "" {
				fmt.Printf("\nFeedback: %s\n", q.Feedback)
			}
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Printf("REPORT (%s)\n", rep.Source)
		fmt.Println(sep)
		fmt.Println(rep.Summary)
		printList("Strengths", rep.Strengths)
		printList("To improve", rep.Improvements)
		return nil
	},
}

func printList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", heading)
	for _, it := range items {
		fmt.Printf("  - %s\n", it)
	}
}

func init() {
	sessionsListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	sessionsListCmd.Flags().Int("offset", 0, "Number of sessions to skip")
	sessionsViewCmd.Flags().Bool("json", false, "Print the report as JSON")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
}
