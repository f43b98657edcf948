package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/analytics"
	"github.com/interviewace/interviewace/internal/store"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show your practice statistics",
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

		recs, err := st.SessionRepo().ListByUser(cmd.Context(), resolveUser(cmd), store.ListOpts{})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		sum := analytics.Aggregate(recs, time.Now())

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		}
		if sum.TotalSessions == 0 {
			fmt.Println("No interviews yet. Run `interviewace practice` to start one.")
			return nil
		}

		fmt.Printf("Interviews:   %d (%d questions, %.0f min)\n", sum.TotalSessions, sum.TotalQuestions, sum.PracticeMinutes)
		fmt.Printf("Average:      %.1f/100 (best %.1f)\n", sum.AverageScore, sum.BestScore)
		fmt.Printf("Trend:        %s (consistency %.0f%%)\n", sum.Progress.Trend, sum.Progress.Consistency*100)
		fmt.Printf("Streak:       %d day(s), next milestone %d\n", sum.Streak, sum.NextMilestone)

		printBuckets("By type", sum.ByType)
		printBuckets("By difficulty", sum.ByDifficulty)
		printBuckets("By role", sum.ByRole)
		return nil
	},
}

func printBuckets(title string, buckets []analytics.Bucket) {
	if len(buckets) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(title)
	fmt.Println(strings.Repeat("─", 48))
	for _, b := range buckets {
		fmt.Printf("%-28s  %6d  %8.1f\n", truncate(b.Key, 28), b.Sessions, b.AverageScore)
	}
}

func init() {
	analyticsCmd.Flags().Bool("json", false, "Print the summary as JSON")
}
