package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/llm"
	"github.com/interviewace/interviewace/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		session, _ := cmd.Flags().GetString("session")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.LLMEventQuery{
			Purpose:   purpose,
			SessionID: session,
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-18s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 104))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-18s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 18),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("event %d not found", id)
			}
			return fmt.Errorf("get event: %w", err)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider:  %s\n", e.Provider)
		fmt.Printf("Model:     %s\n", e.Model)
		fmt.Printf("Purpose:   %s\n", e.Purpose)
		if e.SessionID != "" {
			fmt.Printf("Session:   %s\n", e.SessionID)
		}
		fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Println()
			fmt.Println(sep)
			fmt.Println(part.title)
			fmt.Println(sep)
			if part.body != "" {
				fmt.Println(part.body)
			} else {
				fmt.Println("(not captured)")
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().UsageStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		printUsageByPurpose(usage)
		printCostByModel(usage)
		return nil
	},
}

type usageTotals struct {
	key                    string
	calls, failures        int
	inputTokens, outTokens int64
	latencySum             float64
}

// rollup merges per model and purpose rows under key.
func rollup(usage []store.LLMUsage, key func(store.LLMUsage) string) []usageTotals {
	byKey := map[string]*usageTotals{}
	var order []string
	for _, u := range usage {
		k := key(u)
		t, ok := byKey[k]
		if !ok {
			t = &usageTotals{key: k}
			byKey[k] = t
			order = append(order, k)
		}
		t.calls += u.Requests
		t.failures += u.Failures
		t.inputTokens += u.InputTokens
		t.outTokens += u.OutputTokens
		t.latencySum += u.AvgLatencyMs * float64(u.Requests)
	}
	sort.Strings(order)
	out := make([]usageTotals, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}

func printUsageByPurpose(usage []store.LLMUsage) {
	rows := rollup(usage, func(u store.LLMUsage) string { return u.Purpose })

	fmt.Println("Usage by Purpose")
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
	fmt.Println(strings.Repeat("─", 80))

	var total usageTotals
	for _, r := range rows {
		avg := 0.0
		if r.calls > 0 {
			avg = r.latencySum / float64(r.calls)
		}
		fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d  %8.0f\n",
			truncate(r.key, 16), r.calls, r.failures, r.inputTokens, r.outTokens, r.inputTokens+r.outTokens, avg)
		total.calls += r.calls
		total.failures += r.failures
		total.inputTokens += r.inputTokens
		total.outTokens += r.outTokens
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %10d\n",
		"TOTAL", total.calls, total.failures, total.inputTokens, total.outTokens, total.inputTokens+total.outTokens)
}

func printCostByModel(usage []store.LLMUsage) {
	rows := rollup(usage, func(u store.LLMUsage) string { return u.Model })

	fmt.Println()
	fmt.Println("Estimated Cost (USD)")
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n",
		"Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(strings.Repeat("─", 72))

	var totalCost float64
	var unknownModels []string
	for _, r := range rows {
		cost := llm.LookupCost(r.key)
		if cost == nil {
			unknownModels = append(unknownModels, r.key)
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(r.key, 32), r.calls, r.inputTokens, r.outTokens, "?")
			continue
		}
		c := cost.Cost(int(r.inputTokens), int(r.outTokens))
		totalCost += c
		fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
			truncate(r.key, 32), r.calls, r.inputTokens, r.outTokens, formatCost(c))
	}

	fmt.Println(strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(totalCost))

	if len(unknownModels) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. interview-respond, interview-report)")
	llmListCmd.Flags().String("session", "", "Filter by interview session ID")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
