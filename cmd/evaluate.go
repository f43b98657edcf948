package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/evaluator"
	"github.com/interviewace/interviewace/internal/interview"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a single answer without starting an interview",
	Long: `Score one answer to one question and print the breakdown, feedback and a
suggested follow-up. The answer is read from --answer or, when omitted, from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		question, _ := f.GetString("question")
		answer, _ := f.GetString("answer")
		role, _ := f.GetString("role")
		typ, _ := f.GetString("type")
		difficulty, _ := f.GetString("difficulty")
		asJSON, _ := f.GetBool("json")

		if answer == "" {
			text, err := readAnswer(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			answer = text
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(os.Stderr, cfg, false)

		ctx := cmd.Context()
		svc, err := buildServices(ctx, cfg, nil, logger)
		if err != nil {
			return err
		}

		res, err := svc.orchestrator.Enhance(ctx, interview.EnhanceInput{
			Question: question,
			Answer:   answer,
			Config: interview.Config{
				Role:       role,
				Type:       strings.ToLower(typ),
				Difficulty: strings.ToLower(difficulty),
			},
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printEvaluation(out, res)
		return nil
	},
}

func readAnswer(r io.Reader) (string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func printEvaluation(w io.Writer, res *interview.EnhanceResult) {
	ev := res.Evaluation
	sep := strings.Repeat("─", 40)

	fmt.Fprintf(w, "Score:       %.0f/100\n", ev.OverallScore)
	fmt.Fprintln(w, sep)
	for _, d := range []evaluator.Dimension{
		evaluator.DimTechnical,
		evaluator.DimClarity,
		evaluator.DimConfidence,
		evaluator.DimRelevance,
		evaluator.DimStructure,
	} {
		fmt.Fprintf(w, "%-12s %4.1f/10\n", d, ev.Breakdown.Get(d))
	}
	fmt.Fprintln(w, sep)

	fmt.Fprintf(w, "\nFeedback (%s):\n%s\n", res.Source, res.Feedback)
	if len(ev.Strengths) > 0 {
		fmt.Fprintln(w, "\nStrengths:")
		for _, s := range ev.Strengths {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if len(ev.Improvements) > 0 {
		fmt.Fprintln(w, "\nTo improve:")
		for _, s := range ev.Improvements {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if res.FollowUp != nil {
		fmt.Fprintf(w, "\nFollow-up: %s\n", *res.FollowUp)
	}
}

func init() {
	evaluateCmd.Flags().StringP("question", "q", "", "The interview question (required)")
	evaluateCmd.Flags().StringP("answer", "a", "", "Your answer (default: read from stdin)")
	evaluateCmd.Flags().String("role", "Software Engineer", "Role being interviewed for")
	evaluateCmd.Flags().String("type", "technical", "Interview type")
	evaluateCmd.Flags().String("difficulty", interview.DifficultyMedium, "Difficulty: easy, medium or hard")
	evaluateCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = evaluateCmd.MarkFlagRequired("question")
}
