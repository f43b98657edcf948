package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interviewace/interviewace/internal/app"
	"github.com/interviewace/interviewace/internal/interview"
	"github.com/interviewace/interviewace/internal/screens/practice"
	"github.com/interviewace/interviewace/internal/store"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a mock interview in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

func init() {
	addPracticeFlags(practiceCmd)
}

func addPracticeFlags(c *cobra.Command) {
	c.Flags().String("role", "Software Engineer", "Role being interviewed for")
	c.Flags().String("type", "technical", "Interview type (technical, behavioral, ...)")
	c.Flags().String("difficulty", interview.DifficultyMedium, "Difficulty: easy, medium or hard")
	c.Flags().Int("questions", 0, "Number of main questions (default 5, or the number of --question flags)")
	c.Flags().String("focus", "", "Focus area, e.g. system design")
	c.Flags().String("company", "", "Company to tailor the interview to")
	c.Flags().StringArray("question", nil, "Ask this question (repeatable, asked in order)")
	c.Flags().String("name", "", "Your first name, used in the greeting")
	c.Flags().Duration("speak-delay", practice.DefaultSpeakDelay, "Pause after each question before you can answer")
	c.Flags().String("log-file", "", "Write logs to this file (default: interviewace.log next to the database)")
}

func interviewConfig(cmd *cobra.Command) (interview.Config, error) {
	f := cmd.Flags()
	role, _ := f.GetString("role")
	typ, _ := f.GetString("type")
	difficulty, _ := f.GetString("difficulty")
	count, _ := f.GetInt("questions")
	focus, _ := f.GetString("focus")
	company, _ := f.GetString("company")
	questions, _ := f.GetStringArray("question")

	cfg := interview.Config{
		Role:          role,
		Type:          strings.ToLower(typ),
		Difficulty:    strings.ToLower(difficulty),
		FocusArea:     focus,
		Company:       company,
		QuestionCount: count,
		Questions:     questions,
	}
	return cfg, cfg.Validate()
}

// runPractice opens the store, builds dependencies, and launches the TUI.
func runPractice(cmd *cobra.Command) error {
	icfg, err := interviewConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal, so logs go to a file.
	logOut := io.Discard
	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" && cfg.DB.Driver == store.DriverSQLite {
		logPath = filepath.Join(filepath.Dir(cfg.DB.DSN), "interviewace.log")
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer f.Close()
			logOut = f
		}
	}
	logger := newLogger(logOut, cfg, false)

	svc, err := buildServices(cmd.Context(), cfg, st, logger)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	delay, _ := cmd.Flags().GetDuration("speak-delay")

	return app.Run(cmd.Context(), app.Options{
		Practice: practice.Deps{
			Orchestrator: svc.orchestrator,
			Completer:    svc.completer,
			Reporter:     svc.reporter,
			Config:       icfg,
			UserEmail:    resolveUser(cmd),
			UserName:     name,
			SpeakDelay:   delay,
			Logger:       logger,
		},
		Sessions: st.SessionRepo(),
	})
}
