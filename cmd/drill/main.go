// Command drill runs a timed practice session in the terminal.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/studyhub/backend/internal/logging"
	"github.com/studyhub/backend/internal/practice"
	"go.uber.org/zap"
)

var (
	catalogPath string
	seconds     int
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drill [category]",
	Short: "Practice timed multiple-choice questions",
	Long: `drill runs a practice session against the question catalog.

Answer with the option number. Other commands:
  n            next question
  r            back to the first question (score kept)
  reset all    start over with a clean score
  c <category> switch category
  q            quit

Examples:
  # Start with math questions
  drill math

  # Use a custom catalog and 30 seconds per question
  drill --catalog ./questions.yaml --seconds 30 coding`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrill,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the catalog categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := practice.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
		for _, c := range bank.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s (%d questions)\n", c.Key, c.Title, len(c.Questions))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "question catalog YAML (default: built-in)")
	rootCmd.Flags().IntVar(&seconds, "seconds", practice.DefaultQuestionSeconds, "seconds per question")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine events to stderr")
	rootCmd.AddCommand(categoriesCmd)
}

func runDrill(cmd *cobra.Command, args []string) error {
	bank, err := practice.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	category := bank.Categories()[0].Key
	if len(args) == 1 {
		category = args[0]
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = logging.New("debug", "console"); err != nil {
			return err
		}
		defer logger.Sync()
	}

	session, err := practice.NewSession("terminal", bank, category, practice.SessionOptions{
		QuestionSeconds: seconds,
		Timer:           practice.NewTimer(time.Second),
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := newRunner(cmd.OutOrStdout(), session, bank, time.Second)
	return r.run(ctx, cmd.InOrStdin())
}
