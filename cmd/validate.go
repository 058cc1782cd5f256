package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/qcm/internal/question"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every QCM file in the question directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := env.cfg.Dir
		bank, err := question.Load(dir,
			question.WithSkipInvalid(true),
			question.WithLogger(env.logger))
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}

		out := cmd.OutOrStdout()
		problems := bank.Problems()
		for _, p := range problems {
			fmt.Fprintf(out, "✗ %v\n", p)
		}
		fmt.Fprintf(out, "%d valid question(s) in %s, %d problem(s)\n", bank.Len(), dir, len(problems))

		if len(problems) > 0 {
			return fmt.Errorf("%d invalid entries in %s", len(problems), dir)
		}
		return nil
	},
}
