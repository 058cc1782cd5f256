package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/qcm/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List past quizzes, or the answers of one quiz",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		w := cmd.OutOrStdout()
		repo := s.EventRepo()

		if len(args) == 1 {
			answers, err := repo.QueryAnswers(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("query answers: %w", err)
			}
			if len(answers) == 0 {
				return fmt.Errorf("no answers recorded for session %s", args[0])
			}
			for i, a := range answers {
				mark := "✓"
				if !a.Correct {
					mark = "✗"
				}
				fmt.Fprintf(w, "%3d. %s %s\n", i+1, mark, truncate(a.QuestionText, 70))
				fmt.Fprintf(w, "     %s  selected %v  answer %v  %dms\n",
					a.SourceFile, a.Selected, a.CorrectAnswer, a.TimeMs)
			}
			return nil
		}

		sessions, err := repo.QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(w, "No quizzes recorded yet.")
			return nil
		}

		fmt.Fprintf(w, "%-36s  %-16s  %8s  %9s  %8s  %s\n",
			"Session", "Date", "Answered", "Correct", "Accuracy", "Source")
		fmt.Fprintln(w, strings.Repeat("─", 100))
		for _, r := range sessions {
			fmt.Fprintf(w, "%-36s  %-16s  %4d/%-3d  %9d  %7.0f%%  %s\n",
				r.SessionID,
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.QuestionsAnswered, r.QuestionsTotal,
				r.CorrectAnswers,
				r.Accuracy()*100,
				r.SourceDir)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
}
