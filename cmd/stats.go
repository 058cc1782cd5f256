package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/qcm/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy per question file",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		rows, err := s.EventRepo().QuerySourceStats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(w, "No answers recorded yet.")
			return nil
		}

		sep := strings.Repeat("─", 72)
		fmt.Fprintf(w, "%-36s  %8s  %8s  %8s  %8s\n", "File", "Attempts", "Correct", "Accuracy", "Avg Ms")
		fmt.Fprintln(w, sep)

		var attempts, correct int
		for _, r := range rows {
			fmt.Fprintf(w, "%-36s  %8d  %8d  %7.0f%%  %8d\n",
				truncate(r.SourceFile, 36), r.Attempts, r.Correct, r.Accuracy()*100, r.AvgTimeMs)
			attempts += r.Attempts
			correct += r.Correct
		}
		fmt.Fprintln(w, sep)
		total := store.SourceStats{Attempts: attempts, Correct: correct}
		fmt.Fprintf(w, "%-36s  %8d  %8d  %7.0f%%\n", "TOTAL", attempts, correct, total.Accuracy()*100)
		return nil
	},
}
