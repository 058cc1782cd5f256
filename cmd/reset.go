package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the quiz history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		path := env.cfg.DBPath
		w := cmd.OutOrStdout()

		if !yes {
			fmt.Fprintf(w, "This deletes all recorded quizzes in %s.\n", path)
			return errors.New("refusing to reset without --yes")
		}

		existed, err := store.Remove(path)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		if !existed {
			fmt.Fprintln(w, "Nothing to reset.")
			return nil
		}
		env.logger.Info("history reset", zap.String("db", path))
		fmt.Fprintf(w, "Removed %s\n", path)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
}
