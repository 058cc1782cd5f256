package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz right away",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

func init() {
	playCmd.Flags().IntP("limit", "n", 0, "Ask at most this many questions (0 = all)")
}
