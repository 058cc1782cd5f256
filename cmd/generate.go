package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/qcmgen"
	"github.com/abhisek/qcm/internal/question"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a new QCM file on a topic using an LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		out, _ := cmd.Flags().GetString("out")
		count := env.cfg.Generate.Count

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		gen, err := newGenerator(cmd.Context(), st.EventRepo())
		if err != nil {
			return err
		}

		var existing []string
		if bank, err := question.Load(env.cfg.Dir, question.WithSkipInvalid(true)); err == nil {
			for _, q := range bank.All() {
				existing = append(existing, q.Text)
			}
		} else {
			env.logger.Debug("no existing questions for dedup", zap.Error(err))
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Generating %d question(s) about %q...\n", count, topic)

		res, err := gen.Generate(cmd.Context(), qcmgen.Request{Topic: topic, Count: count, Existing: existing})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("generation timed out after %s", qcmgen.DefaultConfig().Timeout)
			}
			return err
		}

		path := qcmgen.OutputPath(env.cfg.Dir, topic, out)
		if err := question.WriteFile(path, res.Questions); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		fmt.Fprintf(w, "Wrote %d question(s) to %s\n", len(res.Questions), path)
		for _, r := range res.Rejected {
			fmt.Fprintf(w, "  rejected: %v\n", r)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Subject of the questions")
	generateCmd.Flags().IntP("count", "c", 0, "Number of questions (default from config)")
	generateCmd.Flags().StringP("out", "o", "", "Output file (default <dir>/<topic>.json)")
	_ = generateCmd.MarkFlagRequired("topic")
}
