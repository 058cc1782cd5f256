// Package cmd implements the qcm command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/config"
	"github.com/abhisek/qcm/internal/llm"
	"github.com/abhisek/qcm/internal/logging"
	"github.com/abhisek/qcm/internal/qcmgen"
	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "qcm",
	Short: "Multiple-choice quizzes in the terminal",
	Long: "qcm loads multiple-choice question sets from a directory of JSON files,\n" +
		"shuffles them and quizzes you one question at a time.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if env.logger != nil {
			_ = env.logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// env holds what every command needs once flags are parsed.
var env struct {
	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config.yaml file")
	pf.String("dir", "", "Directory holding QCM files (default \"rl\")")
	pf.String("db", "", "Path to the SQLite history database")
	pf.String("log-file", "", "Path to the log file")
	pf.Bool("skip-invalid", false, "Skip invalid files and questions instead of failing")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger.
func setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile, cfg.IsDevelopment())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	env.cfg = cfg
	env.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

// openStore opens the history database, creating its directory if needed.
func openStore() (*store.Store, error) {
	if err := store.EnsureDir(env.cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(env.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadOptions returns the question loading options derived from config.
func loadOptions() []question.LoadOption {
	return []question.LoadOption{
		question.WithSkipInvalid(env.cfg.SkipInvalid),
		question.WithLogger(env.logger),
	}
}

// newGenerator builds a question generator from the LLM environment.
// LLM calls are recorded in repo when it is non-nil.
func newGenerator(ctx context.Context, repo store.EventRepo) (qcmgen.Generator, error) {
	llmCfg, err := llm.Resolve()
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(ctx, llmCfg, repo, env.logger)
	if err != nil {
		return nil, err
	}
	if mock, ok := provider.(*llm.MockProvider); ok {
		mock.Fallback = qcmgen.OfflineBatch
	}
	env.logger.Info("LLM provider ready",
		zap.String("provider", llmCfg.Provider),
		zap.String("model", llmCfg.ModelID()))

	return qcmgen.New(provider, qcmgen.DefaultConfig(), env.logger), nil
}
