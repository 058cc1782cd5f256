package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/app"
	"github.com/abhisek/qcm/internal/qcmgen"
	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/screens/home"
	"github.com/abhisek/qcm/internal/selfupdate"
)

// runApp opens the store, builds dependencies, and launches the TUI. With
// startQuiz the questions are loaded up front and a quiz opens immediately.
func runApp(cmd *cobra.Command, startQuiz bool) error {
	ctx := cmd.Context()
	cfg := env.cfg

	var bank *question.Bank
	if startQuiz {
		b, err := question.Load(cfg.Dir, loadOptions()...)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		if b.Len() == 0 {
			return fmt.Errorf("no questions found in %s", cfg.Dir)
		}
		bank = b.Head(cfg.Limit)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	homeOpts := home.Options{
		Dir:             cfg.Dir,
		LoadOptions:     loadOptions(),
		Limit:           cfg.Limit,
		EventRepo:       eventRepo,
		GenerateCount:   cfg.Generate.Count,
		GenerateTimeout: qcmgen.DefaultConfig().Timeout,
		LatestVersion:   latestVersion(ctx),
		Logger:          env.logger,
	}

	gen, err := newGenerator(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question generation will be unavailable.")
		env.logger.Info("LLM provider not configured", zap.Error(err))
	} else {
		homeOpts.Generator = gen
	}

	return app.Run(ctx, app.Options{Home: homeOpts, Quiz: bank})
}

// latestVersion returns a newer release tag, or "" when up to date, on a dev
// build, or when the check fails.
func latestVersion(ctx context.Context) string {
	if version == selfupdate.DevVersion {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	res, err := selfupdate.NewChecker().Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		env.logger.Debug("update check failed", zap.Error(err))
		return ""
	}
	if !res.UpdateAvailable {
		return ""
	}
	return res.LatestVersion
}
