package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"o2a/inctriage/internal/app"
	"o2a/inctriage/internal/business"
	"o2a/inctriage/internal/business/triage"
	"o2a/inctriage/pkg/config"
	"o2a/inctriage/pkg/errorutil"
	"o2a/inctriage/pkg/logger"
)

func runTriage(cmd *cobra.Command, args []string) error {
	mode, err := triage.ParseLocationMode(location)
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filePath, err)
	}
	defer f.Close()

	application, cleanup, err := app.InitializeApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	batchID := uuid.New().String()
	report, err := application.Service.ExecuteBatch(logger.WithValue(ctx, logger.KeyTraceID, batchID), &business.BatchRequest{
		BatchID:    batchID,
		RequestID:  batchID,
		SourceName: filepath.Base(filePath),
		Source:     f,
		Mode:       mode,
		Export:     export,
		OutputName: outputName,
	})

	out := cmd.OutOrStdout()
	if report != nil && report.Result != nil {
		fmt.Fprintln(out, renderRecords(report.Result.Records))
		fmt.Fprintln(out, renderSummary(report))
	}
	if err != nil {
		if report != nil && report.OutputPath != "" {
			fmt.Fprintf(out, "%s %s\n", warnStyle.Render("processed file was written:"), report.OutputPath)
		}
		if kind := errorutil.KindOf(err); kind != errorutil.KindUnknown {
			return fmt.Errorf("%s: %w", kind, err)
		}
		return err
	}
	return nil
}

func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}
