package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"o2a/inctriage/pkg/infra/mysql"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	dao, closeDB, err := openSink(ctx, cfg.Sink.DSN, cfg.Sink.BatchSize)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := dao.EnsureTables(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("AUTO_INC_TRIAGE and TRIAGE_BATCH are ready"))
	return nil
}

func runShowBatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	dao, closeDB, err := openSink(ctx, cfg.Sink.DSN, cfg.Sink.BatchSize)
	if err != nil {
		return err
	}
	defer closeDB()

	batch, err := dao.GetBatch(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderBatch(batch))
	return nil
}

func openSink(ctx context.Context, dsn string, batchSize int) (*mysql.TriageDAO, func(), error) {
	db, err := mysql.Open(ctx, dsn, mysql.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		return nil, nil, err
	}
	return mysql.NewTriageDAO(db, batchSize), func() { _ = mysql.Close(db) }, nil
}
