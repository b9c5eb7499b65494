package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"o2a/inctriage/pkg/infra/redis"
)

// runWait 等待 worker 处理完指定批次
func runWait(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required to wait for batch notifications")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pubsub, err := redis.NewPubSub(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	batchID := args[0]
	log.Infof(ctx, "[Wait] Waiting for batch %s on %s (timeout %v)", batchID, cfg.Redis.Channel, waitTimeout)

	n, err := pubsub.WaitBatch(ctx, cfg.Redis.Channel, batchID, waitTimeout)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("no notification for batch %s within %v", batchID, waitTimeout)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderNotification(n))
	return nil
}
