package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"o2a/inctriage/internal/business"
	"o2a/inctriage/internal/business/triage"
	"o2a/inctriage/pkg/config"
	"o2a/inctriage/pkg/errorutil"
	"o2a/inctriage/pkg/infra/mysql"
	"o2a/inctriage/pkg/infra/redis"
	"o2a/inctriage/pkg/logger"
)

// App 已装配好的依赖
type App struct {
	Service *business.TriageService
	Sink    *mysql.TriageDAO
	PubSub  *redis.PubSub // Redis 未配置时为 nil
}

// InitializeApp 按配置装配分诊服务
// 任何连接失败都在批次开始前返回 CONFIG_FAILURE
func InitializeApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	pool := mysql.PoolConfig{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	}

	// 1. OMS 订单库
	omsDB, err := mysql.Open(ctx, cfg.MySQL.DSN, pool)
	if err != nil {
		return nil, cleanup, errorutil.ConfigFailure(err, fmt.Sprintf("order database unavailable: %v", err))
	}
	cleanups = append(cleanups, closeDB(ctx, log, omsDB, "order"))

	// 2. 导出库（DSN 相同则复用连接）
	sinkDB := omsDB
	if cfg.Sink.DSN != cfg.MySQL.DSN {
		sinkDB, err = mysql.Open(ctx, cfg.Sink.DSN, pool)
		if err != nil {
			cleanup()
			return nil, func() {}, errorutil.ConfigFailure(err, fmt.Sprintf("sink database unavailable: %v", err))
		}
		cleanups = append(cleanups, closeDB(ctx, log, sinkDB, "sink"))
	}
	sink := mysql.NewTriageDAO(sinkDB, cfg.Sink.BatchSize)

	// 3. 时区
	normalizer, err := triage.NewNormalizer(cfg.Triage.SourceTZ, cfg.Triage.DestTZ)
	if err != nil {
		cleanup()
		return nil, func() {}, errorutil.ConfigFailure(err, err.Error())
	}

	// 4. 流水线
	resolver := triage.NewResolver(mysql.NewOrderStore(omsDB), cfg.Triage.LookupTimeout, log)
	pipeline := triage.NewPipeline(triage.PipelineConfig{
		TargetGroup: cfg.Triage.TargetGroup,
		SLAWindow:   cfg.Triage.SLAWindow,
		Concurrency: cfg.Triage.Concurrency,
	}, resolver, normalizer, log)

	opts := []business.TriageServiceOption{business.WithSink(sink)}

	// 5. Redis 通知（可选）
	var pubsub *redis.PubSub
	if cfg.Redis.Addr != "" {
		pubsub, err = redis.NewPubSub(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// 通知是尽力而为，连接失败不影响分诊
			log.Warnf(ctx, "[App] Redis unavailable, batch notifications disabled: %v", err)
		} else {
			cleanups = append(cleanups, func() { _ = pubsub.Close() })
			opts = append(opts, business.WithNotifier(pubsub, cfg.Redis.Channel))
		}
	}

	app := &App{
		Service: business.NewTriageService(pipeline, cfg.Triage.OutputDir, log, opts...),
		Sink:    sink,
		PubSub:  pubsub,
	}

	log.Infof(ctx, "[App] Initialized: target_group=%s, source_tz=%s, dest_tz=%s, concurrency=%d",
		cfg.Triage.TargetGroup, cfg.Triage.SourceTZ, cfg.Triage.DestTZ, cfg.Triage.Concurrency)

	return app, cleanup, nil
}

func closeDB(ctx context.Context, log logger.Logger, db *gorm.DB, name string) func() {
	return func() {
		if err := mysql.Close(db); err != nil {
			log.Warnf(ctx, "[App] Close %s database failed: %v", name, err)
		}
	}
}
