package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"o2a/inctriage/common/model"
	"o2a/inctriage/internal/app"
	"o2a/inctriage/internal/domains"
	"o2a/inctriage/internal/domains/common"
	"o2a/inctriage/pkg/config"
	"o2a/inctriage/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/triage.yaml", "配置文件路径")
	filePath   = flag.String("file", "", "incident workbook (.xlsx)")
	location   = flag.String("location", "OFFSHORE", "OFFSHORE / ONSHORE")
	export     = flag.Bool("export", false, "写入 AUTO_INC_TRIAGE")
)

// stdoutCallback 把回调打印到终端，代替 lmstfy 回调队列
type stdoutCallback struct{}

func (stdoutCallback) Publish(queue string, data []byte) (string, error) {
	fmt.Printf("---- callback -> %s ----\n%s\n", queue, data)
	return "local-" + uuid.New().String(), nil
}

// FastTest 不经过 lmstfy，直接用 GetProcess 跑一次 incident_triage 任务
func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - INCTRIAGE Worker 快速测试工具")
	fmt.Println("========================================")

	if *filePath == "" {
		fmt.Println("-file is required")
		os.Exit(2)
	}

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger("debug")
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 2. 装配依赖
	ctx := context.Background()
	application, cleanup, err := app.InitializeApp(ctx, cfg, log)
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// 3. 构造 Job
	job := model.IncidentTriageJob{
		Payload: model.IncidentTriagePayload{
			Data: model.IncidentTriageData{
				RequestID:  uuid.New().String(),
				ActionType: model.ActionIncidentTriage,
				ID:         uuid.New().String(),
				Data: model.IncidentTriageBusinessData{
					FilePath: *filePath,
					Location: *location,
					Export:   *export,
				},
			},
		},
	}
	data, err := json.Marshal(job)
	if err != nil {
		fmt.Printf("Failed to marshal job: %v\n", err)
		os.Exit(1)
	}

	// 4. 执行
	proc := domains.GetProcess(log, &common.Deps{
		Executor:      application.Service,
		Callback:      stdoutCallback{},
		CallbackQueue: "fasttest_callback",
		Logger:        log,
	})
	resp := proc(ctx, &client.Job{ID: "fasttest", Queue: "fasttest", Data: data})

	fmt.Println("========================================")
	fmt.Printf("  action: %s\n", resp.Action)
	fmt.Printf("  response: %s\n", resp.Data)
	fmt.Println("========================================")
}
