package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 默认值
const (
	DefaultTargetGroup   = "O2A"
	DefaultSourceTZ      = "Asia/Kolkata"
	DefaultDestTZ        = "America/Lima"
	DefaultSLAWindow     = 8 * time.Hour
	DefaultLookupTimeout = 5 * time.Second
	DefaultConcurrency   = 4
	DefaultOutputDir     = "uploads"
	DefaultSinkBatchSize = 200
)

// Config 全局配置
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	MySQL   MySQLConfig    `mapstructure:"mysql"`
	Sink    SinkConfig     `mapstructure:"sink"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Workers []WorkerConfig `mapstructure:"workers"`
	Triage  TriageConfig   `mapstructure:"triage"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// MySQLConfig 订单库（OMS）配置，只读
type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SinkConfig 导出库配置（AUTO_INC_TRIAGE）
// DSN 为空时复用订单库连接串
type SinkConfig struct {
	DSN       string `mapstructure:"dsn"`
	BatchSize int    `mapstructure:"batch_size"`
}

// RedisConfig Redis 配置（可选，Addr 为空则不发通知）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"` // 回调队列名称
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`     // 并发处理数
	BufferSize int           `mapstructure:"buffer_size"` // Channel 缓冲大小
	Timeout    time.Duration `mapstructure:"timeout"`     // 单个任务超时
}

// TriageConfig 分诊规则配置
type TriageConfig struct {
	TargetGroup   string        `mapstructure:"target_group"`   // 只处理该 Assigned Group
	SourceTZ      string        `mapstructure:"source_tz"`      // 离岸站点时区
	DestTZ        string        `mapstructure:"dest_tz"`        // 秘鲁站点时区
	SLAWindow     time.Duration `mapstructure:"sla_window"`     // 8 小时规则
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"` // 单次 OMS 查询超时
	Concurrency   int           `mapstructure:"concurrency"`    // 并发查询数
	OutputDir     string        `mapstructure:"output_dir"`     // processed_data.xlsx 输出目录
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // 为空则不暴露 /metrics
}

// Load 加载配置文件
// 环境变量 TRIAGE_<SECTION>_<KEY> 覆盖文件中的同名配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("triage")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if cfg.Sink.DSN == "" {
		cfg.Sink.DSN = cfg.MySQL.DSN
	}

	return &cfg, nil
}

// setDefaults 设置默认值（同时让 AutomaticEnv 能识别这些 key）
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "inctriage")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("mysql.max_open_conns", 8)
	v.SetDefault("mysql.max_idle_conns", 4)
	v.SetDefault("mysql.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("sink.dsn", "")
	v.SetDefault("sink.batch_size", DefaultSinkBatchSize)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "inc_triage_complete")
	v.SetDefault("triage.target_group", DefaultTargetGroup)
	v.SetDefault("triage.source_tz", DefaultSourceTZ)
	v.SetDefault("triage.dest_tz", DefaultDestTZ)
	v.SetDefault("triage.sla_window", DefaultSLAWindow)
	v.SetDefault("triage.lookup_timeout", DefaultLookupTimeout)
	v.SetDefault("triage.concurrency", DefaultConcurrency)
	v.SetDefault("triage.output_dir", DefaultOutputDir)
	v.SetDefault("metrics.addr", "")
}

// Validate 验证批处理所需配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if c.Triage.TargetGroup == "" {
		return fmt.Errorf("triage.target_group is required")
	}
	if c.Triage.SourceTZ == "" || c.Triage.DestTZ == "" {
		return fmt.Errorf("triage.source_tz and triage.dest_tz are required")
	}
	if c.Triage.SLAWindow <= 0 {
		return fmt.Errorf("triage.sla_window must be positive, got %s", c.Triage.SLAWindow)
	}
	if c.Triage.Concurrency <= 0 {
		return fmt.Errorf("triage.concurrency must be positive, got %d", c.Triage.Concurrency)
	}
	return nil
}

// ValidateWorker 验证 Worker 模式额外需要的配置
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for _, w := range c.Workers {
		if w.QueueName == "" {
			return fmt.Errorf("worker %q: queue_name is required", w.Name)
		}
		if w.CallbackQueue == "" {
			return fmt.Errorf("worker %q: callback_queue is required", w.Name)
		}
		if w.Subscriber.Threads <= 0 || w.Processor.Threads <= 0 {
			return fmt.Errorf("worker %q: subscriber.threads and processor.threads must be positive", w.Name)
		}
		if w.Processor.Timeout <= 0 {
			return fmt.Errorf("worker %q: processor.timeout must be positive", w.Name)
		}
	}
	return nil
}
