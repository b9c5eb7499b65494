package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: inctriage
  log_level: debug
mysql:
  dsn: "oms:pw@tcp(127.0.0.1:3306)/oms?parseTime=True&loc=UTC"
lmstfy:
  host: 127.0.0.1
  port: 7777
  namespace: o2a
workers:
  - name: incident_triage
    queue_name: incident_triage
    callback_queue: incident_triage_callback
    subscriber:
      threads: 1
      timeout: 3s
      ttr: 10m
    processor:
      threads: 2
      buffer_size: 4
      timeout: 8m
triage:
  sla_window: 8h
  concurrency: 6
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, DefaultTargetGroup, cfg.Triage.TargetGroup)
	assert.Equal(t, DefaultSourceTZ, cfg.Triage.SourceTZ)
	assert.Equal(t, DefaultDestTZ, cfg.Triage.DestTZ)
	assert.Equal(t, 8*time.Hour, cfg.Triage.SLAWindow)
	assert.Equal(t, 6, cfg.Triage.Concurrency)
	assert.Equal(t, DefaultLookupTimeout, cfg.Triage.LookupTimeout)
	assert.Equal(t, DefaultSinkBatchSize, cfg.Sink.BatchSize)

	// 导出库默认复用订单库
	assert.Equal(t, cfg.MySQL.DSN, cfg.Sink.DSN)

	require.Len(t, cfg.Workers, 1)
	assert.Equal(t, 10*time.Minute, cfg.Workers[0].Subscriber.TTR)
	assert.Equal(t, 8*time.Minute, cfg.Workers[0].Processor.Timeout)

	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateWorker())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TRIAGE_TRIAGE_TARGET_GROUP", "O2A-L2")
	t.Setenv("TRIAGE_SINK_DSN", "sink:pw@tcp(10.0.0.2:3306)/triage")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "O2A-L2", cfg.Triage.TargetGroup)
	assert.Equal(t, "sink:pw@tcp(10.0.0.2:3306)/triage", cfg.Sink.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	bad := *cfg
	bad.MySQL.DSN = ""
	assert.ErrorContains(t, bad.Validate(), "mysql.dsn")

	bad = *cfg
	bad.Triage.Concurrency = 0
	assert.ErrorContains(t, bad.Validate(), "triage.concurrency")

	bad = *cfg
	bad.Lmstfy.Host = ""
	assert.NoError(t, bad.Validate())
	assert.ErrorContains(t, bad.ValidateWorker(), "lmstfy.host")
}
