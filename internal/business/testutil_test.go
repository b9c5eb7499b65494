package business

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"o2a/inctriage/common/entity"
	"o2a/inctriage/internal/business/triage"
	"o2a/inctriage/pkg/infra/redis"
	"o2a/inctriage/pkg/logger"
)

// memStore 内存版 OMS
type memStore struct {
	statuses map[string]string
	stuck    map[string][2]string
	maxDates map[string]time.Time
}

func (s *memStore) StatusOf(ctx context.Context, id string) (string, bool, error) {
	v, ok := s.statuses[id]
	return v, ok, nil
}

func (s *memStore) StuckCaseOf(ctx context.Context, id string) (string, string, bool, error) {
	v, ok := s.stuck[id]
	return v[0], v[1], ok, nil
}

func (s *memStore) MaxActionDateOf(ctx context.Context, id string) (time.Time, bool, error) {
	v, ok := s.maxDates[id]
	return v, ok, nil
}

func newMemStore() *memStore {
	at, _ := triage.Parse("01-Jan-2024 00:00:00")
	return &memStore{
		statuses: map[string]string{"789": "DO", "555": "IP"},
		stuck:    map[string][2]string{"789": {"CASE1", "TELEFONICA IT"}},
		maxDates: map[string]time.Time{"789": at, "555": at},
	}
}

// memSink 记录导出调用
type memSink struct {
	mu        sync.Mutex
	existing  []string
	ensureErr error
	exportErr error
	rows      []entity.IncidentTriage
	batch     *entity.TriageBatch
	exports   int
}

func (s *memSink) EnsureTables(ctx context.Context) error { return s.ensureErr }

func (s *memSink) ExistingIncidentIDs(ctx context.Context, ids []string) ([]string, error) {
	return s.existing, nil
}

func (s *memSink) Export(ctx context.Context, rows []entity.IncidentTriage, batch *entity.TriageBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports++
	if s.exportErr != nil {
		return s.exportErr
	}
	s.rows, s.batch = rows, batch
	return nil
}

// memNotifier 记录通知
type memNotifier struct {
	mu   sync.Mutex
	err  error
	sent []*redis.BatchNotification
}

func (n *memNotifier) PublishBatchComplete(ctx context.Context, channel string, notification *redis.BatchNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return n.err
}

var errSinkDown = errors.New("sink down")

func newTestService(t *testing.T, opts ...TriageServiceOption) (*TriageService, string) {
	t.Helper()
	normalizer, err := triage.NewNormalizer("Asia/Kolkata", "America/Lima")
	require.NoError(t, err)

	log := logger.NewNop()
	pipeline := triage.NewPipeline(triage.PipelineConfig{TargetGroup: "O2A", Concurrency: 2},
		triage.NewResolver(newMemStore(), time.Second, log), normalizer, log)

	dir := t.TempDir()
	return NewTriageService(pipeline, dir, log, opts...), dir
}

// writeWorkbook 生成上传文件
func writeWorkbook(t *testing.T, header []string, rows ...[]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incidents.xlsx")

	f := excelize.NewFile()
	defer f.Close()

	h := make([]interface{}, len(header))
	for i, v := range header {
		h[i] = v
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &h))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

var remedyHeader = []string{"Incident ID", "Summary", "Assigned Group", "Reported Date"}

func threeRowWorkbook(t *testing.T) string {
	return writeWorkbook(t, remedyHeader,
		[]interface{}{"INC1", "Ref Orden789 stuck", "O2A", "01-Jan-2024 20:00:00"},
		[]interface{}{"INC2", "OrderID:555A", "TEF", "01-Jan-2024 20:00:00"},
		[]interface{}{"INC3", "OrderID:555A", "NOC", "01-Jan-2024 20:00:00"},
	)
}
