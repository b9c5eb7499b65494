package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RowsProcessed 按站点模式和 COMMENTS 分类统计的输出行数
	RowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inctriage",
		Name:      "rows_processed_total",
		Help:      "Enriched incident rows by location mode and disposition",
	}, []string{"mode", "disposition"})

	// LookupFailures OMS 查询降级次数
	LookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inctriage",
		Name:      "lookup_failures_total",
		Help:      "Order store lookups downgraded to a sentinel value",
	}, []string{"lookup"})

	// BatchDuration 单批处理耗时
	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "inctriage",
		Name:      "batch_duration_seconds",
		Help:      "Wall time of one enrichment batch",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"mode"})

	// JobsHandled 队列任务处理结果
	JobsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inctriage",
		Name:      "jobs_handled_total",
		Help:      "Queue jobs handled by action type and outcome",
	}, []string{"action_type", "outcome"})
)

// Handler /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
