// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordTaskCreated()
	RecordTaskRenamed()
	RecordTaskDeleted()
	RecordDonationRecorded()
	RecordDonationGrantFailed()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordSessionsCleaned(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	tasksCreated        prometheus.Counter
	tasksRenamed        prometheus.Counter
	tasksDeleted        prometheus.Counter
	donationsRecorded   prometheus.Counter
	donationGrantFailed prometheus.Counter
	httpStatus          *prometheus.CounterVec
	requestLatency      prometheus.Histogram
	sessionsCleaned     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tasks_created_total",
			Help: "作成されたタスクの合計数",
		}),
		tasksRenamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tasks_renamed_total",
			Help: "名前変更されたタスクの合計数",
		}),
		tasksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_tasks_deleted_total",
			Help: "削除されたタスクの合計数",
		}),
		donationsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_donations_recorded_total",
			Help: "記録された寄付の合計数",
		}),
		donationGrantFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_donation_grant_failed_total",
			Help: "決済完了後にドナー記録に失敗した合計数（アラート対象）",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskboard_request_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskboard_sessions_cleaned_total",
			Help: "クリーンアップされた期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.tasksCreated,
		c.tasksRenamed,
		c.tasksDeleted,
		c.donationsRecorded,
		c.donationGrantFailed,
		c.httpStatus,
		c.requestLatency,
		c.sessionsCleaned,
	)

	return c
}

// RecordTaskCreated はタスク作成を記録する。
func (c *Collector) RecordTaskCreated() {
	c.tasksCreated.Inc()
}

// RecordTaskRenamed はタスク名変更を記録する。
func (c *Collector) RecordTaskRenamed() {
	c.tasksRenamed.Inc()
}

// RecordTaskDeleted はタスク削除を記録する。
func (c *Collector) RecordTaskDeleted() {
	c.tasksDeleted.Inc()
}

// RecordDonationRecorded は寄付の記録成功を記録する。
func (c *Collector) RecordDonationRecorded() {
	c.donationsRecorded.Inc()
}

// RecordDonationGrantFailed は決済完了後のドナー記録失敗を記録する。
func (c *Collector) RecordDonationGrantFailed() {
	c.donationGrantFailed.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordSessionsCleaned はクリーンアップされたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int64) {
	c.sessionsCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
