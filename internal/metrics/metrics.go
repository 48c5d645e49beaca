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
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordSearchSuccess()
	RecordSearchFailure()
	RecordUpstreamHTTPStatus(statusCode int)
	RecordGenerationSuccess(slot string)
	RecordGenerationFailure(slot string)
	RecordGenerationLatency(duration time.Duration)
	RecordSessionCreated()
	RecordBulletinAssembled()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	searchSuccess      prometheus.Counter
	searchFail         prometheus.Counter
	upstreamStatus     *prometheus.CounterVec
	generationSuccess  *prometheus.CounterVec
	generationFail     *prometheus.CounterVec
	generationLatency  prometheus.Histogram
	sessionsCreated    prometheus.Counter
	bulletinsAssembled prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		searchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esg_bulletin_search_success_total",
			Help: "ニュース検索成功の合計数",
		}),
		searchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esg_bulletin_search_fail_total",
			Help: "ニュース検索失敗の合計数",
		}),
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "esg_bulletin_upstream_http_status_total",
			Help: "上流APIのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		generationSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "esg_bulletin_generation_success_total",
			Help: "スロット別のコンテンツ生成成功の合計数",
		}, []string{"slot"}),
		generationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "esg_bulletin_generation_fail_total",
			Help: "スロット別のコンテンツ生成失敗の合計数",
		}, []string{"slot"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "esg_bulletin_generation_latency_seconds",
			Help:    "コンテンツ生成のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esg_bulletin_sessions_created_total",
			Help: "作成されたセッションの合計数",
		}),
		bulletinsAssembled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "esg_bulletin_bulletins_assembled_total",
			Help: "組み立てられたブリテンの合計数",
		}),
	}

	reg.MustRegister(
		c.searchSuccess,
		c.searchFail,
		c.upstreamStatus,
		c.generationSuccess,
		c.generationFail,
		c.generationLatency,
		c.sessionsCreated,
		c.bulletinsAssembled,
	)

	return c
}

// RecordSearchSuccess はニュース検索成功を記録する。
func (c *Collector) RecordSearchSuccess() {
	c.searchSuccess.Inc()
}

// RecordSearchFailure はニュース検索失敗を記録する。
func (c *Collector) RecordSearchFailure() {
	c.searchFail.Inc()
}

// RecordUpstreamHTTPStatus は上流APIのHTTPステータスコードを記録する。
func (c *Collector) RecordUpstreamHTTPStatus(statusCode int) {
	c.upstreamStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordGenerationSuccess はスロットの生成成功を記録する。
func (c *Collector) RecordGenerationSuccess(slot string) {
	c.generationSuccess.WithLabelValues(slot).Inc()
}

// RecordGenerationFailure はスロットの生成失敗を記録する。
func (c *Collector) RecordGenerationFailure(slot string) {
	c.generationFail.WithLabelValues(slot).Inc()
}

// RecordGenerationLatency は生成のレイテンシを記録する。
func (c *Collector) RecordGenerationLatency(duration time.Duration) {
	c.generationLatency.Observe(duration.Seconds())
}

// RecordSessionCreated はセッション作成を記録する。
func (c *Collector) RecordSessionCreated() {
	c.sessionsCreated.Inc()
}

// RecordBulletinAssembled はブリテン組み立てを記録する。
func (c *Collector) RecordBulletinAssembled() {
	c.bulletinsAssembled.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
