// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 取り込みパイプラインとHTTPレイヤーから利用する。
type Collector struct {
	scrapeRuns          *prometheus.CounterVec
	candidatesFound     prometheus.Counter
	candidatesNew       prometheus.Counter
	candidatesDuplicate prometheus.Counter
	candidatesRejected  prometheus.Counter
	scrapeDuration      prometheus.Histogram
	httpStatus          *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scrapeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vcscout_scrape_runs_total",
			Help: "スクレイプ実行のsource・終端状態別の合計数",
		}, []string{"source", "status"}),
		candidatesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcscout_scrape_candidates_found_total",
			Help: "検索APIが返した候補の合計数",
		}),
		candidatesNew: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcscout_scrape_candidates_new_total",
			Help: "新規保存された候補の合計数",
		}),
		candidatesDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcscout_scrape_candidates_duplicate_total",
			Help: "自然キー一致でスキップされた候補の合計数",
		}),
		candidatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcscout_scrape_candidates_rejected_total",
			Help: "取り込みに失敗した候補の合計数",
		}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vcscout_scrape_duration_seconds",
			Help:    "スクレイプ実行1回の所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vcscout_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.scrapeRuns,
		c.candidatesFound,
		c.candidatesNew,
		c.candidatesDuplicate,
		c.candidatesRejected,
		c.scrapeDuration,
		c.httpStatus,
	)

	return c
}

// RecordScrapeRun は終端状態に達したスクレイプ実行を記録する。
func (c *Collector) RecordScrapeRun(source, status string) {
	c.scrapeRuns.WithLabelValues(source, status).Inc()
}

// RecordCandidates は候補の内訳件数を記録する。
func (c *Collector) RecordCandidates(found, newCount, duplicates, rejected int) {
	c.candidatesFound.Add(float64(found))
	c.candidatesNew.Add(float64(newCount))
	c.candidatesDuplicate.Add(float64(duplicates))
	c.candidatesRejected.Add(float64(rejected))
}

// RecordScrapeDuration はスクレイプ実行の所要時間を記録する。
func (c *Collector) RecordScrapeDuration(seconds float64) {
	c.scrapeDuration.Observe(seconds)
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
