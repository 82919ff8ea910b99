// Package worker はスクレイプの定期実行スケジューラを提供する。
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/vcscout/internal/exa"
	"github.com/hitoshi/vcscout/internal/scrape"
)

// BatchRunner は取り込みバッチ実行のインターフェース。
type BatchRunner interface {
	RunBatch(ctx context.Context, adapter scrape.SearchAdapter, store scrape.Store, queries []string, numResults int) []*scrape.Summary
}

// Config はスケジューラの設定。
type Config struct {
	Interval   time.Duration // 実行間隔
	BaseQuery  string        // 求人スクレイプの基本クエリ
	Sectors    []string      // セクターバリエーションの対象
	NumResults int           // 1クエリあたりの取得件数
}

// Scheduler はスクレイプサイクルを定期実行する。
// 1サイクルで求人バッチ（基本クエリ＋セクター別）とディールフローバッチ（セクター別）を順に実行する。
type Scheduler struct {
	pipeline    BatchRunner
	jobAdapter  scrape.SearchAdapter
	jobStore    scrape.Store
	dealAdapter scrape.SearchAdapter
	dealStore   scrape.Store
	logger      *slog.Logger
	config      Config
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
func NewScheduler(
	pipeline BatchRunner,
	jobAdapter scrape.SearchAdapter,
	jobStore scrape.Store,
	dealAdapter scrape.SearchAdapter,
	dealStore scrape.Store,
	logger *slog.Logger,
	config Config,
) *Scheduler {
	return &Scheduler{
		pipeline:    pipeline,
		jobAdapter:  jobAdapter,
		jobStore:    jobStore,
		dealAdapter: dealAdapter,
		dealStore:   dealStore,
		logger:      logger,
		config:      config,
	}
}

// Start は設定された間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info("スクレイプスケジューラを開始しました",
		slog.Duration("interval", s.config.Interval),
		slog.Int("sector_count", len(s.config.Sectors)),
	)

	// 起動直後に1回実行
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("スクレイプスケジューラを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce はスクレイプサイクルを1回実行する。
// バッチ内のクエリ単位の失敗はパイプラインが吸収するため、サイクル全体は常に完了する。
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()

	jobQueries := exa.BuildJobQueries(s.config.BaseQuery, s.config.Sectors)
	jobSummaries := s.pipeline.RunBatch(ctx, s.jobAdapter, s.jobStore, jobQueries, s.config.NumResults)

	dealQueries := exa.BuildDealQueries(s.config.Sectors)
	dealSummaries := s.pipeline.RunBatch(ctx, s.dealAdapter, s.dealStore, dealQueries, s.config.NumResults)

	var found, created int
	for _, summary := range append(jobSummaries, dealSummaries...) {
		found += summary.Found
		created += summary.New
	}

	s.logger.Info("スクレイプサイクルを完了しました",
		slog.Int("job_runs", len(jobSummaries)),
		slog.Int("dealflow_runs", len(dealSummaries)),
		slog.Int("found", found),
		slog.Int("new", created),
		slog.Duration("elapsed", time.Since(start)),
	)
}
