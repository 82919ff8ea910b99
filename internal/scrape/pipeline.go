// Package scrape は外部検索APIからの取り込みパイプラインを提供する。
// 検索アダプタの結果を自然キーで重複排除しながらストアへ保存し、
// 実行ごとの監査ログをscraping_logsに記録する。
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// Candidate は取り込み候補1件を表す。
// NaturalKeyが重複判定のキーとなる（求人はsource_url、スタートアップはwebsite）。
type Candidate interface {
	NaturalKey() string
}

// SearchAdapter は外部検索APIの呼び出しと候補への変換を担う。
type SearchAdapter interface {
	// Source はこのアダプタのsourceタグを返す。scraping_logsのsource列に記録される。
	Source() string

	// Search は検索を実行し取り込み候補のリストを返す。
	// 検索呼び出しの失敗は実行全体の失敗として扱われる。
	Search(ctx context.Context, query string, numResults int) ([]Candidate, error)
}

// Store は候補の重複チェックと保存を担う。
type Store interface {
	// Exists は自然キーに一致する既存レコードの有無を返す。完全一致のみ。
	Exists(ctx context.Context, naturalKey string) (bool, error)

	// Save は候補を新規レコードとして保存する。既存レコードの更新は行わない。
	Save(ctx context.Context, c Candidate) error
}

// Summary は1回の取り込み実行の結果を表す。
type Summary struct {
	LogID      string  `json:"log_id"`
	Source     string  `json:"source"`
	Found      int     `json:"found"`
	New        int     `json:"new"`
	Duplicates int     `json:"duplicates"`
	Rejected   int     `json:"rejected"`
	Duration   float64 `json:"duration_seconds"`
}

// MetricsRecorder は取り込み実行のメトリクス記録を抽象化する。
type MetricsRecorder interface {
	// RecordScrapeRun は終端状態に達した実行を記録する。
	RecordScrapeRun(source, status string)
	// RecordCandidates は候補の内訳件数を記録する。
	RecordCandidates(found, newCount, duplicates, rejected int)
	// RecordScrapeDuration は実行時間（秒）を記録する。
	RecordScrapeDuration(seconds float64)
}

// Pipeline は検索アダプタとストアを組み合わせた取り込みパイプライン。
// 求人・スタートアップの両方をこの1つの実装で処理する。
type Pipeline struct {
	logs    repository.ScrapingLogRepository
	logger  *slog.Logger
	metrics MetricsRecorder  // nilの場合はメトリクス記録をスキップする
	now     func() time.Time // テスト用に差し替え可能
}

// NewPipeline はPipelineの新しいインスタンスを生成する。
func NewPipeline(logs repository.ScrapingLogRepository, logger *slog.Logger, metrics MetricsRecorder) *Pipeline {
	return &Pipeline{
		logs:    logs,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Run は1回の取り込みを実行する。
// 開始時にstatus=startedのログ行を作成し、終了時に一度だけ終端状態へ更新する。
// 検索呼び出しの失敗は実行全体の失敗（status=failed）となるが、
// 候補単位の保存失敗は実行を止めずrejectedとして数える。
// 既に自然キーが一致するレコードがある候補はスキップされ、更新は行わない。
func (p *Pipeline) Run(ctx context.Context, adapter SearchAdapter, store Store, query string, numResults int) (*Summary, error) {
	startedAt := p.now()
	logRow := &model.ScrapingLog{
		ID:        uuid.New().String(),
		Source:    adapter.Source(),
		Status:    model.ScrapeStatusStarted,
		StartedAt: startedAt,
	}
	if err := p.logs.Create(ctx, logRow); err != nil {
		return nil, err
	}

	candidates, err := adapter.Search(ctx, query, numResults)
	if err != nil {
		p.logger.Error("検索APIの呼び出しに失敗しました",
			slog.String("source", adapter.Source()),
			slog.String("error", err.Error()),
		)
		p.finalize(ctx, logRow, model.ScrapeStatusFailed, err.Error())
		return nil, model.NewSearchFailedError(err)
	}

	logRow.JobsFound = len(candidates)
	for _, c := range candidates {
		key := c.NaturalKey()
		if key == "" {
			logRow.RejectedCount++
			continue
		}

		exists, err := store.Exists(ctx, key)
		if err != nil {
			p.logger.Warn("重複チェックに失敗したため候補をスキップします",
				slog.String("source", adapter.Source()),
				slog.String("natural_key", key),
				slog.String("error", err.Error()),
			)
			logRow.RejectedCount++
			continue
		}
		if exists {
			logRow.DuplicatesCount++
			continue
		}

		if err := store.Save(ctx, c); err != nil {
			p.logger.Warn("候補の保存に失敗しました",
				slog.String("source", adapter.Source()),
				slog.String("natural_key", key),
				slog.String("error", err.Error()),
			)
			logRow.RejectedCount++
			continue
		}
		logRow.JobsNew++
	}

	p.finalize(ctx, logRow, model.ScrapeStatusCompleted, "")

	p.logger.Info("取り込みを完了しました",
		slog.String("source", adapter.Source()),
		slog.Int("found", logRow.JobsFound),
		slog.Int("new", logRow.JobsNew),
		slog.Int("duplicates", logRow.DuplicatesCount),
		slog.Int("rejected", logRow.RejectedCount),
	)

	var duration float64
	if logRow.DurationSeconds != nil {
		duration = *logRow.DurationSeconds
	}
	return &Summary{
		LogID:      logRow.ID,
		Source:     logRow.Source,
		Found:      logRow.JobsFound,
		New:        logRow.JobsNew,
		Duplicates: logRow.DuplicatesCount,
		Rejected:   logRow.RejectedCount,
		Duration:   duration,
	}, nil
}

// RunBatch は複数クエリの取り込みを順番に実行し、実行ごとのSummaryを返す。
// 1クエリの失敗は後続クエリの実行を止めない。
func (p *Pipeline) RunBatch(ctx context.Context, adapter SearchAdapter, store Store, queries []string, numResults int) []*Summary {
	var summaries []*Summary
	for _, q := range queries {
		summary, err := p.Run(ctx, adapter, store, q, numResults)
		if err != nil {
			p.logger.Error("バッチ内の取り込みに失敗しました",
				slog.String("source", adapter.Source()),
				slog.String("query", q),
				slog.String("error", err.Error()),
			)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// finalize はログ行を終端状態へ更新する。completed_atとduration_secondsはここで一度だけ設定される。
func (p *Pipeline) finalize(ctx context.Context, logRow *model.ScrapingLog, status model.ScrapeStatus, errorMessage string) {
	completedAt := p.now()
	duration := completedAt.Sub(logRow.StartedAt).Seconds()

	logRow.Status = status
	logRow.ErrorMessage = errorMessage
	logRow.CompletedAt = &completedAt
	logRow.DurationSeconds = &duration

	if err := p.logs.Update(ctx, logRow); err != nil {
		p.logger.Error("スクレイプログの終端化に失敗しました",
			slog.String("log_id", logRow.ID),
			slog.String("error", err.Error()),
		)
	}

	if p.metrics != nil {
		p.metrics.RecordScrapeRun(logRow.Source, string(status))
		p.metrics.RecordCandidates(logRow.JobsFound, logRow.JobsNew, logRow.DuplicatesCount, logRow.RejectedCount)
		p.metrics.RecordScrapeDuration(duration)
	}
}
