package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresScrapingLogRepo はPostgreSQLを使用したスクレイプ実行ログリポジトリ。
type PostgresScrapingLogRepo struct {
	db *sql.DB
}

// NewPostgresScrapingLogRepo はPostgresScrapingLogRepoを生成する。
func NewPostgresScrapingLogRepo(db *sql.DB) *PostgresScrapingLogRepo {
	return &PostgresScrapingLogRepo{db: db}
}

const scrapingLogColumns = `id, source, status, jobs_found, jobs_new, jobs_updated,
       duplicates_count, rejected_count, error_message, started_at, completed_at,
       duration_seconds, extra_data`

func scanScrapingLog(scan func(dest ...any) error) (*model.ScrapingLog, error) {
	log := &model.ScrapingLog{}
	var errorMessage, extraData sql.NullString
	var completedAt sql.NullTime
	var durationSeconds sql.NullFloat64
	var status string

	err := scan(
		&log.ID, &log.Source, &status, &log.JobsFound, &log.JobsNew, &log.JobsUpdated,
		&log.DuplicatesCount, &log.RejectedCount, &errorMessage, &log.StartedAt,
		&completedAt, &durationSeconds, &extraData,
	)
	if err != nil {
		return nil, err
	}

	log.Status = model.ScrapeStatus(status)
	log.ErrorMessage = nullStringValue(errorMessage)
	log.ExtraData = nullStringValue(extraData)
	log.CompletedAt = nullTimeValue(completedAt)
	log.DurationSeconds = nullFloatValue(durationSeconds)

	return log, nil
}

// Create はログ行を作成する（status=started）。
func (r *PostgresScrapingLogRepo) Create(ctx context.Context, log *model.ScrapingLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scraping_logs (id, source, status, jobs_found, jobs_new, jobs_updated,
		                            duplicates_count, rejected_count, error_message,
		                            started_at, completed_at, duration_seconds, extra_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		log.ID, log.Source, string(log.Status), log.JobsFound, log.JobsNew, log.JobsUpdated,
		log.DuplicatesCount, log.RejectedCount, nullString(log.ErrorMessage),
		log.StartedAt, nullTime(log.CompletedAt), nullFloat(log.DurationSeconds),
		nullString(log.ExtraData),
	)
	if err != nil {
		return fmt.Errorf("スクレイプログの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はログ行を終端状態へ更新する。
func (r *PostgresScrapingLogRepo) Update(ctx context.Context, log *model.ScrapingLog) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scraping_logs SET
		    status = $2, jobs_found = $3, jobs_new = $4, jobs_updated = $5,
		    duplicates_count = $6, rejected_count = $7, error_message = $8,
		    completed_at = $9, duration_seconds = $10, extra_data = $11
		 WHERE id = $1`,
		log.ID, string(log.Status), log.JobsFound, log.JobsNew, log.JobsUpdated,
		log.DuplicatesCount, log.RejectedCount, nullString(log.ErrorMessage),
		nullTime(log.CompletedAt), nullFloat(log.DurationSeconds), nullString(log.ExtraData),
	)
	if err != nil {
		return fmt.Errorf("スクレイプログの更新に失敗しました: %w", err)
	}
	return nil
}

// ListRecent は直近のログをstarted_at降順で返す。sourceが空文字列の場合は全sourceを対象とする。
func (r *PostgresScrapingLogRepo) ListRecent(ctx context.Context, source string, limit int) ([]*model.ScrapingLog, error) {
	var rows *sql.Rows
	var err error
	if source == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+scrapingLogColumns+` FROM scraping_logs
			 ORDER BY started_at DESC LIMIT $1`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+scrapingLogColumns+` FROM scraping_logs
			 WHERE source = $1 ORDER BY started_at DESC LIMIT $2`, source, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("スクレイプログ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var logs []*model.ScrapingLog
	for rows.Next() {
		log, err := scanScrapingLog(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("スクレイプログ行の読み取りに失敗しました: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スクレイプログ一覧の走査に失敗しました: %w", err)
	}

	return logs, nil
}

// compile-time interface check
var _ ScrapingLogRepository = (*PostgresScrapingLogRepo)(nil)
