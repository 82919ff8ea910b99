package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresStartupRepo はPostgreSQLを使用したスタートアップリポジトリ。
type PostgresStartupRepo struct {
	db *sql.DB
}

// NewPostgresStartupRepo はPostgresStartupRepoを生成する。
func NewPostgresStartupRepo(db *sql.DB) *PostgresStartupRepo {
	return &PostgresStartupRepo{db: db}
}

const startupColumns = `id, name, website, description, funding_stage, last_funding_date,
       funding_amount, valuation, industry, tags, source, source_url, source_id,
       discovered_date, last_updated, is_active`

func scanStartup(scan func(dest ...any) error) (*model.Startup, error) {
	s := &model.Startup{}
	var website, description, fundingStage, fundingAmount, valuation sql.NullString
	var industry, tags, source, sourceURL, sourceID sql.NullString
	var lastFundingDate sql.NullTime

	err := scan(
		&s.ID, &s.Name, &website, &description, &fundingStage, &lastFundingDate,
		&fundingAmount, &valuation, &industry, &tags, &source, &sourceURL, &sourceID,
		&s.DiscoveredDate, &s.LastUpdated, &s.IsActive,
	)
	if err != nil {
		return nil, err
	}

	s.Website = nullStringValue(website)
	s.Description = nullStringValue(description)
	s.FundingStage = nullStringValue(fundingStage)
	s.FundingAmount = nullStringValue(fundingAmount)
	s.Valuation = nullStringValue(valuation)
	s.Industry = nullStringValue(industry)
	s.Tags = nullStringValue(tags)
	s.Source = nullStringValue(source)
	s.SourceURL = nullStringValue(sourceURL)
	s.SourceID = nullStringValue(sourceID)
	s.LastFundingDate = nullTimeValue(lastFundingDate)

	return s, nil
}

// FindByID は指定IDのスタートアップを取得する。見つからない場合はnilを返す。
func (r *PostgresStartupRepo) FindByID(ctx context.Context, id string) (*model.Startup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+startupColumns+` FROM startups WHERE id = $1`, id)

	s, err := scanStartup(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("スタートアップの取得に失敗しました: %w", err)
	}
	return s, nil
}

// FindByWebsite は自然キー（website）でスタートアップを検索する。完全一致のみ。
// 同一websiteの行が複数ある場合は最初に見つかった1件を返す。
func (r *PostgresStartupRepo) FindByWebsite(ctx context.Context, website string) (*model.Startup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+startupColumns+` FROM startups WHERE website = $1 LIMIT 1`, website)

	s, err := scanStartup(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("website によるスタートアップの検索に失敗しました: %w", err)
	}
	return s, nil
}

// Create はスタートアップを作成する。
func (r *PostgresStartupRepo) Create(ctx context.Context, s *model.Startup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO startups (id, name, website, description, funding_stage, last_funding_date,
		                       funding_amount, valuation, industry, tags, source, source_url,
		                       source_id, discovered_date, last_updated, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.Name, nullString(s.Website), nullString(s.Description),
		nullString(s.FundingStage), nullTime(s.LastFundingDate),
		nullString(s.FundingAmount), nullString(s.Valuation), nullString(s.Industry),
		nullString(s.Tags), nullString(s.Source), nullString(s.SourceURL),
		nullString(s.SourceID), s.DiscoveredDate, s.LastUpdated, s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("スタートアップの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はスタートアップ情報を更新する。last_updatedも呼び出し側の値で上書きする。
func (r *PostgresStartupRepo) Update(ctx context.Context, s *model.Startup) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE startups SET
		    name = $2, website = $3, description = $4, funding_stage = $5,
		    last_funding_date = $6, funding_amount = $7, valuation = $8, industry = $9,
		    tags = $10, source = $11, source_url = $12, source_id = $13,
		    last_updated = $14, is_active = $15
		 WHERE id = $1`,
		s.ID, s.Name, nullString(s.Website), nullString(s.Description),
		nullString(s.FundingStage), nullTime(s.LastFundingDate),
		nullString(s.FundingAmount), nullString(s.Valuation), nullString(s.Industry),
		nullString(s.Tags), nullString(s.Source), nullString(s.SourceURL),
		nullString(s.SourceID), s.LastUpdated, s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("スタートアップの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのスタートアップを削除する。関連するレコードはCASCADE削除される。
func (r *PostgresStartupRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM startups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("スタートアップの削除に失敗しました: %w", err)
	}
	return nil
}

func buildStartupFilter(filter StartupFilter) (string, []any) {
	where := ""
	args := []any{}
	argIndex := 1

	appendCond := func(cond string, val any) {
		if where == "" {
			where = " WHERE " + fmt.Sprintf(cond, argIndex)
		} else {
			where += " AND " + fmt.Sprintf(cond, argIndex)
		}
		args = append(args, val)
		argIndex++
	}

	if filter.IsActive != nil {
		appendCond("is_active = $%d", *filter.IsActive)
	}
	if filter.FundingStage != "" {
		appendCond("funding_stage = $%d", filter.FundingStage)
	}
	if filter.Industry != "" {
		appendCond("industry ILIKE $%d", "%"+filter.Industry+"%")
	}
	if filter.Source != "" {
		appendCond("source = $%d", filter.Source)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		if where == "" {
			where = fmt.Sprintf(" WHERE (name ILIKE $%d OR description ILIKE $%d OR industry ILIKE $%d)", argIndex, argIndex, argIndex)
		} else {
			where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR industry ILIKE $%d)", argIndex, argIndex, argIndex)
		}
		args = append(args, pattern)
		argIndex++
	}

	return where, args
}

// List はスタートアップ一覧をフィルタ・ページネーション付きで返す。discovered_date降順。
func (r *PostgresStartupRepo) List(ctx context.Context, filter StartupFilter) ([]*model.Startup, error) {
	where, args := buildStartupFilter(filter)

	query := `SELECT ` + startupColumns + ` FROM startups` + where +
		fmt.Sprintf(" ORDER BY discovered_date DESC LIMIT $%d OFFSET $%d",
			len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("スタートアップ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var startups []*model.Startup
	for rows.Next() {
		s, err := scanStartup(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("スタートアップ行の読み取りに失敗しました: %w", err)
		}
		startups = append(startups, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スタートアップ一覧の走査に失敗しました: %w", err)
	}

	return startups, nil
}

// Count はフィルタ条件に一致するスタートアップ数を返す。
func (r *PostgresStartupRepo) Count(ctx context.Context, filter StartupFilter) (int, error) {
	where, args := buildStartupFilter(filter)

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM startups`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("スタートアップ数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ StartupRepository = (*PostgresStartupRepo)(nil)
