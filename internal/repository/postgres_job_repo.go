package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresJobRepo はPostgreSQLを使用した求人リポジトリ。
type PostgresJobRepo struct {
	db *sql.DB
}

// NewPostgresJobRepo はPostgresJobRepoを生成する。
func NewPostgresJobRepo(db *sql.DB) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

// jobColumns はjobsテーブルのSELECT列リスト。Scanの順序と対応する。
const jobColumns = `id, title, company, location, job_type, seniority_level, description,
       salary_range, source, source_url, source_job_id, posted_date, scraped_at,
       is_active, tags`

// scanJob は1行を*model.Jobに読み取る。
func scanJob(scan func(dest ...any) error) (*model.Job, error) {
	job := &model.Job{}
	var location, jobType, seniority, description, salaryRange, sourceJobID, tags sql.NullString
	var postedDate sql.NullTime

	err := scan(
		&job.ID, &job.Title, &job.Company, &location, &jobType, &seniority,
		&description, &salaryRange, &job.Source, &job.SourceURL, &sourceJobID,
		&postedDate, &job.ScrapedAt, &job.IsActive, &tags,
	)
	if err != nil {
		return nil, err
	}

	job.Location = nullStringValue(location)
	job.JobType = nullStringValue(jobType)
	job.SeniorityLevel = nullStringValue(seniority)
	job.Description = nullStringValue(description)
	job.SalaryRange = nullStringValue(salaryRange)
	job.SourceJobID = nullStringValue(sourceJobID)
	job.Tags = nullStringValue(tags)
	job.PostedDate = nullTimeValue(postedDate)

	return job, nil
}

// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
func (r *PostgresJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	return job, nil
}

// FindBySourceURL は自然キー（source_url）で求人を検索する。完全一致のみ。
func (r *PostgresJobRepo) FindBySourceURL(ctx context.Context, sourceURL string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE source_url = $1`, sourceURL)

	job, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("source_url による求人の検索に失敗しました: %w", err)
	}
	return job, nil
}

// Create は求人を作成する。
func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, location, job_type, seniority_level,
		                   description, salary_range, source, source_url, source_job_id,
		                   posted_date, scraped_at, is_active, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		job.ID, job.Title, job.Company, nullString(job.Location), nullString(job.JobType),
		nullString(job.SeniorityLevel), nullString(job.Description), nullString(job.SalaryRange),
		job.Source, job.SourceURL, nullString(job.SourceJobID),
		nullTime(job.PostedDate), job.ScrapedAt, job.IsActive, nullString(job.Tags),
	)
	if err != nil {
		return fmt.Errorf("求人の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は求人情報を更新する。
func (r *PostgresJobRepo) Update(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET
		    title = $2, company = $3, location = $4, job_type = $5, seniority_level = $6,
		    description = $7, salary_range = $8, source = $9, source_url = $10,
		    source_job_id = $11, posted_date = $12, is_active = $13, tags = $14
		 WHERE id = $1`,
		job.ID, job.Title, job.Company, nullString(job.Location), nullString(job.JobType),
		nullString(job.SeniorityLevel), nullString(job.Description), nullString(job.SalaryRange),
		job.Source, job.SourceURL, nullString(job.SourceJobID),
		nullTime(job.PostedDate), job.IsActive, nullString(job.Tags),
	)
	if err != nil {
		return fmt.Errorf("求人の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの求人を削除する。関連する応募はCASCADE削除される。
func (r *PostgresJobRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("求人の削除に失敗しました: %w", err)
	}
	return nil
}

// buildJobFilter はフィルタ条件からWHERE句と引数を構築する。
func buildJobFilter(filter JobFilter) (string, []any) {
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
	if filter.Source != "" {
		appendCond("source = $%d", filter.Source)
	}
	if filter.Company != "" {
		appendCond("company ILIKE $%d", "%"+filter.Company+"%")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		if where == "" {
			where = fmt.Sprintf(" WHERE (title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex, argIndex)
		} else {
			where += fmt.Sprintf(" AND (title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex, argIndex)
		}
		args = append(args, pattern)
		argIndex++
	}

	return where, args
}

// List は求人一覧をフィルタ・ページネーション付きで返す。
// posted_date降順（NULLは末尾）、次いでscraped_at降順で並べる。
func (r *PostgresJobRepo) List(ctx context.Context, filter JobFilter) ([]*model.Job, error) {
	where, args := buildJobFilter(filter)

	query := `SELECT ` + jobColumns + ` FROM jobs` + where +
		fmt.Sprintf(" ORDER BY posted_date DESC NULLS LAST, scraped_at DESC LIMIT $%d OFFSET $%d",
			len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("求人行の読み取りに失敗しました: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("求人一覧の走査に失敗しました: %w", err)
	}

	return jobs, nil
}

// Count はフィルタ条件に一致する求人数を返す。
func (r *PostgresJobRepo) Count(ctx context.Context, filter JobFilter) (int, error) {
	where, args := buildJobFilter(filter)

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM jobs`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("求人数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountAll は全求人数を返す。
func (r *PostgresJobRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM jobs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("求人総数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountActive はis_active=trueの求人数を返す。
func (r *PostgresJobRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM jobs WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("アクティブ求人数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountScrapedSince はscraped_atが指定時刻以降の求人数を返す。
func (r *PostgresJobRepo) CountScrapedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM jobs WHERE scraped_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("直近求人数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountBySource はsource別の求人数を返す。
func (r *PostgresJobRepo) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source, count(*) FROM jobs GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("source別求人数の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("source別求人数の読み取りに失敗しました: %w", err)
		}
		counts[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source別求人数の走査に失敗しました: %w", err)
	}

	return counts, nil
}

// TopCompanies はアクティブ求人数の多い企業の上位limit件を返す。
func (r *PostgresJobRepo) TopCompanies(ctx context.Context, limit int) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT company, count(*) FROM jobs
		 WHERE is_active = true
		 GROUP BY company
		 ORDER BY count(*) DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("企業別求人数の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var company string
		var count int
		if err := rows.Scan(&company, &count); err != nil {
			return nil, fmt.Errorf("企業別求人数の読み取りに失敗しました: %w", err)
		}
		counts[company] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("企業別求人数の走査に失敗しました: %w", err)
	}

	return counts, nil
}

// compile-time interface check
var _ JobRepository = (*PostgresJobRepo)(nil)
