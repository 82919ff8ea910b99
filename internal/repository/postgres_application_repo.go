package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

const applicationColumns = `id, job_id, status, applied_date, notes, resume_version,
       cover_letter_path, last_contact_date, next_follow_up_date, interview_count,
       interview_notes, created_at, updated_at`

func scanApplication(scan func(dest ...any) error) (*model.Application, error) {
	app := &model.Application{}
	var notes, resumeVersion, coverLetterPath, interviewNotes sql.NullString
	var appliedDate, lastContactDate, nextFollowUpDate sql.NullTime
	var status string

	err := scan(
		&app.ID, &app.JobID, &status, &appliedDate, &notes, &resumeVersion,
		&coverLetterPath, &lastContactDate, &nextFollowUpDate, &app.InterviewCount,
		&interviewNotes, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = model.ApplicationStatus(status)
	app.Notes = nullStringValue(notes)
	app.ResumeVersion = nullStringValue(resumeVersion)
	app.CoverLetterPath = nullStringValue(coverLetterPath)
	app.InterviewNotes = nullStringValue(interviewNotes)
	app.AppliedDate = nullTimeValue(appliedDate)
	app.LastContactDate = nullTimeValue(lastContactDate)
	app.NextFollowUpDate = nullTimeValue(nextFollowUpDate)

	return app, nil
}

// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByID(ctx context.Context, id string) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("応募の取得に失敗しました: %w", err)
	}
	return app, nil
}

// FindByJobID は指定求人の応募を取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByJobID(ctx context.Context, jobID string) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 LIMIT 1`, jobID)

	app, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("job_id による応募の検索に失敗しました: %w", err)
	}
	return app, nil
}

// Create は応募を作成する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, app *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, status, applied_date, notes, resume_version,
		                           cover_letter_path, last_contact_date, next_follow_up_date,
		                           interview_count, interview_notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		app.ID, app.JobID, string(app.Status), nullTime(app.AppliedDate),
		nullString(app.Notes), nullString(app.ResumeVersion), nullString(app.CoverLetterPath),
		nullTime(app.LastContactDate), nullTime(app.NextFollowUpDate),
		app.InterviewCount, nullString(app.InterviewNotes), app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("応募の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は応募を更新する。updated_atも呼び出し側の値で上書きする。
func (r *PostgresApplicationRepo) Update(ctx context.Context, app *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE applications SET
		    status = $2, applied_date = $3, notes = $4, resume_version = $5,
		    cover_letter_path = $6, last_contact_date = $7, next_follow_up_date = $8,
		    interview_count = $9, interview_notes = $10, updated_at = $11
		 WHERE id = $1`,
		app.ID, string(app.Status), nullTime(app.AppliedDate), nullString(app.Notes),
		nullString(app.ResumeVersion), nullString(app.CoverLetterPath),
		nullTime(app.LastContactDate), nullTime(app.NextFollowUpDate),
		app.InterviewCount, nullString(app.InterviewNotes), app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("応募の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの応募を削除する。
func (r *PostgresApplicationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("応募の削除に失敗しました: %w", err)
	}
	return nil
}

func buildApplicationFilter(filter ApplicationFilter) (string, []any) {
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

	if filter.Status != "" {
		appendCond("status = $%d", string(filter.Status))
	}
	if filter.JobID != "" {
		appendCond("job_id = $%d", filter.JobID)
	}

	return where, args
}

// List は応募一覧をフィルタ・ページネーション付きで返す。updated_at降順。
func (r *PostgresApplicationRepo) List(ctx context.Context, filter ApplicationFilter) ([]*model.Application, error) {
	where, args := buildApplicationFilter(filter)

	query := `SELECT ` + applicationColumns + ` FROM applications` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d",
			len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var apps []*model.Application
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("応募行の読み取りに失敗しました: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("応募一覧の走査に失敗しました: %w", err)
	}

	return apps, nil
}

// Count はフィルタ条件に一致する応募数を返す。
func (r *PostgresApplicationRepo) Count(ctx context.Context, filter ApplicationFilter) (int, error) {
	where, args := buildApplicationFilter(filter)

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM applications`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("応募数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountAll は全応募数を返す。
func (r *PostgresApplicationRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM applications`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("応募総数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByStatus はステータス別の応募数を返す。件数0のステータスは含まれない。
func (r *PostgresApplicationRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ステータス別応募数の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ステータス別応募数の読み取りに失敗しました: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ステータス別応募数の走査に失敗しました: %w", err)
	}

	return counts, nil
}

// CountAppliedBetween はapplied_dateが[from, to]（両端含む）の応募数を返す。
func (r *PostgresApplicationRepo) CountAppliedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM applications
		 WHERE applied_date IS NOT NULL AND applied_date >= $1 AND applied_date <= $2`,
		from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("期間内応募数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountFollowUpBetween はnext_follow_up_dateが[from, to]（両端含む）の応募数を返す。
func (r *PostgresApplicationRepo) CountFollowUpBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM applications
		 WHERE next_follow_up_date IS NOT NULL AND next_follow_up_date >= $1 AND next_follow_up_date <= $2`,
		from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("フォローアップ予定数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
