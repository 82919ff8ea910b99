package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresDealflowRepo はPostgreSQLを使用したディールフローリポジトリ。
type PostgresDealflowRepo struct {
	db *sql.DB
}

// NewPostgresDealflowRepo はPostgresDealflowRepoを生成する。
func NewPostgresDealflowRepo(db *sql.DB) *PostgresDealflowRepo {
	return &PostgresDealflowRepo{db: db}
}

const dealflowColumns = `id, startup_id, status, first_contact_date, last_contact_date,
       emails_sent, meetings_held, notes, research_summary, outcome, outcome_reason,
       intro_made_to, intro_date, created_at, updated_at`

func scanDealflow(scan func(dest ...any) error) (*model.DealflowApplication, error) {
	app := &model.DealflowApplication{}
	var notes, researchSummary, outcome, outcomeReason, introMadeTo sql.NullString
	var firstContactDate, lastContactDate, introDate sql.NullTime
	var status string

	err := scan(
		&app.ID, &app.StartupID, &status, &firstContactDate, &lastContactDate,
		&app.EmailsSent, &app.MeetingsHeld, &notes, &researchSummary, &outcome,
		&outcomeReason, &introMadeTo, &introDate, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = model.DealflowStatus(status)
	app.Notes = nullStringValue(notes)
	app.ResearchSummary = nullStringValue(researchSummary)
	app.Outcome = nullStringValue(outcome)
	app.OutcomeReason = nullStringValue(outcomeReason)
	app.IntroMadeTo = nullStringValue(introMadeTo)
	app.FirstContactDate = nullTimeValue(firstContactDate)
	app.LastContactDate = nullTimeValue(lastContactDate)
	app.IntroDate = nullTimeValue(introDate)

	return app, nil
}

// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
func (r *PostgresDealflowRepo) FindByID(ctx context.Context, id string) (*model.DealflowApplication, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dealflowColumns+` FROM dealflow_applications WHERE id = $1`, id)

	app, err := scanDealflow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ディールフローレコードの取得に失敗しました: %w", err)
	}
	return app, nil
}

// FindByStartupID は指定スタートアップのレコードを取得する。見つからない場合はnilを返す。
func (r *PostgresDealflowRepo) FindByStartupID(ctx context.Context, startupID string) (*model.DealflowApplication, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dealflowColumns+` FROM dealflow_applications WHERE startup_id = $1 LIMIT 1`, startupID)

	app, err := scanDealflow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("startup_id によるディールフローレコードの検索に失敗しました: %w", err)
	}
	return app, nil
}

// Create はレコードを作成する。
func (r *PostgresDealflowRepo) Create(ctx context.Context, app *model.DealflowApplication) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dealflow_applications (id, startup_id, status, first_contact_date,
		                                    last_contact_date, emails_sent, meetings_held,
		                                    notes, research_summary, outcome, outcome_reason,
		                                    intro_made_to, intro_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.StartupID, string(app.Status),
		nullTime(app.FirstContactDate), nullTime(app.LastContactDate),
		app.EmailsSent, app.MeetingsHeld, nullString(app.Notes),
		nullString(app.ResearchSummary), nullString(app.Outcome), nullString(app.OutcomeReason),
		nullString(app.IntroMadeTo), nullTime(app.IntroDate), app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ディールフローレコードの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はレコードを更新する。updated_atも呼び出し側の値で上書きする。
func (r *PostgresDealflowRepo) Update(ctx context.Context, app *model.DealflowApplication) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dealflow_applications SET
		    status = $2, first_contact_date = $3, last_contact_date = $4,
		    emails_sent = $5, meetings_held = $6, notes = $7, research_summary = $8,
		    outcome = $9, outcome_reason = $10, intro_made_to = $11, intro_date = $12,
		    updated_at = $13
		 WHERE id = $1`,
		app.ID, string(app.Status),
		nullTime(app.FirstContactDate), nullTime(app.LastContactDate),
		app.EmailsSent, app.MeetingsHeld, nullString(app.Notes),
		nullString(app.ResearchSummary), nullString(app.Outcome), nullString(app.OutcomeReason),
		nullString(app.IntroMadeTo), nullTime(app.IntroDate), app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ディールフローレコードの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのレコードを削除する。
func (r *PostgresDealflowRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dealflow_applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ディールフローレコードの削除に失敗しました: %w", err)
	}
	return nil
}

func buildDealflowFilter(filter DealflowFilter) (string, []any) {
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
	if filter.StartupID != "" {
		appendCond("startup_id = $%d", filter.StartupID)
	}

	return where, args
}

// List はレコード一覧をフィルタ・ページネーション付きで返す。updated_at降順。
func (r *PostgresDealflowRepo) List(ctx context.Context, filter DealflowFilter) ([]*model.DealflowApplication, error) {
	where, args := buildDealflowFilter(filter)

	query := `SELECT ` + dealflowColumns + ` FROM dealflow_applications` + where +
		fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d",
			len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ディールフロー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var apps []*model.DealflowApplication
	for rows.Next() {
		app, err := scanDealflow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("ディールフロー行の読み取りに失敗しました: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ディールフロー一覧の走査に失敗しました: %w", err)
	}

	return apps, nil
}

// Count はフィルタ条件に一致するレコード数を返す。
func (r *PostgresDealflowRepo) Count(ctx context.Context, filter DealflowFilter) (int, error) {
	where, args := buildDealflowFilter(filter)

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM dealflow_applications`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ディールフローレコード数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountAll は全レコード数を返す。
func (r *PostgresDealflowRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM dealflow_applications`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ディールフロー総数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByStatus はステータス別のレコード数を返す。件数0のステータスは含まれない。
func (r *PostgresDealflowRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM dealflow_applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ステータス別ディールフロー数の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ステータス別ディールフロー数の読み取りに失敗しました: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ステータス別ディールフロー数の走査に失敗しました: %w", err)
	}

	return counts, nil
}

// OutcomeCounts はstatus=closedかつoutcomeが非NULLのレコードのoutcome別件数を返す。
func (r *PostgresDealflowRepo) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT outcome, count(*) FROM dealflow_applications
		 WHERE status = 'closed' AND outcome IS NOT NULL
		 GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("outcome別件数の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("outcome別件数の読み取りに失敗しました: %w", err)
		}
		counts[outcome] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outcome別件数の走査に失敗しました: %w", err)
	}

	return counts, nil
}

// CountCreatedSince はcreated_atが指定時刻以降のレコード数を返す。
func (r *PostgresDealflowRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM dealflow_applications WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("直近ディールフロー数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// SumContactsSince はlast_contact_dateが指定日以降のレコードについて
// emails_sentとmeetings_heldの合計を返す。該当行がなければ0を返す。
func (r *PostgresDealflowRepo) SumContactsSince(ctx context.Context, since time.Time) (int, int, error) {
	var emails, meetings int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(sum(emails_sent), 0), COALESCE(sum(meetings_held), 0)
		 FROM dealflow_applications
		 WHERE last_contact_date IS NOT NULL AND last_contact_date >= $1`,
		since).Scan(&emails, &meetings)
	if err != nil {
		return 0, 0, fmt.Errorf("期間内コンタクト数の集計に失敗しました: %w", err)
	}
	return emails, meetings, nil
}

// SumContactsAll は全レコードのemails_sentとmeetings_heldの合計を返す。
func (r *PostgresDealflowRepo) SumContactsAll(ctx context.Context) (int, int, error) {
	var emails, meetings int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(sum(emails_sent), 0), COALESCE(sum(meetings_held), 0)
		 FROM dealflow_applications`).Scan(&emails, &meetings)
	if err != nil {
		return 0, 0, fmt.Errorf("累計コンタクト数の集計に失敗しました: %w", err)
	}
	return emails, meetings, nil
}

// CountIntrosMade はintro_made_toが非NULLかつ非空のレコード数を返す。
func (r *PostgresDealflowRepo) CountIntrosMade(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM dealflow_applications
		 WHERE intro_made_to IS NOT NULL AND intro_made_to <> ''`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("紹介実施数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ DealflowRepository = (*PostgresDealflowRepo)(nil)
