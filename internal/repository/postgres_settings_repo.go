package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresSettingsRepo はPostgreSQLを使用したユーザー設定リポジトリ。
// 設定はシングルトン行として管理する。
type PostgresSettingsRepo struct {
	db *sql.DB
}

// NewPostgresSettingsRepo はPostgresSettingsRepoを生成する。
func NewPostgresSettingsRepo(db *sql.DB) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{db: db}
}

const settingsColumns = `id, weekly_job_application_goal, weekly_dealflow_sourcing_goal,
       job_application_streak, job_application_streak_date,
       dealflow_sourcing_streak, dealflow_sourcing_streak_date,
       created_at, updated_at`

func scanSettings(scan func(dest ...any) error) (*model.UserSettings, error) {
	s := &model.UserSettings{}
	var jobStreakDate, dealflowStreakDate sql.NullTime

	err := scan(
		&s.ID, &s.WeeklyJobApplicationGoal, &s.WeeklyDealflowSourcingGoal,
		&s.JobApplicationStreak, &jobStreakDate,
		&s.DealflowSourcingStreak, &dealflowStreakDate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.JobApplicationStreakDate = nullTimeValue(jobStreakDate)
	s.DealflowSourcingStreakDate = nullTimeValue(dealflowStreakDate)

	return s, nil
}

// GetOrCreate はシングルトンの設定行を取得する。存在しない場合はデフォルト値で作成する。
func (r *PostgresSettingsRepo) GetOrCreate(ctx context.Context) (*model.UserSettings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM user_settings ORDER BY created_at LIMIT 1`)

	s, err := scanSettings(row.Scan)
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("設定の取得に失敗しました: %w", err)
	}

	now := time.Now()
	s = &model.UserSettings{
		ID:                         uuid.New().String(),
		WeeklyJobApplicationGoal:   model.DefaultWeeklyJobGoal,
		WeeklyDealflowSourcingGoal: model.DefaultWeeklyDealflowGoal,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_settings (id, weekly_job_application_goal, weekly_dealflow_sourcing_goal,
		                            job_application_streak, job_application_streak_date,
		                            dealflow_sourcing_streak, dealflow_sourcing_streak_date,
		                            created_at, updated_at)
		 VALUES ($1, $2, $3, 0, NULL, 0, NULL, $4, $5)`,
		s.ID, s.WeeklyJobApplicationGoal, s.WeeklyDealflowSourcingGoal, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("設定の初期化に失敗しました: %w", err)
	}

	return s, nil
}

// UpdateGoals は週次ゴールを更新し、更新後の設定を返す。
func (r *PostgresSettingsRepo) UpdateGoals(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error) {
	s, err := r.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`UPDATE user_settings SET
		    weekly_job_application_goal = $2, weekly_dealflow_sourcing_goal = $3, updated_at = $4
		 WHERE id = $1`,
		s.ID, jobGoal, dealflowGoal, now,
	)
	if err != nil {
		return nil, fmt.Errorf("週次ゴールの更新に失敗しました: %w", err)
	}

	s.WeeklyJobApplicationGoal = jobGoal
	s.WeeklyDealflowSourcingGoal = dealflowGoal
	s.UpdatedAt = now
	return s, nil
}

// UpdateStreaks はストリークカウンターと最終更新日を永続化する。
func (r *PostgresSettingsRepo) UpdateStreaks(ctx context.Context, settings *model.UserSettings) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_settings SET
		    job_application_streak = $2, job_application_streak_date = $3,
		    dealflow_sourcing_streak = $4, dealflow_sourcing_streak_date = $5,
		    updated_at = $6
		 WHERE id = $1`,
		settings.ID,
		settings.JobApplicationStreak, nullTime(settings.JobApplicationStreakDate),
		settings.DealflowSourcingStreak, nullTime(settings.DealflowSourcingStreakDate),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("ストリークの更新に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SettingsRepository = (*PostgresSettingsRepo)(nil)
