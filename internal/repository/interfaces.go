// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// JobFilter は求人一覧取得のフィルタ条件。
type JobFilter struct {
	Source   string
	Company  string // 部分一致（大文字小文字を区別しない）
	Search   string // title/company/descriptionの部分一致
	IsActive *bool
	Skip     int
	Limit    int
}

// StartupFilter はスタートアップ一覧取得のフィルタ条件。
type StartupFilter struct {
	FundingStage string
	Industry     string // 部分一致（大文字小文字を区別しない）
	Source       string
	Search       string // name/description/industryの部分一致
	IsActive     *bool
	Skip         int
	Limit        int
}

// ApplicationFilter は応募一覧取得のフィルタ条件。
type ApplicationFilter struct {
	Status model.ApplicationStatus
	JobID  string
	Skip   int
	Limit  int
}

// DealflowFilter はディールフロー一覧取得のフィルタ条件。
type DealflowFilter struct {
	Status    model.DealflowStatus
	StartupID string
	Skip      int
	Limit     int
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// FindBySourceURL は自然キー（source_url）で求人を検索する。
	// 完全一致のみ。見つからない場合はnilを返す。
	FindBySourceURL(ctx context.Context, sourceURL string) (*model.Job, error)

	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// Update は求人情報を更新する。
	Update(ctx context.Context, job *model.Job) error

	// Delete は指定IDの求人を削除する。関連する応募はCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// List は求人一覧をフィルタ・ページネーション付きで返す。
	// posted_date降順、次いでscraped_at降順で並べる。
	List(ctx context.Context, filter JobFilter) ([]*model.Job, error)

	// Count はフィルタ条件に一致する求人数を返す。
	Count(ctx context.Context, filter JobFilter) (int, error)

	// CountAll は全求人数を返す。
	CountAll(ctx context.Context) (int, error)

	// CountActive はis_active=trueの求人数を返す。
	CountActive(ctx context.Context) (int, error)

	// CountScrapedSince はscraped_atが指定時刻以降の求人数を返す。
	CountScrapedSince(ctx context.Context, since time.Time) (int, error)

	// CountBySource はsource別の求人数を返す。
	CountBySource(ctx context.Context) (map[string]int, error)

	// TopCompanies はアクティブ求人数の多い企業の上位limit件を返す。
	TopCompanies(ctx context.Context, limit int) (map[string]int, error)
}

// StartupRepository はスタートアップデータの永続化インターフェース。
type StartupRepository interface {
	// FindByID は指定IDのスタートアップを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Startup, error)

	// FindByWebsite は自然キー（website）でスタートアップを検索する。
	// 完全一致のみ。見つからない場合はnilを返す。
	FindByWebsite(ctx context.Context, website string) (*model.Startup, error)

	// Create はスタートアップを作成する。
	Create(ctx context.Context, startup *model.Startup) error

	// Update はスタートアップ情報を更新する。
	Update(ctx context.Context, startup *model.Startup) error

	// Delete は指定IDのスタートアップを削除する。関連するレコードはCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// List はスタートアップ一覧をフィルタ・ページネーション付きで返す。
	// discovered_date降順で並べる。
	List(ctx context.Context, filter StartupFilter) ([]*model.Startup, error)

	// Count はフィルタ条件に一致するスタートアップ数を返す。
	Count(ctx context.Context, filter StartupFilter) (int, error)
}

// ApplicationRepository は応募データの永続化と集計のインターフェース。
type ApplicationRepository interface {
	// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Application, error)

	// FindByJobID は指定求人の応募を取得する（1求人につき最大1件）。
	// 見つからない場合はnilを返す。
	FindByJobID(ctx context.Context, jobID string) (*model.Application, error)

	// Create は応募を作成する。
	Create(ctx context.Context, app *model.Application) error

	// Update は応募を更新する。
	Update(ctx context.Context, app *model.Application) error

	// Delete は指定IDの応募を削除する。
	Delete(ctx context.Context, id string) error

	// List は応募一覧をフィルタ・ページネーション付きで返す。updated_at降順。
	List(ctx context.Context, filter ApplicationFilter) ([]*model.Application, error)

	// Count はフィルタ条件に一致する応募数を返す。
	Count(ctx context.Context, filter ApplicationFilter) (int, error)

	// CountAll は全応募数を返す。
	CountAll(ctx context.Context) (int, error)

	// CountByStatus はステータス別の応募数を返す。件数0のステータスは含まれない。
	CountByStatus(ctx context.Context) (map[string]int, error)

	// CountAppliedBetween はapplied_dateが[from, to]（両端含む）の応募数を返す。
	CountAppliedBetween(ctx context.Context, from, to time.Time) (int, error)

	// CountFollowUpBetween はnext_follow_up_dateが[from, to]（両端含む）の応募数を返す。
	CountFollowUpBetween(ctx context.Context, from, to time.Time) (int, error)
}

// DealflowRepository はディールフローデータの永続化と集計のインターフェース。
type DealflowRepository interface {
	// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.DealflowApplication, error)

	// FindByStartupID は指定スタートアップのレコードを取得する（1社につき最大1件）。
	// 見つからない場合はnilを返す。
	FindByStartupID(ctx context.Context, startupID string) (*model.DealflowApplication, error)

	// Create はレコードを作成する。
	Create(ctx context.Context, app *model.DealflowApplication) error

	// Update はレコードを更新する。
	Update(ctx context.Context, app *model.DealflowApplication) error

	// Delete は指定IDのレコードを削除する。
	Delete(ctx context.Context, id string) error

	// List はレコード一覧をフィルタ・ページネーション付きで返す。updated_at降順。
	List(ctx context.Context, filter DealflowFilter) ([]*model.DealflowApplication, error)

	// Count はフィルタ条件に一致するレコード数を返す。
	Count(ctx context.Context, filter DealflowFilter) (int, error)

	// CountAll は全レコード数を返す。
	CountAll(ctx context.Context) (int, error)

	// CountByStatus はステータス別のレコード数を返す。件数0のステータスは含まれない。
	CountByStatus(ctx context.Context) (map[string]int, error)

	// OutcomeCounts はstatus=closedかつoutcomeが非NULLのレコードのoutcome別件数を返す。
	OutcomeCounts(ctx context.Context) (map[string]int, error)

	// CountCreatedSince はcreated_atが指定時刻以降のレコード数を返す。
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)

	// SumContactsSince はlast_contact_dateが指定日以降のレコードについて
	// emails_sentとmeetings_heldの合計を返す。該当行がなければ0を返す。
	SumContactsSince(ctx context.Context, since time.Time) (emails int, meetings int, err error)

	// SumContactsAll は全レコードのemails_sentとmeetings_heldの合計（累計）を返す。
	SumContactsAll(ctx context.Context) (emails int, meetings int, err error)

	// CountIntrosMade はintro_made_toが非NULLかつ非空のレコード数を返す。
	CountIntrosMade(ctx context.Context) (int, error)
}

// ScrapingLogRepository はスクレイプ実行ログの永続化インターフェース。
type ScrapingLogRepository interface {
	// Create はログ行を作成する（status=started）。
	Create(ctx context.Context, log *model.ScrapingLog) error

	// Update はログ行を終端状態へ更新する。
	// completed_atとduration_secondsは終端遷移時に一度だけ設定される。
	Update(ctx context.Context, log *model.ScrapingLog) error

	// ListRecent は直近のログをstarted_at降順で返す。
	// sourceが空文字列の場合は全sourceを対象とする。
	ListRecent(ctx context.Context, source string, limit int) ([]*model.ScrapingLog, error)
}

// SettingsRepository はユーザー設定（ゴールとストリーク）の永続化インターフェース。
type SettingsRepository interface {
	// GetOrCreate はシングルトンの設定行を取得する。存在しない場合はデフォルト値で作成する。
	GetOrCreate(ctx context.Context) (*model.UserSettings, error)

	// UpdateGoals は週次ゴールを更新する。
	UpdateGoals(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error)

	// UpdateStreaks はストリークカウンターと最終更新日を永続化する。
	UpdateStreaks(ctx context.Context, settings *model.UserSettings) error
}
