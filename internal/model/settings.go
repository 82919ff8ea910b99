package model

import "time"

// デフォルトの週次ゴール。
const (
	// DefaultWeeklyJobGoal は週次の求人応募ゴールのデフォルト値。
	DefaultWeeklyJobGoal = 10
	// DefaultWeeklyDealflowGoal は週次のディールフローソーシングゴールのデフォルト値。
	DefaultWeeklyDealflowGoal = 5
)

// UserSettings は週次ゴールとストリークカウンターを保持するシングルトンレコード。
// 各ストリークは「最終更新日」とペアで管理される。
type UserSettings struct {
	ID                         string
	WeeklyJobApplicationGoal   int
	WeeklyDealflowSourcingGoal int
	JobApplicationStreak       int
	JobApplicationStreakDate   *time.Time // ストリーク最終更新日（日付のみ有効）
	DealflowSourcingStreak     int
	DealflowSourcingStreakDate *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
