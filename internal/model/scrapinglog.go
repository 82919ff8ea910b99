package model

import "time"

// ScrapeStatus はスクレイプ実行の状態を表す。
// started → (completed | failed) の一方向遷移で、終端状態は一度だけ設定される。
type ScrapeStatus string

const (
	// ScrapeStatusStarted は実行開始直後の状態。
	ScrapeStatusStarted ScrapeStatus = "started"
	// ScrapeStatusCompleted は正常完了の終端状態。
	ScrapeStatusCompleted ScrapeStatus = "completed"
	// ScrapeStatusFailed は検索呼び出し失敗による終端状態。
	ScrapeStatusFailed ScrapeStatus = "failed"
)

// スクレイプパイプラインのsourceタグ。scraping_logsのsource列に記録される。
const (
	// ScrapeSourceJobs は求人スクレイプのsourceタグ。
	ScrapeSourceJobs = "exa"
	// ScrapeSourceDealflow はディールフロースクレイプのsourceタグ。
	ScrapeSourceDealflow = "exa-dealflow"
)

// ScrapingLog はスクレイプ実行1回分の監査ログを表す。
// 実行開始時にstatus=startedで作成され、同一実行の終了時に一度だけ終端化される。
// 歴史的経緯によりカウント列はスタートアップ取り込みでもjobs_*の列名を流用する。
type ScrapingLog struct {
	ID              string
	Source          string
	Status          ScrapeStatus
	JobsFound       int
	JobsNew         int
	JobsUpdated     int // このパイプラインは既存レコードを更新しないため常に0
	DuplicatesCount int // 自然キー一致でスキップした件数
	RejectedCount   int // 候補単位の取り込み失敗件数
	ErrorMessage    string
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds *float64
	ExtraData       string // 追加情報のJSON
}
