// Package model はドメインモデルを定義する。
package model

import "time"

// JobSource は求人の取得元を表す。
const (
	// JobSourceExa はExa検索API経由で取得した求人を示す。
	JobSourceExa = "exa"
	// JobSourceManual は手動登録された求人を示す。
	JobSourceManual = "manual"
)

// Job はVC求人情報を表す。
// source_urlが自然キーであり、スクレイプ取り込み時の重複判定に使用される。
type Job struct {
	ID             string
	Title          string
	Company        string
	Location       string
	JobType        string // full-time, part-time, contract など
	SeniorityLevel string // entry, mid, senior など
	Description    string // サニタイズ済みテキスト
	SalaryRange    string
	Source         string
	SourceURL      string // 自然キー（ストレージレベルでUNIQUE）
	SourceJobID    string
	PostedDate     *time.Time
	ScrapedAt      time.Time
	IsActive       bool
	Tags           string // カンマ区切り
}
