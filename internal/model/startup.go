package model

import "time"

// Startup はディールフロー追跡対象のスタートアップを表す。
// websiteが重複判定の自然キーだが、ストレージレベルのUNIQUE制約は課さない
// （手動登録でwebsite未設定のレコードを許容するため）。
type Startup struct {
	ID              string
	Name            string
	Website         string // 自然キー（UNIQUE制約なし）
	Description     string // サニタイズ済みテキスト
	FundingStage    string // pre-seed, seed, series-a など
	LastFundingDate *time.Time
	FundingAmount   string // 例: "$5M", "Undisclosed"
	Valuation       string
	Industry        string // fintech, AI, biotech など
	Tags            string
	Source          string
	SourceURL       string
	SourceID        string
	DiscoveredDate  time.Time
	LastUpdated     time.Time
	IsActive        bool
}
