package model

import "time"

// JobCandidate は検索コラボレーターから得た求人の取り込み候補。
// 抽出ヒューリスティクスの結果であり、フィールドの欠落・誤りは許容される。
type JobCandidate struct {
	Title       string
	Company     string
	Location    string
	Description string
	Source      string
	SourceURL   string
	SourceJobID string
	PostedDate  *time.Time
	Tags        string
}

// NaturalKey は重複判定に使う自然キー（source_url）を返す。
func (c *JobCandidate) NaturalKey() string { return c.SourceURL }

// StartupCandidate は検索コラボレーターから得たスタートアップの取り込み候補。
type StartupCandidate struct {
	Name            string
	Website         string
	Description     string
	FundingStage    string
	FundingAmount   string
	Industry        string
	Source          string
	SourceURL       string
	SourceID        string
	LastFundingDate *time.Time
	Tags            string
}

// NaturalKey は重複判定に使う自然キー（website）を返す。
func (c *StartupCandidate) NaturalKey() string { return c.Website }
