package model

import "time"

// DealflowStatus はディールフローパイプラインのステージを表す（7段階）。
type DealflowStatus string

const (
	// DealflowStatusSourced はソーシング済みの状態。
	DealflowStatusSourced DealflowStatus = "sourced"
	// DealflowStatusResearching はリサーチ中の状態。
	DealflowStatusResearching DealflowStatus = "researching"
	// DealflowStatusContacted はコンタクト済みの状態。
	DealflowStatusContacted DealflowStatus = "contacted"
	// DealflowStatusMeeting はミーティング実施の状態。
	DealflowStatusMeeting DealflowStatus = "meeting"
	// DealflowStatusShared はファームへ共有済みの状態。
	DealflowStatusShared DealflowStatus = "shared"
	// DealflowStatusProgressing はディール進行中の状態。
	DealflowStatusProgressing DealflowStatus = "progressing"
	// DealflowStatusClosed はクローズ済みの状態。outcomeはこの状態でのみ意味を持つ。
	DealflowStatusClosed DealflowStatus = "closed"
)

// IsValid はステータスが定義済みの列挙値かどうかを返す。
func (s DealflowStatus) IsValid() bool {
	switch s {
	case DealflowStatusSourced, DealflowStatusResearching, DealflowStatusContacted,
		DealflowStatusMeeting, DealflowStatusShared, DealflowStatusProgressing,
		DealflowStatusClosed:
		return true
	}
	return false
}

// ContactType はディールフローのコンタクト記録種別を表す。
type ContactType string

const (
	// ContactTypeEmail はメール送信のコンタクト。
	ContactTypeEmail ContactType = "email"
	// ContactTypeMeeting はミーティング実施のコンタクト。
	ContactTypeMeeting ContactType = "meeting"
)

// IsValid はコンタクト種別が定義済みの列挙値かどうかを返す。
func (c ContactType) IsValid() bool {
	return c == ContactTypeEmail || c == ContactTypeMeeting
}

// DealflowApplication は1社のスタートアップに対するパイプライン追跡レコードを表す。
// 1つのStartupに対して最大1件（作成時の事前存在チェックで強制する）。
type DealflowApplication struct {
	ID               string
	StartupID        string
	Status           DealflowStatus
	FirstContactDate *time.Time
	LastContactDate  *time.Time
	EmailsSent       int
	MeetingsHeld     int
	Notes            string
	ResearchSummary  string
	Outcome          string // passed, invested, lost-to-competitor など（closed時のみ）
	OutcomeReason    string
	IntroMadeTo      string // 紹介先のファーム/人物
	IntroDate        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DealflowApplicationWithStartup はレコードと参照先のスタートアップを結合したモデル。
type DealflowApplicationWithStartup struct {
	DealflowApplication
	Startup *Startup
}
