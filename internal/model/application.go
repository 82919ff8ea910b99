package model

import "time"

// ApplicationStatus は求人応募のステータスを表す。
type ApplicationStatus string

const (
	// ApplicationStatusSaved は保存のみで未応募の状態。
	ApplicationStatusSaved ApplicationStatus = "saved"
	// ApplicationStatusApplied は応募済みの状態。
	ApplicationStatusApplied ApplicationStatus = "applied"
	// ApplicationStatusInterviewing は面接中の状態。
	ApplicationStatusInterviewing ApplicationStatus = "interviewing"
	// ApplicationStatusRejected は不合格の状態。
	ApplicationStatusRejected ApplicationStatus = "rejected"
	// ApplicationStatusOffer はオファー受領の状態。
	ApplicationStatusOffer ApplicationStatus = "offer"
	// ApplicationStatusAccepted はオファー受諾の状態。
	ApplicationStatusAccepted ApplicationStatus = "accepted"
)

// IsValid はステータスが定義済みの列挙値かどうかを返す。
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSaved, ApplicationStatusApplied, ApplicationStatusInterviewing,
		ApplicationStatusRejected, ApplicationStatusOffer, ApplicationStatusAccepted:
		return true
	}
	return false
}

// Application は1件の求人への応募追跡レコードを表す。
// 1つのJobに対して最大1件（作成時の事前存在チェックで強制する）。
type Application struct {
	ID               string
	JobID            string
	Status           ApplicationStatus
	AppliedDate      *time.Time // 日付のみ有効（時刻部は無視する）
	Notes            string
	ResumeVersion    string
	CoverLetterPath  string
	LastContactDate  *time.Time
	NextFollowUpDate *time.Time
	InterviewCount   int
	InterviewNotes   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplicationWithJob は応募と参照先の求人を結合したモデル。
type ApplicationWithJob struct {
	Application
	Job *Job
}
