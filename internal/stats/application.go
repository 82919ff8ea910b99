// Package stats は応募・ディールフロー・求人の集計とダッシュボード統計を提供する。
package stats

import (
	"context"
	"math"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// round3 は小数第3位に丸める。
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// startOfDay は時刻を日付のみに正規化する。
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ApplicationStats は応募のゲーミフィケーション指標を含む統計。
type ApplicationStats struct {
	Total             int            `json:"total"`
	ByStatus          map[string]int `json:"by_status"`
	RecentApplications int           `json:"recent_applications"`
	UpcomingFollowUps int            `json:"upcoming_follow_ups"`
	ResponseRate      float64        `json:"response_rate"`
	InterviewRate     float64        `json:"interview_rate"`
	OfferRate         float64        `json:"offer_rate"`
}

// ApplicationAggregator は応募統計を計算する。
type ApplicationAggregator struct {
	repo repository.ApplicationRepository
	now  func() time.Time // テスト用に差し替え可能
}

// NewApplicationAggregator はApplicationAggregatorの新しいインスタンスを生成する。
func NewApplicationAggregator(repo repository.ApplicationRepository) *ApplicationAggregator {
	return &ApplicationAggregator{repo: repo, now: time.Now}
}

// Stats は応募統計を計算して返す。
// 直近7日はtoday-6〜today（両端含む）のトレーリングウィンドウ、
// フォローアップ予定はtoday〜today+7（両端含む）を数える。
// コンバージョン率は分母0のとき0を返し、小数第3位に丸める。
func (a *ApplicationAggregator) Stats(ctx context.Context) (*ApplicationStats, error) {
	total, err := a.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := a.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	today := startOfDay(a.now())
	recent, err := a.repo.CountAppliedBetween(ctx, today.AddDate(0, 0, -6), today)
	if err != nil {
		return nil, err
	}

	followUps, err := a.repo.CountFollowUpBetween(ctx, today, today.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	// 応募済み以降のステージに到達した件数を分母とするコンバージョン率
	appliedCount := byStatus[string(model.ApplicationStatusApplied)] +
		byStatus[string(model.ApplicationStatusInterviewing)] +
		byStatus[string(model.ApplicationStatusRejected)] +
		byStatus[string(model.ApplicationStatusOffer)] +
		byStatus[string(model.ApplicationStatusAccepted)]

	respondedCount := byStatus[string(model.ApplicationStatusInterviewing)] +
		byStatus[string(model.ApplicationStatusRejected)] +
		byStatus[string(model.ApplicationStatusOffer)] +
		byStatus[string(model.ApplicationStatusAccepted)]

	interviewCount := byStatus[string(model.ApplicationStatusInterviewing)] +
		byStatus[string(model.ApplicationStatusOffer)] +
		byStatus[string(model.ApplicationStatusAccepted)]

	offerCount := byStatus[string(model.ApplicationStatusOffer)] +
		byStatus[string(model.ApplicationStatusAccepted)]

	stats := &ApplicationStats{
		Total:              total,
		ByStatus:           byStatus,
		RecentApplications: recent,
		UpcomingFollowUps:  followUps,
	}
	if appliedCount > 0 {
		stats.ResponseRate = round3(float64(respondedCount) / float64(appliedCount))
		stats.InterviewRate = round3(float64(interviewCount) / float64(appliedCount))
		stats.OfferRate = round3(float64(offerCount) / float64(appliedCount))
	}

	return stats, nil
}
