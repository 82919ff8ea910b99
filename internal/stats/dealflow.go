package stats

import (
	"context"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// DealflowActivity は直近7日間のディールフロー活動量。
type DealflowActivity struct {
	NewStartups  int `json:"new_startups"`
	EmailsSent   int `json:"emails_sent"`
	MeetingsHeld int `json:"meetings_held"`
}

// NetworkGrowth は累計のネットワーク指標。
type NetworkGrowth struct {
	TotalEmailsSent   int `json:"total_emails_sent"`
	TotalMeetingsHeld int `json:"total_meetings_held"`
	IntrosMade        int `json:"intros_made"`
}

// DealflowStats はディールフローパイプラインの統計。
type DealflowStats struct {
	TotalStartupsSourced int                `json:"total_startups_sourced"`
	PipelineBreakdown    map[string]int     `json:"pipeline_breakdown"`
	ConversionRates      map[string]float64 `json:"conversion_rates"`
	Outcomes             map[string]int     `json:"outcomes"`
	ActivityLast7Days    DealflowActivity   `json:"activity_last_7_days"`
	NetworkGrowth        NetworkGrowth      `json:"network_growth"`
}

// DealflowAggregator はディールフロー統計を計算する。
type DealflowAggregator struct {
	repo repository.DealflowRepository
	now  func() time.Time // テスト用に差し替え可能
}

// NewDealflowAggregator はDealflowAggregatorの新しいインスタンスを生成する。
func NewDealflowAggregator(repo repository.DealflowRepository) *DealflowAggregator {
	return &DealflowAggregator{repo: repo, now: time.Now}
}

// Stats はディールフロー統計を計算して返す。
// ファネルの各段数は当該ステージ以降のステージの件数の合計であり、
// コンバージョン率は隣接する段数の比（分母0のとき0、小数第3位に丸め）。
// 直近7日はtoday-6〜today（両端含む）のトレーリングウィンドウを数える。
func (a *DealflowAggregator) Stats(ctx context.Context) (*DealflowStats, error) {
	total, err := a.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := a.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	outcomes, err := a.repo.OutcomeCounts(ctx)
	if err != nil {
		return nil, err
	}

	today := startOfDay(a.now())
	weekAgo := today.AddDate(0, 0, -6)

	newStartups, err := a.repo.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	emails7d, meetings7d, err := a.repo.SumContactsSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	totalEmails, totalMeetings, err := a.repo.SumContactsAll(ctx)
	if err != nil {
		return nil, err
	}

	introsMade, err := a.repo.CountIntrosMade(ctx)
	if err != nil {
		return nil, err
	}

	return &DealflowStats{
		TotalStartupsSourced: total,
		PipelineBreakdown:    breakdown,
		ConversionRates:      conversionRates(breakdown),
		Outcomes:             outcomes,
		ActivityLast7Days: DealflowActivity{
			NewStartups:  newStartups,
			EmailsSent:   emails7d,
			MeetingsHeld: meetings7d,
		},
		NetworkGrowth: NetworkGrowth{
			TotalEmailsSent:   totalEmails,
			TotalMeetingsHeld: totalMeetings,
			IntrosMade:        introsMade,
		},
	}, nil
}

// conversionRates はステータス内訳からファネルのコンバージョン率を計算する。
func conversionRates(breakdown map[string]int) map[string]float64 {
	sourcedCount := 0
	for _, count := range breakdown {
		sourcedCount += count
	}

	contactedCount := breakdown[string(model.DealflowStatusContacted)] +
		breakdown[string(model.DealflowStatusMeeting)] +
		breakdown[string(model.DealflowStatusShared)] +
		breakdown[string(model.DealflowStatusProgressing)] +
		breakdown[string(model.DealflowStatusClosed)]

	meetingCount := breakdown[string(model.DealflowStatusMeeting)] +
		breakdown[string(model.DealflowStatusShared)] +
		breakdown[string(model.DealflowStatusProgressing)] +
		breakdown[string(model.DealflowStatusClosed)]

	sharedCount := breakdown[string(model.DealflowStatusShared)] +
		breakdown[string(model.DealflowStatusProgressing)] +
		breakdown[string(model.DealflowStatusClosed)]

	rates := map[string]float64{
		"sourced_to_contacted": 0,
		"contacted_to_meeting": 0,
		"meeting_to_shared":    0,
	}
	if sourcedCount > 0 {
		rates["sourced_to_contacted"] = round3(float64(contactedCount) / float64(sourcedCount))
	}
	if contactedCount > 0 {
		rates["contacted_to_meeting"] = round3(float64(meetingCount) / float64(contactedCount))
	}
	if meetingCount > 0 {
		rates["meeting_to_shared"] = round3(float64(sharedCount) / float64(meetingCount))
	}
	return rates
}
