package stats

import (
	"context"

	"github.com/hitoshi/vcscout/internal/repository"
)

// WeeklyGoal は週次ゴールの進捗。progressはcurrent/targetを1.0で頭打ちにした値。
type WeeklyGoal struct {
	Target   int     `json:"target"`
	Current  int     `json:"current"`
	Progress float64 `json:"progress"`
}

// DashboardJobs はダッシュボードの求人応募セクション。
type DashboardJobs struct {
	TotalActive       int               `json:"total_active"`
	Applications      *ApplicationStats `json:"applications"`
	ActivityLast7Days int               `json:"activity_last_7_days"`
	WeeklyGoal        WeeklyGoal        `json:"weekly_goal"`
	CurrentStreak     int               `json:"current_streak"`
}

// DashboardDealflow はダッシュボードのディールフローセクション。
type DashboardDealflow struct {
	TotalStartups     int                `json:"total_startups"`
	Pipeline          map[string]int     `json:"pipeline"`
	ConversionRates   map[string]float64 `json:"conversion_rates"`
	NetworkGrowth     NetworkGrowth      `json:"network_growth"`
	ActivityLast7Days DealflowActivity   `json:"activity_last_7_days"`
	WeeklyGoal        WeeklyGoal         `json:"weekly_goal"`
	CurrentStreak     int                `json:"current_streak"`
}

// DashboardCombined は両パイプラインを合成した指標。
type DashboardCombined struct {
	TotalActivityLast7Days int `json:"total_activity_last_7_days"`
	OverallStreak          int `json:"overall_streak"`
}

// DashboardStats は統合ダッシュボードの統計。
type DashboardStats struct {
	Jobs     DashboardJobs     `json:"jobs"`
	Dealflow DashboardDealflow `json:"dealflow"`
	Combined DashboardCombined `json:"combined"`
}

// DashboardService は応募・ディールフローの統計と週次ゴール・ストリークを合成する。
type DashboardService struct {
	applications *ApplicationAggregator
	dealflow     *DealflowAggregator
	settings     repository.SettingsRepository
}

// NewDashboardService はDashboardServiceの新しいインスタンスを生成する。
func NewDashboardService(applications *ApplicationAggregator, dealflow *DealflowAggregator, settings repository.SettingsRepository) *DashboardService {
	return &DashboardService{
		applications: applications,
		dealflow:     dealflow,
		settings:     settings,
	}
}

// Stats は統合ダッシュボード統計を計算して返す。
// 週次ゴールの進捗はmin(current/target, 1.0)を小数第3位に丸めた値。
// 全体ストリークは両パイプラインのストリークの大きい方。
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	appStats, err := s.applications.Stats(ctx)
	if err != nil {
		return nil, err
	}

	dealStats, err := s.dealflow.Stats(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	jobStreak := settings.JobApplicationStreak
	dealStreak := settings.DealflowSourcingStreak
	overallStreak := jobStreak
	if dealStreak > overallStreak {
		overallStreak = dealStreak
	}

	return &DashboardStats{
		Jobs: DashboardJobs{
			TotalActive:       appStats.Total,
			Applications:      appStats,
			ActivityLast7Days: appStats.RecentApplications,
			WeeklyGoal:        weeklyGoal(appStats.RecentApplications, settings.WeeklyJobApplicationGoal),
			CurrentStreak:     jobStreak,
		},
		Dealflow: DashboardDealflow{
			TotalStartups:     dealStats.TotalStartupsSourced,
			Pipeline:          dealStats.PipelineBreakdown,
			ConversionRates:   dealStats.ConversionRates,
			NetworkGrowth:     dealStats.NetworkGrowth,
			ActivityLast7Days: dealStats.ActivityLast7Days,
			WeeklyGoal:        weeklyGoal(dealStats.ActivityLast7Days.NewStartups, settings.WeeklyDealflowSourcingGoal),
			CurrentStreak:     dealStreak,
		},
		Combined: DashboardCombined{
			TotalActivityLast7Days: appStats.RecentApplications + dealStats.ActivityLast7Days.NewStartups,
			OverallStreak:          overallStreak,
		},
	}, nil
}

// weeklyGoal は進捗を計算する。targetが0以下の場合progressは0。
func weeklyGoal(current, target int) WeeklyGoal {
	goal := WeeklyGoal{Target: target, Current: current}
	if target > 0 {
		progress := float64(current) / float64(target)
		if progress > 1.0 {
			progress = 1.0
		}
		goal.Progress = round3(progress)
	}
	return goal
}
