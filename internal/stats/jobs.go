package stats

import (
	"context"
	"time"

	"github.com/hitoshi/vcscout/internal/repository"
)

// JobStats は求人インベントリの統計。
type JobStats struct {
	TotalJobsFound int            `json:"total_jobs_found"`
	ActiveJobs     int            `json:"active_jobs"`
	JobsLast7Days  int            `json:"jobs_last_7_days"`
	JobsBySource   map[string]int `json:"jobs_by_source"`
	TopCompanies   map[string]int `json:"top_companies"`
}

// topCompaniesLimit は上位企業の件数上限。
const topCompaniesLimit = 10

// JobAggregator は求人インベントリの統計を計算する。
type JobAggregator struct {
	repo repository.JobRepository
	now  func() time.Time // テスト用に差し替え可能
}

// NewJobAggregator はJobAggregatorの新しいインスタンスを生成する。
func NewJobAggregator(repo repository.JobRepository) *JobAggregator {
	return &JobAggregator{repo: repo, now: time.Now}
}

// Stats は求人統計を計算して返す。
func (a *JobAggregator) Stats(ctx context.Context) (*JobStats, error) {
	total, err := a.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	active, err := a.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := a.repo.CountScrapedSince(ctx, a.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	bySource, err := a.repo.CountBySource(ctx)
	if err != nil {
		return nil, err
	}

	topCompanies, err := a.repo.TopCompanies(ctx, topCompaniesLimit)
	if err != nil {
		return nil, err
	}

	return &JobStats{
		TotalJobsFound: total,
		ActiveJobs:     active,
		JobsLast7Days:  recent,
		JobsBySource:   bySource,
		TopCompanies:   topCompanies,
	}, nil
}
