package stats

import (
	"context"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// mockApplicationRepo は集計系メソッドのみ値を差し替えられるApplicationRepositoryのモック。
type mockApplicationRepo struct {
	total          int
	byStatus       map[string]int
	appliedBetween int
	followUps      int
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id string) (*model.Application, error) {
	return nil, nil
}
func (m *mockApplicationRepo) FindByJobID(ctx context.Context, jobID string) (*model.Application, error) {
	return nil, nil
}
func (m *mockApplicationRepo) Create(ctx context.Context, app *model.Application) error { return nil }
func (m *mockApplicationRepo) Update(ctx context.Context, app *model.Application) error { return nil }
func (m *mockApplicationRepo) Delete(ctx context.Context, id string) error              { return nil }
func (m *mockApplicationRepo) List(ctx context.Context, filter repository.ApplicationFilter) ([]*model.Application, error) {
	return nil, nil
}
func (m *mockApplicationRepo) Count(ctx context.Context, filter repository.ApplicationFilter) (int, error) {
	return 0, nil
}
func (m *mockApplicationRepo) CountAll(ctx context.Context) (int, error) { return m.total, nil }
func (m *mockApplicationRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return m.byStatus, nil
}
func (m *mockApplicationRepo) CountAppliedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return m.appliedBetween, nil
}
func (m *mockApplicationRepo) CountFollowUpBetween(ctx context.Context, from, to time.Time) (int, error) {
	return m.followUps, nil
}

var _ repository.ApplicationRepository = (*mockApplicationRepo)(nil)

// mockDealflowRepo は集計系メソッドのみ値を差し替えられるDealflowRepositoryのモック。
type mockDealflowRepo struct {
	total         int
	byStatus      map[string]int
	outcomes      map[string]int
	createdSince  int
	emails7d      int
	meetings7d    int
	totalEmails   int
	totalMeetings int
	introsMade    int

	createdSinceArg  time.Time // CountCreatedSinceに渡されたsince
	contactsSinceArg time.Time // SumContactsSinceに渡されたsince
}

func (m *mockDealflowRepo) FindByID(ctx context.Context, id string) (*model.DealflowApplication, error) {
	return nil, nil
}
func (m *mockDealflowRepo) FindByStartupID(ctx context.Context, startupID string) (*model.DealflowApplication, error) {
	return nil, nil
}
func (m *mockDealflowRepo) Create(ctx context.Context, app *model.DealflowApplication) error {
	return nil
}
func (m *mockDealflowRepo) Update(ctx context.Context, app *model.DealflowApplication) error {
	return nil
}
func (m *mockDealflowRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockDealflowRepo) List(ctx context.Context, filter repository.DealflowFilter) ([]*model.DealflowApplication, error) {
	return nil, nil
}
func (m *mockDealflowRepo) Count(ctx context.Context, filter repository.DealflowFilter) (int, error) {
	return 0, nil
}
func (m *mockDealflowRepo) CountAll(ctx context.Context) (int, error) { return m.total, nil }
func (m *mockDealflowRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return m.byStatus, nil
}
func (m *mockDealflowRepo) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	return m.outcomes, nil
}
func (m *mockDealflowRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	m.createdSinceArg = since
	return m.createdSince, nil
}
func (m *mockDealflowRepo) SumContactsSince(ctx context.Context, since time.Time) (int, int, error) {
	m.contactsSinceArg = since
	return m.emails7d, m.meetings7d, nil
}
func (m *mockDealflowRepo) SumContactsAll(ctx context.Context) (int, int, error) {
	return m.totalEmails, m.totalMeetings, nil
}
func (m *mockDealflowRepo) CountIntrosMade(ctx context.Context) (int, error) {
	return m.introsMade, nil
}

var _ repository.DealflowRepository = (*mockDealflowRepo)(nil)

// mockSettingsRepo はSettingsRepositoryのモック。
type mockSettingsRepo struct {
	settings      *model.UserSettings
	updatedStreak *model.UserSettings
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{
		settings: &model.UserSettings{
			ID:                         "settings-1",
			WeeklyJobApplicationGoal:   model.DefaultWeeklyJobGoal,
			WeeklyDealflowSourcingGoal: model.DefaultWeeklyDealflowGoal,
		},
	}
}

func (m *mockSettingsRepo) GetOrCreate(ctx context.Context) (*model.UserSettings, error) {
	return m.settings, nil
}
func (m *mockSettingsRepo) UpdateGoals(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error) {
	m.settings.WeeklyJobApplicationGoal = jobGoal
	m.settings.WeeklyDealflowSourcingGoal = dealflowGoal
	return m.settings, nil
}
func (m *mockSettingsRepo) UpdateStreaks(ctx context.Context, settings *model.UserSettings) error {
	copied := *settings
	m.updatedStreak = &copied
	return nil
}

var _ repository.SettingsRepository = (*mockSettingsRepo)(nil)

// mockJobRepo は集計系メソッドのみ値を差し替えられるJobRepositoryのモック。
type mockJobRepo struct {
	total        int
	active       int
	scrapedSince int
	bySource     map[string]int
	topCompanies map[string]int
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) { return nil, nil }
func (m *mockJobRepo) FindBySourceURL(ctx context.Context, sourceURL string) (*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) Delete(ctx context.Context, id string) error      { return nil }
func (m *mockJobRepo) List(ctx context.Context, filter repository.JobFilter) ([]*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) Count(ctx context.Context, filter repository.JobFilter) (int, error) {
	return 0, nil
}
func (m *mockJobRepo) CountAll(ctx context.Context) (int, error)    { return m.total, nil }
func (m *mockJobRepo) CountActive(ctx context.Context) (int, error) { return m.active, nil }
func (m *mockJobRepo) CountScrapedSince(ctx context.Context, since time.Time) (int, error) {
	return m.scrapedSince, nil
}
func (m *mockJobRepo) CountBySource(ctx context.Context) (map[string]int, error) {
	return m.bySource, nil
}
func (m *mockJobRepo) TopCompanies(ctx context.Context, limit int) (map[string]int, error) {
	return m.topCompanies, nil
}

var _ repository.JobRepository = (*mockJobRepo)(nil)
