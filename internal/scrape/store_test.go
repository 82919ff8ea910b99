package scrape

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// passthroughSanitizer はテスト用のサニタイザ。入力をそのまま返す。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

// mockJobRepo はJobRepositoryの最小モック。
type mockJobRepo struct {
	bySourceURL map[string]*model.Job
	created     []*model.Job
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{bySourceURL: make(map[string]*model.Job)}
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) { return nil, nil }
func (m *mockJobRepo) FindBySourceURL(ctx context.Context, sourceURL string) (*model.Job, error) {
	return m.bySourceURL[sourceURL], nil
}
func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	m.created = append(m.created, job)
	return nil
}
func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) Delete(ctx context.Context, id string) error      { return nil }
func (m *mockJobRepo) List(ctx context.Context, filter repository.JobFilter) ([]*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) Count(ctx context.Context, filter repository.JobFilter) (int, error) {
	return 0, nil
}
func (m *mockJobRepo) CountAll(ctx context.Context) (int, error)    { return 0, nil }
func (m *mockJobRepo) CountActive(ctx context.Context) (int, error) { return 0, nil }
func (m *mockJobRepo) CountScrapedSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}
func (m *mockJobRepo) CountBySource(ctx context.Context) (map[string]int, error) { return nil, nil }
func (m *mockJobRepo) TopCompanies(ctx context.Context, limit int) (map[string]int, error) {
	return nil, nil
}

// mockStartupRepo はStartupRepositoryの最小モック。
type mockStartupRepo struct {
	byWebsite map[string]*model.Startup
	created   []*model.Startup
}

func newMockStartupRepo() *mockStartupRepo {
	return &mockStartupRepo{byWebsite: make(map[string]*model.Startup)}
}

func (m *mockStartupRepo) FindByID(ctx context.Context, id string) (*model.Startup, error) {
	return nil, nil
}
func (m *mockStartupRepo) FindByWebsite(ctx context.Context, website string) (*model.Startup, error) {
	return m.byWebsite[website], nil
}
func (m *mockStartupRepo) Create(ctx context.Context, startup *model.Startup) error {
	m.created = append(m.created, startup)
	return nil
}
func (m *mockStartupRepo) Update(ctx context.Context, startup *model.Startup) error { return nil }
func (m *mockStartupRepo) Delete(ctx context.Context, id string) error              { return nil }
func (m *mockStartupRepo) List(ctx context.Context, filter repository.StartupFilter) ([]*model.Startup, error) {
	return nil, nil
}
func (m *mockStartupRepo) Count(ctx context.Context, filter repository.StartupFilter) (int, error) {
	return 0, nil
}

func TestJobStore_Exists(t *testing.T) {
	repo := newMockJobRepo()
	repo.bySourceURL["https://example.com/jobs/1"] = &model.Job{ID: "job-1"}
	store := NewJobStore(repo, passthroughSanitizer{})

	exists, err := store.Exists(context.Background(), "https://example.com/jobs/1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("既存source_urlに対してtrueを返すべき")
	}

	exists, err = store.Exists(context.Background(), "https://example.com/jobs/2")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("未登録source_urlに対してfalseを返すべき")
	}
}

func TestJobStore_Save(t *testing.T) {
	repo := newMockJobRepo()
	store := NewJobStore(repo, passthroughSanitizer{})

	candidate := &model.JobCandidate{
		Title:     "VC Analyst",
		Company:   "Sequoia Capital",
		Source:    model.ScrapeSourceJobs,
		SourceURL: "https://example.com/jobs/1",
	}
	if err := store.Save(context.Background(), candidate); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	job := repo.created[0]
	if job.ID == "" {
		t.Error("IDが採番されていない")
	}
	if job.SourceURL != candidate.SourceURL {
		t.Errorf("SourceURL = %q, want %q", job.SourceURL, candidate.SourceURL)
	}
	if !job.IsActive {
		t.Error("取り込んだ求人はアクティブであるべき")
	}
	if job.ScrapedAt.IsZero() {
		t.Error("ScrapedAtが設定されていない")
	}
}

// 求人候補以外の型を渡した場合はエラーになることを検証する
func TestJobStore_Save_RejectsWrongCandidateType(t *testing.T) {
	store := NewJobStore(newMockJobRepo(), passthroughSanitizer{})

	err := store.Save(context.Background(), &model.StartupCandidate{Name: "Acme AI"})
	if err == nil {
		t.Fatal("expected error for wrong candidate type")
	}
}

func TestStartupStore_Exists(t *testing.T) {
	repo := newMockStartupRepo()
	repo.byWebsite["https://acme.ai"] = &model.Startup{ID: "startup-1"}
	store := NewStartupStore(repo, passthroughSanitizer{})

	exists, err := store.Exists(context.Background(), "https://acme.ai")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("既存websiteに対してtrueを返すべき")
	}
}

func TestStartupStore_Save(t *testing.T) {
	repo := newMockStartupRepo()
	store := NewStartupStore(repo, passthroughSanitizer{})

	candidate := &model.StartupCandidate{
		Name:         "Acme AI",
		Website:      "https://acme.ai",
		FundingStage: "seed",
		Source:       model.ScrapeSourceDealflow,
	}
	if err := store.Save(context.Background(), candidate); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	startup := repo.created[0]
	if startup.Website != candidate.Website {
		t.Errorf("Website = %q, want %q", startup.Website, candidate.Website)
	}
	if startup.DiscoveredDate.IsZero() {
		t.Error("DiscoveredDateが設定されていない")
	}
	if !startup.IsActive {
		t.Error("取り込んだスタートアップはアクティブであるべき")
	}
}

func TestStartupStore_Save_RejectsWrongCandidateType(t *testing.T) {
	store := NewStartupStore(newMockStartupRepo(), passthroughSanitizer{})

	err := store.Save(context.Background(), &model.JobCandidate{Title: "Analyst"})
	if err == nil {
		t.Fatal("expected error for wrong candidate type")
	}
}
