package job

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// passthroughSanitizer はテスト用のサニタイザ。入力をそのまま返す。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

// mockJobRepo はJobRepositoryのモック。
type mockJobRepo struct {
	byID        map[string]*model.Job
	bySourceURL map[string]*model.Job
	created     []*model.Job
	updated     []*model.Job
	deleted     []string
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{
		byID:        make(map[string]*model.Job),
		bySourceURL: make(map[string]*model.Job),
	}
}

func (m *mockJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	return m.byID[id], nil
}
func (m *mockJobRepo) FindBySourceURL(ctx context.Context, sourceURL string) (*model.Job, error) {
	return m.bySourceURL[sourceURL], nil
}
func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error {
	m.created = append(m.created, job)
	m.byID[job.ID] = job
	m.bySourceURL[job.SourceURL] = job
	return nil
}
func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error {
	m.updated = append(m.updated, job)
	return nil
}
func (m *mockJobRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}
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

func TestCreate_ManualJob(t *testing.T) {
	repo := newMockJobRepo()
	svc := NewService(repo, passthroughSanitizer{})

	job, err := svc.Create(context.Background(), CreateInput{
		Title:     "Investment Analyst",
		Company:   "Acme Ventures",
		SourceURL: "https://acme.com/jobs/1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if job.Source != model.JobSourceManual {
		t.Errorf("Source = %q, want manual", job.Source)
	}
	if !job.IsActive {
		t.Error("新規求人はアクティブであるべき")
	}
}

func TestCreate_MissingTitle(t *testing.T) {
	repo := newMockJobRepo()
	svc := NewService(repo, passthroughSanitizer{})

	_, err := svc.Create(context.Background(), CreateInput{Company: "Acme"})
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestCreate_SynthesizesSourceURLWhenMissing(t *testing.T) {
	repo := newMockJobRepo()
	svc := NewService(repo, passthroughSanitizer{})

	job, err := svc.Create(context.Background(), CreateInput{Title: "Analyst", Company: "Acme"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// URL未指定でも自然キーは空にならないこと
	if !strings.HasPrefix(job.SourceURL, "manual://") {
		t.Errorf("SourceURL = %q, want manual:// prefix", job.SourceURL)
	}
}

func TestCreate_DuplicateSourceURL(t *testing.T) {
	repo := newMockJobRepo()
	repo.bySourceURL["https://acme.com/jobs/1"] = &model.Job{ID: "existing"}
	svc := NewService(repo, passthroughSanitizer{})

	_, err := svc.Create(context.Background(), CreateInput{
		Title:     "Analyst",
		Company:   "Acme",
		SourceURL: "https://acme.com/jobs/1",
	})
	if err == nil {
		t.Fatal("重複source_urlはエラーを返すべき")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := newMockJobRepo()
	svc := NewService(repo, passthroughSanitizer{})

	_, err := svc.Get(context.Background(), "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeJobNotFound {
		t.Errorf("err = %v, want JOB_NOT_FOUND", err)
	}
}

func TestUpdate_PartialUpdate(t *testing.T) {
	repo := newMockJobRepo()
	repo.byID["job-1"] = &model.Job{
		ID:       "job-1",
		Title:    "Analyst",
		Company:  "Acme",
		IsActive: true,
	}
	svc := NewService(repo, passthroughSanitizer{})

	inactive := false
	job, err := svc.Update(context.Background(), "job-1", UpdateInput{IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if job.IsActive {
		t.Error("IsActive = true, want false")
	}
	if job.Title != "Analyst" {
		t.Errorf("Title = %q, want unchanged", job.Title)
	}
}
