package startup

import (
	"context"
	"testing"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
)

// passthroughSanitizer はテスト用のサニタイザ。入力をそのまま返す。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

// mockStartupRepo はStartupRepositoryのモック。
type mockStartupRepo struct {
	byID      map[string]*model.Startup
	byWebsite map[string]*model.Startup
	created   []*model.Startup
	updated   []*model.Startup
	deleted   []string
}

func newMockStartupRepo() *mockStartupRepo {
	return &mockStartupRepo{
		byID:      make(map[string]*model.Startup),
		byWebsite: make(map[string]*model.Startup),
	}
}

func (m *mockStartupRepo) FindByID(ctx context.Context, id string) (*model.Startup, error) {
	return m.byID[id], nil
}
func (m *mockStartupRepo) FindByWebsite(ctx context.Context, website string) (*model.Startup, error) {
	return m.byWebsite[website], nil
}
func (m *mockStartupRepo) Create(ctx context.Context, startup *model.Startup) error {
	m.created = append(m.created, startup)
	m.byID[startup.ID] = startup
	if startup.Website != "" {
		m.byWebsite[startup.Website] = startup
	}
	return nil
}
func (m *mockStartupRepo) Update(ctx context.Context, startup *model.Startup) error {
	m.updated = append(m.updated, startup)
	return nil
}
func (m *mockStartupRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}
func (m *mockStartupRepo) List(ctx context.Context, filter repository.StartupFilter) ([]*model.Startup, error) {
	return nil, nil
}
func (m *mockStartupRepo) Count(ctx context.Context, filter repository.StartupFilter) (int, error) {
	return 0, nil
}

func TestCreate_ManualStartup(t *testing.T) {
	repo := newMockStartupRepo()
	svc := NewService(repo, passthroughSanitizer{})

	startup, err := svc.Create(context.Background(), CreateInput{
		Name:         "Acme AI",
		Website:      "https://acme.ai",
		FundingStage: "seed",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if startup.Source != "manual" {
		t.Errorf("Source = %q, want manual", startup.Source)
	}
	if !startup.IsActive {
		t.Error("新規スタートアップはアクティブであるべき")
	}
	if startup.ID == "" {
		t.Error("IDが採番されていない")
	}
}

func TestCreate_MissingName(t *testing.T) {
	repo := newMockStartupRepo()
	svc := NewService(repo, passthroughSanitizer{})

	_, err := svc.Create(context.Background(), CreateInput{Website: "https://acme.ai"})
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

// website未指定の手動登録が許容されることを検証する
func TestCreate_AllowsEmptyWebsite(t *testing.T) {
	repo := newMockStartupRepo()
	svc := NewService(repo, passthroughSanitizer{})

	startup, err := svc.Create(context.Background(), CreateInput{Name: "Stealth Co"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if startup.Website != "" {
		t.Errorf("Website = %q, want empty", startup.Website)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := newMockStartupRepo()
	svc := NewService(repo, passthroughSanitizer{})

	_, err := svc.Get(context.Background(), "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeStartupNotFound {
		t.Errorf("err = %v, want STARTUP_NOT_FOUND", err)
	}
}

func TestUpdate_PartialUpdate(t *testing.T) {
	repo := newMockStartupRepo()
	repo.byID["startup-1"] = &model.Startup{
		ID:           "startup-1",
		Name:         "Acme AI",
		FundingStage: "seed",
		IsActive:     true,
	}
	svc := NewService(repo, passthroughSanitizer{})

	stage := "series-a"
	startup, err := svc.Update(context.Background(), "startup-1", UpdateInput{FundingStage: &stage})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if startup.FundingStage != "series-a" {
		t.Errorf("FundingStage = %q, want series-a", startup.FundingStage)
	}
	if startup.Name != "Acme AI" {
		t.Errorf("Name = %q, want unchanged", startup.Name)
	}
	if startup.LastUpdated.IsZero() {
		t.Error("LastUpdatedが更新されていない")
	}
}

func TestUpdate_SanitizesDescription(t *testing.T) {
	repo := newMockStartupRepo()
	repo.byID["startup-1"] = &model.Startup{ID: "startup-1", Name: "Acme AI"}
	svc := NewService(repo, passthroughSanitizer{})

	desc := "AI infrastructure for devs"
	startup, err := svc.Update(context.Background(), "startup-1", UpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if startup.Description != desc {
		t.Errorf("Description = %q, want %q", startup.Description, desc)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := newMockStartupRepo()
	svc := NewService(repo, passthroughSanitizer{})

	err := svc.Delete(context.Background(), "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeStartupNotFound {
		t.Errorf("err = %v, want STARTUP_NOT_FOUND", err)
	}
	if len(repo.deleted) != 0 {
		t.Error("存在しないIDでDeleteが呼ばれるべきではない")
	}
}

func TestDelete_Success(t *testing.T) {
	repo := newMockStartupRepo()
	repo.byID["startup-1"] = &model.Startup{ID: "startup-1", Name: "Acme AI"}
	svc := NewService(repo, passthroughSanitizer{})

	if err := svc.Delete(context.Background(), "startup-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "startup-1" {
		t.Errorf("deleted = %v, want [startup-1]", repo.deleted)
	}
}
