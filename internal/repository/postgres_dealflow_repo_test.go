package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresDealflowRepoはDealflowRepositoryインターフェースを満たすことを検証
func TestPostgresDealflowRepo_ImplementsInterface(t *testing.T) {
	var _ DealflowRepository = (*PostgresDealflowRepo)(nil)
}

// NewPostgresDealflowRepoが正しく初期化されることを検証
func TestNewPostgresDealflowRepo_Initializes(t *testing.T) {
	repo := NewPostgresDealflowRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// DealflowApplicationモデルのフィールドが正しく構築されることを検証
func TestPostgresDealflowRepo_DealflowModel_Fields(t *testing.T) {
	now := time.Now()
	deal := &model.DealflowApplication{
		ID:           "deal-id-1",
		StartupID:    "startup-id-1",
		Status:       model.DealflowStatusContacted,
		EmailsSent:   3,
		MeetingsHeld: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if deal.StartupID != "startup-id-1" {
		t.Errorf("deal.StartupID = %q, want %q", deal.StartupID, "startup-id-1")
	}
	if deal.Status != model.DealflowStatusContacted {
		t.Errorf("deal.Status = %q, want %q", deal.Status, model.DealflowStatusContacted)
	}
	if deal.EmailsSent != 3 {
		t.Errorf("deal.EmailsSent = %d, want 3", deal.EmailsSent)
	}
}

// コンタクト日付フィールドがnil許容であることを検証
func TestPostgresDealflowRepo_DealflowModel_NilContactDates(t *testing.T) {
	deal := &model.DealflowApplication{
		ID:        "deal-id-2",
		StartupID: "startup-id-2",
		Status:    model.DealflowStatusSourced,
	}

	if deal.FirstContactDate != nil {
		t.Error("first_contact_date should be nil by default")
	}
	if deal.LastContactDate != nil {
		t.Error("last_contact_date should be nil by default")
	}
}
