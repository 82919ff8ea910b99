// Package startup はスタートアップ管理のドメインロジックを提供する。
package startup

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/security"
)

// CreateInput はスタートアップの手動登録の入力。
type CreateInput struct {
	Name            string
	Website         string
	Description     string
	FundingStage    string
	LastFundingDate *time.Time
	FundingAmount   string
	Valuation       string
	Industry        string
	Tags            string
}

// UpdateInput はスタートアップの部分更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Name            *string
	Website         *string
	Description     *string
	FundingStage    *string
	LastFundingDate *time.Time
	FundingAmount   *string
	Valuation       *string
	Industry        *string
	IsActive        *bool
	Tags            *string
}

// Service はスタートアップ管理のサービス層。
type Service struct {
	repo      repository.StartupRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.StartupRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// Get は指定IDのスタートアップを取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Startup, error) {
	startup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if startup == nil {
		return nil, model.NewStartupNotFoundError(id)
	}
	return startup, nil
}

// List はスタートアップ一覧と総件数を返す。
func (s *Service) List(ctx context.Context, filter repository.StartupFilter) ([]*model.Startup, int, error) {
	startups, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return startups, total, nil
}

// Create はスタートアップを手動登録する。
// website未指定も許容する（手動登録のスタートアップは自然キーを持たなくてよい）。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Startup, error) {
	if input.Name == "" {
		return nil, model.NewInvalidRequestError("nameは必須です")
	}

	now := time.Now()
	startup := &model.Startup{
		ID:              uuid.New().String(),
		Name:            input.Name,
		Website:         input.Website,
		Description:     s.sanitizer.Sanitize(input.Description),
		FundingStage:    input.FundingStage,
		LastFundingDate: input.LastFundingDate,
		FundingAmount:   input.FundingAmount,
		Valuation:       input.Valuation,
		Industry:        input.Industry,
		Tags:            input.Tags,
		Source:          "manual",
		DiscoveredDate:  now,
		LastUpdated:     now,
		IsActive:        true,
	}
	if err := s.repo.Create(ctx, startup); err != nil {
		return nil, err
	}
	return startup, nil
}

// Update はスタートアップを部分更新する。last_updatedを現在時刻に進める。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.Startup, error) {
	startup, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		startup.Name = *input.Name
	}
	if input.Website != nil {
		startup.Website = *input.Website
	}
	if input.Description != nil {
		startup.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.FundingStage != nil {
		startup.FundingStage = *input.FundingStage
	}
	if input.LastFundingDate != nil {
		startup.LastFundingDate = input.LastFundingDate
	}
	if input.FundingAmount != nil {
		startup.FundingAmount = *input.FundingAmount
	}
	if input.Valuation != nil {
		startup.Valuation = *input.Valuation
	}
	if input.Industry != nil {
		startup.Industry = *input.Industry
	}
	if input.IsActive != nil {
		startup.IsActive = *input.IsActive
	}
	if input.Tags != nil {
		startup.Tags = *input.Tags
	}
	startup.LastUpdated = time.Now()

	if err := s.repo.Update(ctx, startup); err != nil {
		return nil, err
	}
	return startup, nil
}

// Delete はスタートアップを削除する。関連するディールフローレコードもCASCADEで削除される。
func (s *Service) Delete(ctx context.Context, id string) error {
	startup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if startup == nil {
		return model.NewStartupNotFoundError(id)
	}
	return s.repo.Delete(ctx, id)
}
