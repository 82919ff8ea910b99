// Package job は求人管理のドメインロジックを提供する。
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/security"
)

// CreateInput は求人の手動登録の入力。
type CreateInput struct {
	Title          string
	Company        string
	Location       string
	JobType        string
	SeniorityLevel string
	Description    string
	SalaryRange    string
	SourceURL      string
	PostedDate     *time.Time
	Tags           string
}

// UpdateInput は求人の部分更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Title          *string
	Company        *string
	Location       *string
	JobType        *string
	SeniorityLevel *string
	Description    *string
	SalaryRange    *string
	PostedDate     *time.Time
	IsActive       *bool
	Tags           *string
}

// Service は求人管理のサービス層。
type Service struct {
	repo      repository.JobRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.JobRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// Get は指定IDの求人を取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(id)
	}
	return job, nil
}

// List は求人一覧と総件数を返す。
func (s *Service) List(ctx context.Context, filter repository.JobFilter) ([]*model.Job, int, error) {
	jobs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Create は求人を手動登録する。source=manualとなる。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Job, error) {
	if input.Title == "" {
		return nil, model.NewInvalidRequestError("titleは必須です")
	}
	if input.Company == "" {
		return nil, model.NewInvalidRequestError("companyは必須です")
	}

	sourceURL := input.SourceURL
	if sourceURL == "" {
		// 手動登録でURL未指定の場合も自然キーが空にならないよう合成する
		sourceURL = fmt.Sprintf("manual://%s", uuid.New().String())
	}

	// 自然キーの重複チェック
	existing, err := s.repo.FindBySourceURL(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewInvalidRequestError("同じsource_urlの求人が既に存在します")
	}

	job := &model.Job{
		ID:             uuid.New().String(),
		Title:          input.Title,
		Company:        input.Company,
		Location:       input.Location,
		JobType:        input.JobType,
		SeniorityLevel: input.SeniorityLevel,
		Description:    s.sanitizer.Sanitize(input.Description),
		SalaryRange:    input.SalaryRange,
		Source:         model.JobSourceManual,
		SourceURL:      sourceURL,
		PostedDate:     input.PostedDate,
		ScrapedAt:      time.Now(),
		IsActive:       true,
		Tags:           input.Tags,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Update は求人を部分更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Company != nil {
		job.Company = *input.Company
	}
	if input.Location != nil {
		job.Location = *input.Location
	}
	if input.JobType != nil {
		job.JobType = *input.JobType
	}
	if input.SeniorityLevel != nil {
		job.SeniorityLevel = *input.SeniorityLevel
	}
	if input.Description != nil {
		job.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.SalaryRange != nil {
		job.SalaryRange = *input.SalaryRange
	}
	if input.PostedDate != nil {
		job.PostedDate = input.PostedDate
	}
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}
	if input.Tags != nil {
		job.Tags = *input.Tags
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete は求人を削除する。関連する応募もCASCADEで削除される。
func (s *Service) Delete(ctx context.Context, id string) error {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return model.NewJobNotFoundError(id)
	}
	return s.repo.Delete(ctx, id)
}
