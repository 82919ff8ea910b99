// Package application は求人応募追跡のドメインロジックを提供する。
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/security"
	"github.com/hitoshi/vcscout/internal/stats"
)

// StreakRecorder は活動発生時のストリーク更新を抽象化する。
type StreakRecorder interface {
	Record(ctx context.Context, activity stats.Activity) (*model.UserSettings, error)
}

// CreateInput は応募作成の入力。
type CreateInput struct {
	JobID            string
	Status           string
	AppliedDate      *time.Time
	Notes            string
	ResumeVersion    string
	CoverLetterPath  string
	NextFollowUpDate *time.Time
}

// UpdateInput は応募の部分更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Status           *string
	AppliedDate      *time.Time
	Notes            *string
	ResumeVersion    *string
	CoverLetterPath  *string
	LastContactDate  *time.Time
	NextFollowUpDate *time.Time
	InterviewCount   *int
	InterviewNotes   *string
}

// Service は求人応募追跡のサービス層。
// 1求人につき応募は最大1件で、作成時の事前存在チェックで強制する。
type Service struct {
	repo      repository.ApplicationRepository
	jobRepo   repository.JobRepository
	sanitizer security.ContentSanitizerService
	streaks   StreakRecorder // nilの場合はストリーク更新をスキップする
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	sanitizer security.ContentSanitizerService,
	streaks StreakRecorder,
) *Service {
	return &Service{
		repo:      repo,
		jobRepo:   jobRepo,
		sanitizer: sanitizer,
		streaks:   streaks,
	}
}

// Get は指定IDの応募を参照先の求人とともに取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.ApplicationWithJob, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, model.NewApplicationNotFoundError(id)
	}

	job, err := s.jobRepo.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	return &model.ApplicationWithJob{Application: *app, Job: job}, nil
}

// List は応募一覧と総件数を返す。
func (s *Service) List(ctx context.Context, filter repository.ApplicationFilter) ([]*model.Application, int, error) {
	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Create は応募を作成する。
// 同じ求人への応募が既に存在する場合はDUPLICATE_APPLICATIONエラーを返す。
// 作成成功時は応募ストリークを更新する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(input.JobID)
	}

	existing, err := s.repo.FindByJobID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewDuplicateApplicationError(input.JobID, existing.ID)
	}

	status := model.ApplicationStatus(input.Status)
	if input.Status == "" {
		status = model.ApplicationStatusSaved
	}
	if !status.IsValid() {
		return nil, model.NewInvalidStatusError(input.Status)
	}

	now := time.Now()
	app := &model.Application{
		ID:               uuid.New().String(),
		JobID:            input.JobID,
		Status:           status,
		AppliedDate:      normalizeDate(input.AppliedDate),
		Notes:            s.sanitizer.Sanitize(input.Notes),
		ResumeVersion:    input.ResumeVersion,
		CoverLetterPath:  input.CoverLetterPath,
		NextFollowUpDate: normalizeDate(input.NextFollowUpDate),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	if s.streaks != nil {
		// ストリーク更新の失敗は作成自体を失敗させない
		if _, err := s.streaks.Record(ctx, stats.ActivityJob); err != nil {
			slog.Warn("ストリーク更新に失敗しました", "applicationID", app.ID, "error", err)
		}
	}

	return app, nil
}

// Update は応募を部分更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, model.NewApplicationNotFoundError(id)
	}

	if input.Status != nil {
		status := model.ApplicationStatus(*input.Status)
		if !status.IsValid() {
			return nil, model.NewInvalidStatusError(*input.Status)
		}
		app.Status = status
	}
	if input.AppliedDate != nil {
		app.AppliedDate = normalizeDate(input.AppliedDate)
	}
	if input.Notes != nil {
		app.Notes = s.sanitizer.Sanitize(*input.Notes)
	}
	if input.ResumeVersion != nil {
		app.ResumeVersion = *input.ResumeVersion
	}
	if input.CoverLetterPath != nil {
		app.CoverLetterPath = *input.CoverLetterPath
	}
	if input.LastContactDate != nil {
		app.LastContactDate = normalizeDate(input.LastContactDate)
	}
	if input.NextFollowUpDate != nil {
		app.NextFollowUpDate = normalizeDate(input.NextFollowUpDate)
	}
	if input.InterviewCount != nil {
		app.InterviewCount = *input.InterviewCount
	}
	if input.InterviewNotes != nil {
		app.InterviewNotes = s.sanitizer.Sanitize(*input.InterviewNotes)
	}
	app.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Delete は応募を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if app == nil {
		return model.NewApplicationNotFoundError(id)
	}
	return s.repo.Delete(ctx, id)
}

// normalizeDate は日付フィールドの時刻部を落とす。日付のみが意味を持つ。
func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &d
}
