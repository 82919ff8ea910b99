// Package dealflow はディールフローパイプライン追跡のドメインロジックを提供する。
package dealflow

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

// CreateInput はディールフローレコード作成の入力。
type CreateInput struct {
	StartupID string
	Status    string
	Notes     string
}

// UpdateInput はレコードの部分更新の入力。nilのフィールドは変更しない。
type UpdateInput struct {
	Status          *string
	Notes           *string
	ResearchSummary *string
	Outcome         *string
	OutcomeReason   *string
	IntroMadeTo     *string
	IntroDate       *time.Time
}

// Service はディールフローパイプライン追跡のサービス層。
// 1スタートアップにつきレコードは最大1件で、作成時の事前存在チェックで強制する。
type Service struct {
	repo        repository.DealflowRepository
	startupRepo repository.StartupRepository
	sanitizer   security.ContentSanitizerService
	streaks     StreakRecorder // nilの場合はストリーク更新をスキップする
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.DealflowRepository,
	startupRepo repository.StartupRepository,
	sanitizer security.ContentSanitizerService,
	streaks StreakRecorder,
) *Service {
	return &Service{
		repo:        repo,
		startupRepo: startupRepo,
		sanitizer:   sanitizer,
		streaks:     streaks,
		now:         time.Now,
	}
}

// Get は指定IDのレコードを参照先のスタートアップとともに取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.DealflowApplicationWithStartup, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, model.NewDealflowNotFoundError(id)
	}

	startup, err := s.startupRepo.FindByID(ctx, app.StartupID)
	if err != nil {
		return nil, err
	}
	return &model.DealflowApplicationWithStartup{DealflowApplication: *app, Startup: startup}, nil
}

// List はレコード一覧と総件数を返す。
func (s *Service) List(ctx context.Context, filter repository.DealflowFilter) ([]*model.DealflowApplication, int, error) {
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

// Create はレコードを作成する。
// 同じスタートアップのレコードが既に存在する場合はDUPLICATE_DEALFLOWエラーを返す。
// 作成成功時はソーシングストリークを更新する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.DealflowApplication, error) {
	startup, err := s.startupRepo.FindByID(ctx, input.StartupID)
	if err != nil {
		return nil, err
	}
	if startup == nil {
		return nil, model.NewStartupNotFoundError(input.StartupID)
	}

	existing, err := s.repo.FindByStartupID(ctx, input.StartupID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewDuplicateDealflowError(input.StartupID, existing.ID)
	}

	status := model.DealflowStatus(input.Status)
	if input.Status == "" {
		status = model.DealflowStatusSourced
	}
	if !status.IsValid() {
		return nil, model.NewInvalidStatusError(input.Status)
	}

	now := s.now()
	app := &model.DealflowApplication{
		ID:        uuid.New().String(),
		StartupID: input.StartupID,
		Status:    status,
		Notes:     s.sanitizer.Sanitize(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	if s.streaks != nil {
		// ストリーク更新の失敗は作成自体を失敗させない
		if _, err := s.streaks.Record(ctx, stats.ActivityDealflow); err != nil {
			slog.Warn("ストリーク更新に失敗しました", "dealflowID", app.ID, "error", err)
		}
	}

	return app, nil
}

// Update はレコードを部分更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.DealflowApplication, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, model.NewDealflowNotFoundError(id)
	}

	if input.Status != nil {
		status := model.DealflowStatus(*input.Status)
		if !status.IsValid() {
			return nil, model.NewInvalidStatusError(*input.Status)
		}
		app.Status = status
	}
	if input.Notes != nil {
		app.Notes = s.sanitizer.Sanitize(*input.Notes)
	}
	if input.ResearchSummary != nil {
		app.ResearchSummary = s.sanitizer.Sanitize(*input.ResearchSummary)
	}
	if input.Outcome != nil {
		app.Outcome = *input.Outcome
	}
	if input.OutcomeReason != nil {
		app.OutcomeReason = *input.OutcomeReason
	}
	if input.IntroMadeTo != nil {
		app.IntroMadeTo = *input.IntroMadeTo
	}
	if input.IntroDate != nil {
		app.IntroDate = input.IntroDate
	}
	app.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Delete はレコードを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if app == nil {
		return model.NewDealflowNotFoundError(id)
	}
	return s.repo.Delete(ctx, id)
}

// LogContact はコンタクト記録を追加する。
// emailはemails_sentを、meetingはmeetings_heldをインクリメントし、
// last_contact_dateを今日に更新する。初回コンタクト時はfirst_contact_dateも設定する。
// ステータスは変更しない（ステージの進行は明示的な更新操作で行う）。
func (s *Service) LogContact(ctx context.Context, id string, contactType string) (*model.DealflowApplication, error) {
	ct := model.ContactType(contactType)
	if !ct.IsValid() {
		return nil, model.NewInvalidContactTypeError(contactType)
	}

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, model.NewDealflowNotFoundError(id)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch ct {
	case model.ContactTypeEmail:
		app.EmailsSent++
	case model.ContactTypeMeeting:
		app.MeetingsHeld++
	}

	if app.FirstContactDate == nil {
		app.FirstContactDate = &today
	}
	app.LastContactDate = &today
	app.UpdatedAt = now

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}
