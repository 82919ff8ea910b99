package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/security"
)

// StartupStore はスタートアップ候補の重複チェックと保存を行うStore実装。
type StartupStore struct {
	repo      repository.StartupRepository
	sanitizer security.ContentSanitizerService
}

// NewStartupStore はStartupStoreの新しいインスタンスを生成する。
func NewStartupStore(repo repository.StartupRepository, sanitizer security.ContentSanitizerService) *StartupStore {
	return &StartupStore{repo: repo, sanitizer: sanitizer}
}

// Exists はwebsiteに一致する既存スタートアップの有無を返す。
func (s *StartupStore) Exists(ctx context.Context, naturalKey string) (bool, error) {
	startup, err := s.repo.FindByWebsite(ctx, naturalKey)
	if err != nil {
		return false, err
	}
	return startup != nil, nil
}

// Save はスタートアップ候補を新規レコードとして保存する。説明文はサニタイズしてから保存する。
func (s *StartupStore) Save(ctx context.Context, c Candidate) error {
	candidate, ok := c.(*model.StartupCandidate)
	if !ok {
		return fmt.Errorf("スタートアップ候補ではない型が渡されました: %T", c)
	}

	now := time.Now()
	startup := &model.Startup{
		ID:              uuid.New().String(),
		Name:            candidate.Name,
		Website:         candidate.Website,
		Description:     s.sanitizer.Sanitize(candidate.Description),
		FundingStage:    candidate.FundingStage,
		LastFundingDate: candidate.LastFundingDate,
		FundingAmount:   candidate.FundingAmount,
		Industry:        candidate.Industry,
		Tags:            candidate.Tags,
		Source:          candidate.Source,
		SourceURL:       candidate.SourceURL,
		SourceID:        candidate.SourceID,
		DiscoveredDate:  now,
		LastUpdated:     now,
		IsActive:        true,
	}
	return s.repo.Create(ctx, startup)
}

// compile-time interface check
var _ Store = (*StartupStore)(nil)
