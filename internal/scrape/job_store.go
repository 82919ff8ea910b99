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

// JobStore は求人候補の重複チェックと保存を行うStore実装。
type JobStore struct {
	repo      repository.JobRepository
	sanitizer security.ContentSanitizerService
}

// NewJobStore はJobStoreの新しいインスタンスを生成する。
func NewJobStore(repo repository.JobRepository, sanitizer security.ContentSanitizerService) *JobStore {
	return &JobStore{repo: repo, sanitizer: sanitizer}
}

// Exists はsource_urlに一致する既存求人の有無を返す。
func (s *JobStore) Exists(ctx context.Context, naturalKey string) (bool, error) {
	job, err := s.repo.FindBySourceURL(ctx, naturalKey)
	if err != nil {
		return false, err
	}
	return job != nil, nil
}

// Save は求人候補を新規レコードとして保存する。説明文はサニタイズしてから保存する。
func (s *JobStore) Save(ctx context.Context, c Candidate) error {
	candidate, ok := c.(*model.JobCandidate)
	if !ok {
		return fmt.Errorf("求人候補ではない型が渡されました: %T", c)
	}

	job := &model.Job{
		ID:          uuid.New().String(),
		Title:       candidate.Title,
		Company:     candidate.Company,
		Location:    candidate.Location,
		Description: s.sanitizer.Sanitize(candidate.Description),
		Source:      candidate.Source,
		SourceURL:   candidate.SourceURL,
		SourceJobID: candidate.SourceJobID,
		PostedDate:  candidate.PostedDate,
		ScrapedAt:   time.Now(),
		IsActive:    true,
		Tags:        candidate.Tags,
	}
	return s.repo.Create(ctx, job)
}

// compile-time interface check
var _ Store = (*JobStore)(nil)
