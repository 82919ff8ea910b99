package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// PostgresJobRepoはJobRepositoryインターフェースを満たすことを検証
func TestPostgresJobRepo_ImplementsInterface(t *testing.T) {
	var _ JobRepository = (*PostgresJobRepo)(nil)
}

// NewPostgresJobRepoが正しく初期化されることを検証
func TestNewPostgresJobRepo_Initializes(t *testing.T) {
	repo := NewPostgresJobRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Jobモデルのフィールドが正しく構築されることを検証
func TestPostgresJobRepo_JobModel_Fields(t *testing.T) {
	now := time.Now()
	job := &model.Job{
		ID:        "job-id-1",
		Title:     "VC Analyst",
		Company:   "Sequoia Capital",
		Source:    model.JobSourceExa,
		SourceURL: "https://example.com/jobs/1",
		ScrapedAt: now,
		IsActive:  true,
	}

	if job.ID != "job-id-1" {
		t.Errorf("job.ID = %q, want %q", job.ID, "job-id-1")
	}
	if job.SourceURL != "https://example.com/jobs/1" {
		t.Errorf("job.SourceURL = %q, want %q", job.SourceURL, "https://example.com/jobs/1")
	}
	if job.Source != model.JobSourceExa {
		t.Errorf("job.Source = %q, want %q", job.Source, model.JobSourceExa)
	}
	if !job.IsActive {
		t.Error("job.IsActive should be true")
	}
}

// Jobのposted_dateフィールドがnil許容であることを検証
func TestPostgresJobRepo_JobModel_NilPostedDate(t *testing.T) {
	job := &model.Job{
		ID:        "job-id-2",
		Title:     "Principal",
		Company:   "Benchmark",
		SourceURL: "https://example.com/jobs/2",
	}

	if job.PostedDate != nil {
		t.Error("posted_date should be nil by default")
	}
}
