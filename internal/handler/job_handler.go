package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vcscout/internal/job"
	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/stats"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	// Get は指定IDの求人を取得する。
	Get(ctx context.Context, id string) (*model.Job, error)
	// List はフィルタ・ページネーション付きの求人一覧と総件数を返す。
	List(ctx context.Context, filter repository.JobFilter) ([]*model.Job, int, error)
	// Create は求人を手動登録する。
	Create(ctx context.Context, input job.CreateInput) (*model.Job, error)
	// Update は求人を部分更新する。
	Update(ctx context.Context, id string, input job.UpdateInput) (*model.Job, error)
	// Delete は求人を削除する。
	Delete(ctx context.Context, id string) error
}

// JobStatsInterface は求人在庫統計のインターフェース。
type JobStatsInterface interface {
	Stats(ctx context.Context) (*stats.JobStats, error)
}

// JobHandler は求人管理のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
	stats   JobStatsInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface, statsService JobStatsInterface) *JobHandler {
	return &JobHandler{
		service: service,
		stats:   statsService,
	}
}

// --- リクエスト・レスポンス型 ---

// jobCreateRequest は求人の手動登録リクエストのボディ。
type jobCreateRequest struct {
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	JobType        string     `json:"job_type"`
	SeniorityLevel string     `json:"seniority_level"`
	Description    string     `json:"description"`
	SalaryRange    string     `json:"salary_range"`
	SourceURL      string     `json:"source_url"`
	PostedDate     *time.Time `json:"posted_date"`
	Tags           string     `json:"tags"`
}

// jobUpdateRequest は求人の部分更新リクエストのボディ。nilフィールドは変更しない。
type jobUpdateRequest struct {
	Title          *string    `json:"title"`
	Company        *string    `json:"company"`
	Location       *string    `json:"location"`
	JobType        *string    `json:"job_type"`
	SeniorityLevel *string    `json:"seniority_level"`
	Description    *string    `json:"description"`
	SalaryRange    *string    `json:"salary_range"`
	PostedDate     *time.Time `json:"posted_date"`
	IsActive       *bool      `json:"is_active"`
	Tags           *string    `json:"tags"`
}

// jobResponse は求人のAPIレスポンス。
type jobResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	JobType        string     `json:"job_type"`
	SeniorityLevel string     `json:"seniority_level"`
	Description    string     `json:"description"`
	SalaryRange    string     `json:"salary_range"`
	Source         string     `json:"source"`
	SourceURL      string     `json:"source_url"`
	PostedDate     *time.Time `json:"posted_date"`
	ScrapedAt      time.Time  `json:"scraped_at"`
	IsActive       bool       `json:"is_active"`
	Tags           string     `json:"tags"`
}

// jobListResponse は求人一覧のレスポンス。
type jobListResponse struct {
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []jobResponse `json:"items"`
}

// toJobResponse はmodel.JobからAPIレスポンスに変換する。
func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Company:        j.Company,
		Location:       j.Location,
		JobType:        j.JobType,
		SeniorityLevel: j.SeniorityLevel,
		Description:    j.Description,
		SalaryRange:    j.SalaryRange,
		Source:         j.Source,
		SourceURL:      j.SourceURL,
		PostedDate:     j.PostedDate,
		ScrapedAt:      j.ScrapedAt,
		IsActive:       j.IsActive,
		Tags:           j.Tags,
	}
}

// ListJobs は求人一覧を取得する。
// GET /api/jobs?skip=0&limit=100&source=exa&company=Acme&is_active=true&search=analyst
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	skip, limit, apiErr := parsePagination(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := repository.JobFilter{
		Source:   r.URL.Query().Get("source"),
		Company:  r.URL.Query().Get("company"),
		Search:   r.URL.Query().Get("search"),
		IsActive: parseBoolParam(r, "is_active"),
		Skip:     skip,
		Limit:    limit,
	}

	jobs, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, toJobResponse(j))
	}

	writeJSON(w, http.StatusOK, jobListResponse{
		Total:    total,
		Page:     pageNumber(skip, limit),
		PageSize: limit,
		Items:    items,
	})
}

// GetJob は求人詳細を取得する。
// GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// CreateJob は求人を手動登録する。
// POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	j, err := h.service.Create(r.Context(), job.CreateInput{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		JobType:        req.JobType,
		SeniorityLevel: req.SeniorityLevel,
		Description:    req.Description,
		SalaryRange:    req.SalaryRange,
		SourceURL:      req.SourceURL,
		PostedDate:     req.PostedDate,
		Tags:           req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobResponse(j))
}

// UpdateJob は求人を部分更新する。
// PUT /api/jobs/{id}
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobUpdateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	j, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), job.UpdateInput{
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		JobType:        req.JobType,
		SeniorityLevel: req.SeniorityLevel,
		Description:    req.Description,
		SalaryRange:    req.SalaryRange,
		PostedDate:     req.PostedDate,
		IsActive:       req.IsActive,
		Tags:           req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// DeleteJob は求人を削除する。
// DELETE /api/jobs/{id}
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JobStats は求人在庫の統計を取得する。
// GET /api/jobs/stats
func (h *JobHandler) JobStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.stats.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
