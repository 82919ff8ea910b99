package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vcscout/internal/application"
	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/stats"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	Get(ctx context.Context, id string) (*model.ApplicationWithJob, error)
	List(ctx context.Context, filter repository.ApplicationFilter) ([]*model.Application, int, error)
	Create(ctx context.Context, input application.CreateInput) (*model.Application, error)
	Update(ctx context.Context, id string, input application.UpdateInput) (*model.Application, error)
	Delete(ctx context.Context, id string) error
}

// ApplicationStatsInterface は応募ファネル統計のインターフェース。
type ApplicationStatsInterface interface {
	Stats(ctx context.Context) (*stats.ApplicationStats, error)
}

// ApplicationHandler は求人応募管理のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
	stats   ApplicationStatsInterface
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface, statsService ApplicationStatsInterface) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		stats:   statsService,
	}
}

// --- リクエスト・レスポンス型 ---

// applicationCreateRequest は応募作成リクエストのボディ。
type applicationCreateRequest struct {
	JobID            string     `json:"job_id"`
	Status           string     `json:"status"`
	AppliedDate      *time.Time `json:"applied_date"`
	Notes            string     `json:"notes"`
	ResumeVersion    string     `json:"resume_version"`
	CoverLetterPath  string     `json:"cover_letter_path"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date"`
}

// applicationUpdateRequest は応募の部分更新リクエストのボディ。nilフィールドは変更しない。
type applicationUpdateRequest struct {
	Status           *string    `json:"status"`
	AppliedDate      *time.Time `json:"applied_date"`
	Notes            *string    `json:"notes"`
	ResumeVersion    *string    `json:"resume_version"`
	CoverLetterPath  *string    `json:"cover_letter_path"`
	LastContactDate  *time.Time `json:"last_contact_date"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date"`
	InterviewCount   *int       `json:"interview_count"`
	InterviewNotes   *string    `json:"interview_notes"`
}

// applicationResponse は応募のAPIレスポンス。
type applicationResponse struct {
	ID               string       `json:"id"`
	JobID            string       `json:"job_id"`
	Status           string       `json:"status"`
	AppliedDate      *time.Time   `json:"applied_date"`
	Notes            string       `json:"notes"`
	ResumeVersion    string       `json:"resume_version"`
	CoverLetterPath  string       `json:"cover_letter_path"`
	LastContactDate  *time.Time   `json:"last_contact_date"`
	NextFollowUpDate *time.Time   `json:"next_follow_up_date"`
	InterviewCount   int          `json:"interview_count"`
	InterviewNotes   string       `json:"interview_notes"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	Job              *jobResponse `json:"job,omitempty"`
}

// applicationListResponse は応募一覧のレスポンス。
type applicationListResponse struct {
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []applicationResponse `json:"items"`
}

// toApplicationResponse はmodel.ApplicationからAPIレスポンスに変換する。
func toApplicationResponse(a *model.Application) applicationResponse {
	return applicationResponse{
		ID:               a.ID,
		JobID:            a.JobID,
		Status:           string(a.Status),
		AppliedDate:      a.AppliedDate,
		Notes:            a.Notes,
		ResumeVersion:    a.ResumeVersion,
		CoverLetterPath:  a.CoverLetterPath,
		LastContactDate:  a.LastContactDate,
		NextFollowUpDate: a.NextFollowUpDate,
		InterviewCount:   a.InterviewCount,
		InterviewNotes:   a.InterviewNotes,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// ListApplications は応募一覧を取得する。
// GET /api/applications?skip=0&limit=100&status=applied&job_id=xxx
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	skip, limit, apiErr := parsePagination(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := repository.ApplicationFilter{
		Status: model.ApplicationStatus(r.URL.Query().Get("status")),
		JobID:  r.URL.Query().Get("job_id"),
		Skip:   skip,
		Limit:  limit,
	}

	apps, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		items = append(items, toApplicationResponse(a))
	}

	writeJSON(w, http.StatusOK, applicationListResponse{
		Total:    total,
		Page:     pageNumber(skip, limit),
		PageSize: limit,
		Items:    items,
	})
}

// GetApplication は応募詳細を参照先の求人とともに取得する。
// GET /api/applications/{id}
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := toApplicationResponse(&result.Application)
	if result.Job != nil {
		j := toJobResponse(result.Job)
		resp.Job = &j
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateApplication は応募を作成する。
// POST /api/applications
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationCreateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.Create(r.Context(), application.CreateInput{
		JobID:            req.JobID,
		Status:           req.Status,
		AppliedDate:      req.AppliedDate,
		Notes:            req.Notes,
		ResumeVersion:    req.ResumeVersion,
		CoverLetterPath:  req.CoverLetterPath,
		NextFollowUpDate: req.NextFollowUpDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicationResponse(a))
}

// UpdateApplication は応募を部分更新する。
// PUT /api/applications/{id}
func (h *ApplicationHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationUpdateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), application.UpdateInput{
		Status:           req.Status,
		AppliedDate:      req.AppliedDate,
		Notes:            req.Notes,
		ResumeVersion:    req.ResumeVersion,
		CoverLetterPath:  req.CoverLetterPath,
		LastContactDate:  req.LastContactDate,
		NextFollowUpDate: req.NextFollowUpDate,
		InterviewCount:   req.InterviewCount,
		InterviewNotes:   req.InterviewNotes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(a))
}

// DeleteApplication は応募を削除する。
// DELETE /api/applications/{id}
func (h *ApplicationHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplicationStats は応募ファネルの統計を取得する。
// GET /api/applications/stats
func (h *ApplicationHandler) ApplicationStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.stats.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
