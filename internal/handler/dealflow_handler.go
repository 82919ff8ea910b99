package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vcscout/internal/dealflow"
	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/stats"
)

// DealflowServiceInterface はディールフローハンドラーが必要とするサービスインターフェース。
type DealflowServiceInterface interface {
	Get(ctx context.Context, id string) (*model.DealflowApplicationWithStartup, error)
	List(ctx context.Context, filter repository.DealflowFilter) ([]*model.DealflowApplication, int, error)
	Create(ctx context.Context, input dealflow.CreateInput) (*model.DealflowApplication, error)
	Update(ctx context.Context, id string, input dealflow.UpdateInput) (*model.DealflowApplication, error)
	Delete(ctx context.Context, id string) error
	// LogContact はコンタクト記録を追加する。
	LogContact(ctx context.Context, id string, contactType string) (*model.DealflowApplication, error)
}

// DealflowStatsInterface はディールフローパイプライン統計のインターフェース。
type DealflowStatsInterface interface {
	Stats(ctx context.Context) (*stats.DealflowStats, error)
}

// DealflowHandler はディールフローパイプライン管理のHTTPハンドラー。
type DealflowHandler struct {
	service DealflowServiceInterface
	stats   DealflowStatsInterface
}

// NewDealflowHandler はDealflowHandlerを生成する。
func NewDealflowHandler(service DealflowServiceInterface, statsService DealflowStatsInterface) *DealflowHandler {
	return &DealflowHandler{
		service: service,
		stats:   statsService,
	}
}

// --- リクエスト・レスポンス型 ---

// dealflowCreateRequest はディールフローレコード作成リクエストのボディ。
type dealflowCreateRequest struct {
	StartupID string `json:"startup_id"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// dealflowUpdateRequest はレコードの部分更新リクエストのボディ。nilフィールドは変更しない。
type dealflowUpdateRequest struct {
	Status          *string    `json:"status"`
	Notes           *string    `json:"notes"`
	ResearchSummary *string    `json:"research_summary"`
	Outcome         *string    `json:"outcome"`
	OutcomeReason   *string    `json:"outcome_reason"`
	IntroMadeTo     *string    `json:"intro_made_to"`
	IntroDate       *time.Time `json:"intro_date"`
}

// contactRequest はコンタクト記録リクエストのボディ。
type contactRequest struct {
	Type string `json:"type"`
}

// dealflowResponse はディールフローレコードのAPIレスポンス。
type dealflowResponse struct {
	ID               string           `json:"id"`
	StartupID        string           `json:"startup_id"`
	Status           string           `json:"status"`
	FirstContactDate *time.Time       `json:"first_contact_date"`
	LastContactDate  *time.Time       `json:"last_contact_date"`
	EmailsSent       int              `json:"emails_sent"`
	MeetingsHeld     int              `json:"meetings_held"`
	Notes            string           `json:"notes"`
	ResearchSummary  string           `json:"research_summary"`
	Outcome          string           `json:"outcome"`
	OutcomeReason    string           `json:"outcome_reason"`
	IntroMadeTo      string           `json:"intro_made_to"`
	IntroDate        *time.Time       `json:"intro_date"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Startup          *startupResponse `json:"startup,omitempty"`
}

// dealflowListResponse はディールフロー一覧のレスポンス。
type dealflowListResponse struct {
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []dealflowResponse `json:"items"`
}

// toDealflowResponse はmodel.DealflowApplicationからAPIレスポンスに変換する。
func toDealflowResponse(a *model.DealflowApplication) dealflowResponse {
	return dealflowResponse{
		ID:               a.ID,
		StartupID:        a.StartupID,
		Status:           string(a.Status),
		FirstContactDate: a.FirstContactDate,
		LastContactDate:  a.LastContactDate,
		EmailsSent:       a.EmailsSent,
		MeetingsHeld:     a.MeetingsHeld,
		Notes:            a.Notes,
		ResearchSummary:  a.ResearchSummary,
		Outcome:          a.Outcome,
		OutcomeReason:    a.OutcomeReason,
		IntroMadeTo:      a.IntroMadeTo,
		IntroDate:        a.IntroDate,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// ListDealflow はディールフロー一覧を取得する。
// GET /api/dealflow?skip=0&limit=100&status=contacted&startup_id=xxx
func (h *DealflowHandler) ListDealflow(w http.ResponseWriter, r *http.Request) {
	skip, limit, apiErr := parsePagination(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := repository.DealflowFilter{
		Status:    model.DealflowStatus(r.URL.Query().Get("status")),
		StartupID: r.URL.Query().Get("startup_id"),
		Skip:      skip,
		Limit:     limit,
	}

	apps, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]dealflowResponse, 0, len(apps))
	for _, a := range apps {
		items = append(items, toDealflowResponse(a))
	}

	writeJSON(w, http.StatusOK, dealflowListResponse{
		Total:    total,
		Page:     pageNumber(skip, limit),
		PageSize: limit,
		Items:    items,
	})
}

// GetDealflow はレコード詳細を参照先のスタートアップとともに取得する。
// GET /api/dealflow/{id}
func (h *DealflowHandler) GetDealflow(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := toDealflowResponse(&result.DealflowApplication)
	if result.Startup != nil {
		s := toStartupResponse(result.Startup)
		resp.Startup = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateDealflow はディールフローレコードを作成する。
// POST /api/dealflow
func (h *DealflowHandler) CreateDealflow(w http.ResponseWriter, r *http.Request) {
	var req dealflowCreateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.Create(r.Context(), dealflow.CreateInput{
		StartupID: req.StartupID,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDealflowResponse(a))
}

// UpdateDealflow はレコードを部分更新する。
// PUT /api/dealflow/{id}
func (h *DealflowHandler) UpdateDealflow(w http.ResponseWriter, r *http.Request) {
	var req dealflowUpdateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dealflow.UpdateInput{
		Status:          req.Status,
		Notes:           req.Notes,
		ResearchSummary: req.ResearchSummary,
		Outcome:         req.Outcome,
		OutcomeReason:   req.OutcomeReason,
		IntroMadeTo:     req.IntroMadeTo,
		IntroDate:       req.IntroDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealflowResponse(a))
}

// DeleteDealflow はレコードを削除する。
// DELETE /api/dealflow/{id}
func (h *DealflowHandler) DeleteDealflow(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LogContact はコンタクト記録を追加する。
// POST /api/dealflow/{id}/contact
func (h *DealflowHandler) LogContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.LogContact(r.Context(), chi.URLParam(r, "id"), req.Type)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDealflowResponse(a))
}

// DealflowStats はディールフローパイプラインの統計を取得する。
// GET /api/dealflow/stats
func (h *DealflowHandler) DealflowStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.stats.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
