package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/startup"
)

// StartupServiceInterface はスタートアップハンドラーが必要とするサービスインターフェース。
type StartupServiceInterface interface {
	Get(ctx context.Context, id string) (*model.Startup, error)
	List(ctx context.Context, filter repository.StartupFilter) ([]*model.Startup, int, error)
	Create(ctx context.Context, input startup.CreateInput) (*model.Startup, error)
	Update(ctx context.Context, id string, input startup.UpdateInput) (*model.Startup, error)
	Delete(ctx context.Context, id string) error
}

// StartupHandler はスタートアップ管理のHTTPハンドラー。
type StartupHandler struct {
	service StartupServiceInterface
}

// NewStartupHandler はStartupHandlerを生成する。
func NewStartupHandler(service StartupServiceInterface) *StartupHandler {
	return &StartupHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// startupCreateRequest はスタートアップの手動登録リクエストのボディ。
type startupCreateRequest struct {
	Name            string     `json:"name"`
	Website         string     `json:"website"`
	Description     string     `json:"description"`
	FundingStage    string     `json:"funding_stage"`
	LastFundingDate *time.Time `json:"last_funding_date"`
	FundingAmount   string     `json:"funding_amount"`
	Valuation       string     `json:"valuation"`
	Industry        string     `json:"industry"`
	Tags            string     `json:"tags"`
}

// startupUpdateRequest はスタートアップの部分更新リクエストのボディ。nilフィールドは変更しない。
type startupUpdateRequest struct {
	Name            *string    `json:"name"`
	Website         *string    `json:"website"`
	Description     *string    `json:"description"`
	FundingStage    *string    `json:"funding_stage"`
	LastFundingDate *time.Time `json:"last_funding_date"`
	FundingAmount   *string    `json:"funding_amount"`
	Valuation       *string    `json:"valuation"`
	Industry        *string    `json:"industry"`
	IsActive        *bool      `json:"is_active"`
	Tags            *string    `json:"tags"`
}

// startupResponse はスタートアップのAPIレスポンス。
type startupResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Website         string     `json:"website"`
	Description     string     `json:"description"`
	FundingStage    string     `json:"funding_stage"`
	LastFundingDate *time.Time `json:"last_funding_date"`
	FundingAmount   string     `json:"funding_amount"`
	Valuation       string     `json:"valuation"`
	Industry        string     `json:"industry"`
	Tags            string     `json:"tags"`
	Source          string     `json:"source"`
	SourceURL       string     `json:"source_url"`
	DiscoveredDate  time.Time  `json:"discovered_date"`
	LastUpdated     time.Time  `json:"last_updated"`
	IsActive        bool       `json:"is_active"`
}

// startupListResponse はスタートアップ一覧のレスポンス。
type startupListResponse struct {
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []startupResponse `json:"items"`
}

// toStartupResponse はmodel.StartupからAPIレスポンスに変換する。
func toStartupResponse(s *model.Startup) startupResponse {
	return startupResponse{
		ID:              s.ID,
		Name:            s.Name,
		Website:         s.Website,
		Description:     s.Description,
		FundingStage:    s.FundingStage,
		LastFundingDate: s.LastFundingDate,
		FundingAmount:   s.FundingAmount,
		Valuation:       s.Valuation,
		Industry:        s.Industry,
		Tags:            s.Tags,
		Source:          s.Source,
		SourceURL:       s.SourceURL,
		DiscoveredDate:  s.DiscoveredDate,
		LastUpdated:     s.LastUpdated,
		IsActive:        s.IsActive,
	}
}

// ListStartups はスタートアップ一覧を取得する。
// GET /api/startups?skip=0&limit=100&funding_stage=seed&industry=fintech&is_active=true&search=acme
func (h *StartupHandler) ListStartups(w http.ResponseWriter, r *http.Request) {
	skip, limit, apiErr := parsePagination(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	filter := repository.StartupFilter{
		FundingStage: r.URL.Query().Get("funding_stage"),
		Industry:     r.URL.Query().Get("industry"),
		Source:       r.URL.Query().Get("source"),
		Search:       r.URL.Query().Get("search"),
		IsActive:     parseBoolParam(r, "is_active"),
		Skip:         skip,
		Limit:        limit,
	}

	startups, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]startupResponse, 0, len(startups))
	for _, s := range startups {
		items = append(items, toStartupResponse(s))
	}

	writeJSON(w, http.StatusOK, startupListResponse{
		Total:    total,
		Page:     pageNumber(skip, limit),
		PageSize: limit,
		Items:    items,
	})
}

// GetStartup はスタートアップ詳細を取得する。
// GET /api/startups/{id}
func (h *StartupHandler) GetStartup(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStartupResponse(s))
}

// CreateStartup はスタートアップを手動登録する。
// POST /api/startups
func (h *StartupHandler) CreateStartup(w http.ResponseWriter, r *http.Request) {
	var req startupCreateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	s, err := h.service.Create(r.Context(), startup.CreateInput{
		Name:            req.Name,
		Website:         req.Website,
		Description:     req.Description,
		FundingStage:    req.FundingStage,
		LastFundingDate: req.LastFundingDate,
		FundingAmount:   req.FundingAmount,
		Valuation:       req.Valuation,
		Industry:        req.Industry,
		Tags:            req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStartupResponse(s))
}

// UpdateStartup はスタートアップを部分更新する。
// PUT /api/startups/{id}
func (h *StartupHandler) UpdateStartup(w http.ResponseWriter, r *http.Request) {
	var req startupUpdateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	s, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), startup.UpdateInput{
		Name:            req.Name,
		Website:         req.Website,
		Description:     req.Description,
		FundingStage:    req.FundingStage,
		LastFundingDate: req.LastFundingDate,
		FundingAmount:   req.FundingAmount,
		Valuation:       req.Valuation,
		Industry:        req.Industry,
		IsActive:        req.IsActive,
		Tags:            req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStartupResponse(s))
}

// DeleteStartup はスタートアップを削除する。
// DELETE /api/startups/{id}
func (h *StartupHandler) DeleteStartup(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
