package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// SettingsStoreInterface は設定ハンドラーが必要とする永続化インターフェース。
type SettingsStoreInterface interface {
	// GetOrCreate はシングルトンの設定行を取得する。存在しない場合はデフォルト値で作成する。
	GetOrCreate(ctx context.Context) (*model.UserSettings, error)
	// UpdateGoals は週次ゴールを更新する。
	UpdateGoals(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error)
}

// SettingsHandler は週次ゴール設定のHTTPハンドラー。
type SettingsHandler struct {
	store SettingsStoreInterface
}

// NewSettingsHandler はSettingsHandlerを生成する。
func NewSettingsHandler(store SettingsStoreInterface) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// settingsUpdateRequest は設定更新リクエストのボディ。nilフィールドは変更しない。
type settingsUpdateRequest struct {
	WeeklyJobApplicationGoal   *int `json:"weekly_job_application_goal"`
	WeeklyDealflowSourcingGoal *int `json:"weekly_dealflow_sourcing_goal"`
}

// settingsResponse はユーザー設定のAPIレスポンス。
type settingsResponse struct {
	ID                         string     `json:"id"`
	WeeklyJobApplicationGoal   int        `json:"weekly_job_application_goal"`
	WeeklyDealflowSourcingGoal int        `json:"weekly_dealflow_sourcing_goal"`
	JobApplicationStreak       int        `json:"job_application_streak"`
	JobApplicationStreakDate   *time.Time `json:"job_application_streak_date"`
	DealflowSourcingStreak     int        `json:"dealflow_sourcing_streak"`
	DealflowSourcingStreakDate *time.Time `json:"dealflow_sourcing_streak_date"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// toSettingsResponse はmodel.UserSettingsからAPIレスポンスに変換する。
func toSettingsResponse(s *model.UserSettings) settingsResponse {
	return settingsResponse{
		ID:                         s.ID,
		WeeklyJobApplicationGoal:   s.WeeklyJobApplicationGoal,
		WeeklyDealflowSourcingGoal: s.WeeklyDealflowSourcingGoal,
		JobApplicationStreak:       s.JobApplicationStreak,
		JobApplicationStreakDate:   s.JobApplicationStreakDate,
		DealflowSourcingStreak:     s.DealflowSourcingStreak,
		DealflowSourcingStreakDate: s.DealflowSourcingStreakDate,
		UpdatedAt:                  s.UpdatedAt,
	}
}

// GetSettings はユーザー設定を取得する。初回アクセス時はデフォルト値で作成する。
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetOrCreate(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings は週次ゴールを更新する。未指定のゴールは現在値を維持する。
// PUT /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsUpdateRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	current, err := h.store.GetOrCreate(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	jobGoal := current.WeeklyJobApplicationGoal
	if req.WeeklyJobApplicationGoal != nil {
		jobGoal = *req.WeeklyJobApplicationGoal
	}
	dealflowGoal := current.WeeklyDealflowSourcingGoal
	if req.WeeklyDealflowSourcingGoal != nil {
		dealflowGoal = *req.WeeklyDealflowSourcingGoal
	}
	if jobGoal < 1 || dealflowGoal < 1 {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("週次ゴールは1以上で指定してください"))
		return
	}

	settings, err := h.store.UpdateGoals(r.Context(), jobGoal, dealflowGoal)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
