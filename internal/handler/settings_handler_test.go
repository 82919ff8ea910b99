package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/vcscout/internal/model"
)

// --- モック定義 ---

// mockSettingsStore はSettingsStoreInterfaceのモック実装。
type mockSettingsStore struct {
	getOrCreateFn func(ctx context.Context) (*model.UserSettings, error)
	updateGoalsFn func(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error)
}

func (m *mockSettingsStore) GetOrCreate(ctx context.Context) (*model.UserSettings, error) {
	if m.getOrCreateFn != nil {
		return m.getOrCreateFn(ctx)
	}
	return testSettings(), nil
}

func (m *mockSettingsStore) UpdateGoals(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error) {
	if m.updateGoalsFn != nil {
		return m.updateGoalsFn(ctx, jobGoal, dealflowGoal)
	}
	return testSettings(), nil
}

func testSettings() *model.UserSettings {
	return &model.UserSettings{
		ID:                         "settings-1",
		WeeklyJobApplicationGoal:   10,
		WeeklyDealflowSourcingGoal: 5,
		JobApplicationStreak:       3,
		UpdatedAt:                  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// --- テスト ---

func TestSettingsHandler_GetSettings_ReturnsDefaults(t *testing.T) {
	h := NewSettingsHandler(&mockSettingsStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	w := httptest.NewRecorder()

	h.GetSettings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp settingsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.WeeklyJobApplicationGoal != 10 {
		t.Errorf("weekly_job_application_goal = %d, want 10", resp.WeeklyJobApplicationGoal)
	}
	if resp.WeeklyDealflowSourcingGoal != 5 {
		t.Errorf("weekly_dealflow_sourcing_goal = %d, want 5", resp.WeeklyDealflowSourcingGoal)
	}
	if resp.JobApplicationStreak != 3 {
		t.Errorf("job_application_streak = %d, want 3", resp.JobApplicationStreak)
	}
}

func TestSettingsHandler_UpdateSettings_BothGoals(t *testing.T) {
	store := &mockSettingsStore{
		updateGoalsFn: func(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error) {
			if jobGoal != 15 {
				t.Errorf("jobGoal = %d, want 15", jobGoal)
			}
			if dealflowGoal != 8 {
				t.Errorf("dealflowGoal = %d, want 8", dealflowGoal)
			}
			s := testSettings()
			s.WeeklyJobApplicationGoal = jobGoal
			s.WeeklyDealflowSourcingGoal = dealflowGoal
			return s, nil
		},
	}
	h := NewSettingsHandler(store)

	body := `{"weekly_job_application_goal": 15, "weekly_dealflow_sourcing_goal": 8}`
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.UpdateSettings(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestSettingsHandler_UpdateSettings_PartialKeepsCurrent は未指定のゴールが現在値を維持することを検証する。
func TestSettingsHandler_UpdateSettings_PartialKeepsCurrent(t *testing.T) {
	store := &mockSettingsStore{
		updateGoalsFn: func(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error) {
			if jobGoal != 20 {
				t.Errorf("jobGoal = %d, want 20", jobGoal)
			}
			// dealflow側は現在値（5）が維持される
			if dealflowGoal != 5 {
				t.Errorf("dealflowGoal = %d, want 5", dealflowGoal)
			}
			return testSettings(), nil
		},
	}
	h := NewSettingsHandler(store)

	body := `{"weekly_job_application_goal": 20}`
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.UpdateSettings(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestSettingsHandler_UpdateSettings_RejectsGoalBelowOne(t *testing.T) {
	updateCalled := false
	store := &mockSettingsStore{
		updateGoalsFn: func(ctx context.Context, jobGoal, dealflowGoal int) (*model.UserSettings, error) {
			updateCalled = true
			return testSettings(), nil
		},
	}
	h := NewSettingsHandler(store)

	body := `{"weekly_job_application_goal": 0}`
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.UpdateSettings(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	respBody := parseAPIErrorResponse(t, w)
	if respBody["code"] != model.ErrCodeInvalidRequest {
		t.Errorf("code = %q, want %q", respBody["code"], model.ErrCodeInvalidRequest)
	}
	if updateCalled {
		t.Error("UpdateGoals should not be called for invalid goal")
	}
}
