package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/vcscout/internal/job"
	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/stats"
)

// --- モック定義 ---

// mockJobService はJobServiceInterfaceのモック実装。
type mockJobService struct {
	getFn    func(ctx context.Context, id string) (*model.Job, error)
	listFn   func(ctx context.Context, filter repository.JobFilter) ([]*model.Job, int, error)
	createFn func(ctx context.Context, input job.CreateInput) (*model.Job, error)
	updateFn func(ctx context.Context, id string, input job.UpdateInput) (*model.Job, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockJobService) Get(ctx context.Context, id string) (*model.Job, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockJobService) List(ctx context.Context, filter repository.JobFilter) ([]*model.Job, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockJobService) Create(ctx context.Context, input job.CreateInput) (*model.Job, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, nil
}

func (m *mockJobService) Update(ctx context.Context, id string, input job.UpdateInput) (*model.Job, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, nil
}

func (m *mockJobService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockJobStats はJobStatsInterfaceのモック実装。
type mockJobStats struct {
	statsFn func(ctx context.Context) (*stats.JobStats, error)
}

func (m *mockJobStats) Stats(ctx context.Context) (*stats.JobStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &stats.JobStats{}, nil
}

// --- テストヘルパー ---

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

func testJob() *model.Job {
	return &model.Job{
		ID:        "job-1",
		Title:     "VC Analyst",
		Company:   "Sequoia Capital",
		Source:    "exa",
		SourceURL: "https://example.com/jobs/1",
		ScrapedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
}

// --- GET /api/jobs テスト ---

func TestJobHandler_ListJobs_Success(t *testing.T) {
	var captured repository.JobFilter
	svc := &mockJobService{
		listFn: func(ctx context.Context, filter repository.JobFilter) ([]*model.Job, int, error) {
			captured = filter
			return []*model.Job{testJob()}, 42, nil
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?skip=20&limit=10&source=exa&company=Sequoia&is_active=true&search=analyst", nil)
	w := httptest.NewRecorder()

	h.ListJobs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	if captured.Source != "exa" {
		t.Errorf("filter.Source = %q, want %q", captured.Source, "exa")
	}
	if captured.Company != "Sequoia" {
		t.Errorf("filter.Company = %q, want %q", captured.Company, "Sequoia")
	}
	if captured.Search != "analyst" {
		t.Errorf("filter.Search = %q, want %q", captured.Search, "analyst")
	}
	if captured.IsActive == nil || !*captured.IsActive {
		t.Errorf("filter.IsActive = %v, want true", captured.IsActive)
	}
	if captured.Skip != 20 || captured.Limit != 10 {
		t.Errorf("filter skip/limit = %d/%d, want 20/10", captured.Skip, captured.Limit)
	}

	var resp jobListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 42 {
		t.Errorf("total = %d, want 42", resp.Total)
	}
	if resp.Page != 3 {
		t.Errorf("page = %d, want 3", resp.Page)
	}
	if resp.PageSize != 10 {
		t.Errorf("page_size = %d, want 10", resp.PageSize)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "job-1" {
		t.Errorf("items = %+v, want 1 item with id job-1", resp.Items)
	}
}

func TestJobHandler_ListJobs_DefaultPagination(t *testing.T) {
	var captured repository.JobFilter
	svc := &mockJobService{
		listFn: func(ctx context.Context, filter repository.JobFilter) ([]*model.Job, int, error) {
			captured = filter
			return nil, 0, nil
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()

	h.ListJobs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if captured.Skip != 0 || captured.Limit != 100 {
		t.Errorf("default skip/limit = %d/%d, want 0/100", captured.Skip, captured.Limit)
	}
}

func TestJobHandler_ListJobs_InvalidPagination(t *testing.T) {
	h := NewJobHandler(&mockJobService{}, &mockJobStats{})

	cases := []struct {
		name  string
		query string
	}{
		{"負のskip", "?skip=-1"},
		{"limit上限超過", "?limit=501"},
		{"limitゼロ", "?limit=0"},
		{"数値でないskip", "?skip=abc"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/jobs"+tt.query, nil)
			w := httptest.NewRecorder()

			h.ListJobs(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			body := parseAPIErrorResponse(t, w)
			if body["code"] != model.ErrCodeInvalidPagination {
				t.Errorf("code = %q, want %q", body["code"], model.ErrCodeInvalidPagination)
			}
		})
	}
}

// --- GET /api/jobs/{id} テスト ---

func TestJobHandler_GetJob_Success(t *testing.T) {
	svc := &mockJobService{
		getFn: func(ctx context.Context, id string) (*model.Job, error) {
			if id != "job-1" {
				t.Errorf("id = %q, want %q", id, "job-1")
			}
			return testJob(), nil
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.GetJob(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp jobResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "job-1" || resp.Title != "VC Analyst" {
		t.Errorf("response = %+v, want job-1 / VC Analyst", resp)
	}
}

func TestJobHandler_GetJob_NotFound(t *testing.T) {
	svc := &mockJobService{
		getFn: func(ctx context.Context, id string) (*model.Job, error) {
			return nil, model.NewJobNotFoundError(id)
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil)
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.GetJob(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	body := parseAPIErrorResponse(t, w)
	if body["code"] != model.ErrCodeJobNotFound {
		t.Errorf("code = %q, want %q", body["code"], model.ErrCodeJobNotFound)
	}
}

// --- POST /api/jobs テスト ---

func TestJobHandler_CreateJob_Success(t *testing.T) {
	svc := &mockJobService{
		createFn: func(ctx context.Context, input job.CreateInput) (*model.Job, error) {
			if input.Title != "Associate" {
				t.Errorf("input.Title = %q, want %q", input.Title, "Associate")
			}
			if input.Company != "Accel" {
				t.Errorf("input.Company = %q, want %q", input.Company, "Accel")
			}
			j := testJob()
			j.Title = input.Title
			j.Company = input.Company
			return j, nil
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	body := `{"title": "Associate", "company": "Accel", "source_url": "https://example.com/jobs/2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.CreateJob(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestJobHandler_CreateJob_InvalidJSON(t *testing.T) {
	h := NewJobHandler(&mockJobService{}, &mockJobStats{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", bytes.NewBufferString("{invalid"))
	w := httptest.NewRecorder()

	h.CreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	body := parseAPIErrorResponse(t, w)
	if body["code"] != model.ErrCodeInvalidRequest {
		t.Errorf("code = %q, want %q", body["code"], model.ErrCodeInvalidRequest)
	}
}

// --- PUT /api/jobs/{id} テスト ---

func TestJobHandler_UpdateJob_PartialUpdate(t *testing.T) {
	svc := &mockJobService{
		updateFn: func(ctx context.Context, id string, input job.UpdateInput) (*model.Job, error) {
			if input.Title == nil || *input.Title != "Senior Analyst" {
				t.Errorf("input.Title = %v, want Senior Analyst", input.Title)
			}
			if input.Company != nil {
				t.Errorf("input.Company = %v, want nil（未指定フィールド）", input.Company)
			}
			j := testJob()
			j.Title = *input.Title
			return j, nil
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	body := `{"title": "Senior Analyst"}`
	req := httptest.NewRequest(http.MethodPut, "/api/jobs/job-1", bytes.NewBufferString(body))
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.UpdateJob(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// --- DELETE /api/jobs/{id} テスト ---

func TestJobHandler_DeleteJob_Success(t *testing.T) {
	svc := &mockJobService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "job-1" {
				t.Errorf("id = %q, want %q", id, "job-1")
			}
			return nil
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/job-1", nil)
	req = withChiURLParam(req, "id", "job-1")
	w := httptest.NewRecorder()

	h.DeleteJob(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestJobHandler_DeleteJob_NotFound(t *testing.T) {
	svc := &mockJobService{
		deleteFn: func(ctx context.Context, id string) error {
			return model.NewJobNotFoundError(id)
		},
	}
	h := NewJobHandler(svc, &mockJobStats{})

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/missing", nil)
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.DeleteJob(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- GET /api/jobs/stats テスト ---

func TestJobHandler_JobStats_Success(t *testing.T) {
	statsSvc := &mockJobStats{
		statsFn: func(ctx context.Context) (*stats.JobStats, error) {
			return &stats.JobStats{
				TotalJobsFound: 100,
				ActiveJobs:     80,
				JobsBySource:   map[string]int{"exa": 100},
			}, nil
		},
	}
	h := NewJobHandler(&mockJobService{}, statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
	w := httptest.NewRecorder()

	h.JobStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp stats.JobStats
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalJobsFound != 100 || resp.ActiveJobs != 80 {
		t.Errorf("stats = %+v, want total 100 / active 80", resp)
	}
}

func TestJobHandler_JobStats_InternalError(t *testing.T) {
	statsSvc := &mockJobStats{
		statsFn: func(ctx context.Context) (*stats.JobStats, error) {
			return nil, errors.New("db connection lost")
		},
	}
	h := NewJobHandler(&mockJobService{}, statsSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/stats", nil)
	w := httptest.NewRecorder()

	h.JobStats(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	body := parseAPIErrorResponse(t, w)
	if body["code"] != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body["code"])
	}
}
