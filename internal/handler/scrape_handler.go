package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/vcscout/internal/exa"
	"github.com/hitoshi/vcscout/internal/model"
	"github.com/hitoshi/vcscout/internal/scrape"
)

// スクレイプ実行のデフォルト値。
const (
	defaultFirmResultsPerFirm = 10
	defaultRoleResults        = 50
	defaultAcceleratorResults = 50
	defaultSectorResults      = 30
	defaultLogsLimit          = 20
)

// defaultFirms はファーム検索のデフォルト対象。
var defaultFirms = []string{"Sequoia Capital", "Andreessen Horowitz", "Accel"}

// ScrapePipelineInterface は取り込みパイプラインのインターフェース。
type ScrapePipelineInterface interface {
	// Run は1クエリの取り込みを実行する。
	Run(ctx context.Context, adapter scrape.SearchAdapter, store scrape.Store, query string, numResults int) (*scrape.Summary, error)
	// RunBatch は複数クエリを順に実行し、クエリ単位の失敗があっても続行する。
	RunBatch(ctx context.Context, adapter scrape.SearchAdapter, store scrape.Store, queries []string, numResults int) []*scrape.Summary
}

// ScrapeLogListerInterface はスクレイプログの参照インターフェース。
type ScrapeLogListerInterface interface {
	ListRecent(ctx context.Context, source string, limit int) ([]*model.ScrapingLog, error)
}

// ScrapeHandlerConfig はスクレイプハンドラーの設定。
type ScrapeHandlerConfig struct {
	DefaultJobQuery string   // 求人スクレイプのデフォルトクエリ
	Sectors         []string // セクターバッチの対象セクター
	NumResults      int      // 1クエリあたりのデフォルト取得件数
	Configured      bool     // Exa APIキーが設定されているか
}

// ScrapeHandler はスクレイプ実行とログ参照のHTTPハンドラー。
// 求人とディールフローの両方の取り込みを同一のパイプラインで処理する。
type ScrapeHandler struct {
	pipeline    ScrapePipelineInterface
	jobAdapter  scrape.SearchAdapter
	jobStore    scrape.Store
	dealAdapter scrape.SearchAdapter
	dealStore   scrape.Store
	logs        ScrapeLogListerInterface
	config      ScrapeHandlerConfig
}

// NewScrapeHandler はScrapeHandlerを生成する。
func NewScrapeHandler(
	pipeline ScrapePipelineInterface,
	jobAdapter scrape.SearchAdapter,
	jobStore scrape.Store,
	dealAdapter scrape.SearchAdapter,
	dealStore scrape.Store,
	logs ScrapeLogListerInterface,
	config ScrapeHandlerConfig,
) *ScrapeHandler {
	return &ScrapeHandler{
		pipeline:    pipeline,
		jobAdapter:  jobAdapter,
		jobStore:    jobStore,
		dealAdapter: dealAdapter,
		dealStore:   dealStore,
		logs:        logs,
		config:      config,
	}
}

// --- リクエスト・レスポンス型 ---

// scrapeStartRequest はスクレイプ開始リクエストのボディ。
type scrapeStartRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

// firmSearchRequest はファーム検索リクエストのボディ。
type firmSearchRequest struct {
	Firms      []string `json:"firms"`
	NumPerFirm int      `json:"num_per_firm"`
}

// roleSearchRequest はロール検索リクエストのボディ。
type roleSearchRequest struct {
	Role       string `json:"role"`
	NumResults int    `json:"num_results"`
}

// acceleratorRequest はアクセラレーターバッチ検索リクエストのボディ。
type acceleratorRequest struct {
	Accelerator string `json:"accelerator"`
	BatchName   string `json:"batch_name"`
	NumResults  int    `json:"num_results"`
}

// sectorSearchRequest はセクター検索リクエストのボディ。
type sectorSearchRequest struct {
	Sectors      []string `json:"sectors"`
	NumPerSector int      `json:"num_per_sector"`
}

// batchScrapeResponse はバッチ実行のレスポンス。
type batchScrapeResponse struct {
	Runs []*scrape.Summary `json:"runs"`
}

// scrapeStatusResponse はスクレイプ設定状態のレスポンス。
type scrapeStatusResponse struct {
	Status string `json:"status"` // ready または not_configured
}

// scrapingLogResponse はスクレイプログのAPIレスポンス。
type scrapingLogResponse struct {
	ID              string     `json:"id"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	JobsFound       int        `json:"jobs_found"`
	JobsNew         int        `json:"jobs_new"`
	JobsUpdated     int        `json:"jobs_updated"`
	DuplicatesCount int        `json:"duplicates_count"`
	RejectedCount   int        `json:"rejected_count"`
	ErrorMessage    string     `json:"error_message"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	DurationSeconds *float64   `json:"duration_seconds"`
}

// toScrapingLogResponse はmodel.ScrapingLogからAPIレスポンスに変換する。
func toScrapingLogResponse(l *model.ScrapingLog) scrapingLogResponse {
	return scrapingLogResponse{
		ID:              l.ID,
		Source:          l.Source,
		Status:          string(l.Status),
		JobsFound:       l.JobsFound,
		JobsNew:         l.JobsNew,
		JobsUpdated:     l.JobsUpdated,
		DuplicatesCount: l.DuplicatesCount,
		RejectedCount:   l.RejectedCount,
		ErrorMessage:    l.ErrorMessage,
		StartedAt:       l.StartedAt,
		CompletedAt:     l.CompletedAt,
		DurationSeconds: l.DurationSeconds,
	}
}

// requireConfigured はAPIキー未設定の場合にエラーレスポンスを書き込む。
func (h *ScrapeHandler) requireConfigured(w http.ResponseWriter) bool {
	if !h.config.Configured {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewScrapeNotConfiguredError())
		return false
	}
	return true
}

// StartJobScrape は求人スクレイプを1回実行する。
// POST /api/scrape/start
func (h *ScrapeHandler) StartJobScrape(w http.ResponseWriter, r *http.Request) {
	if !h.requireConfigured(w) {
		return
	}

	var req scrapeStartRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Query == "" {
		req.Query = h.config.DefaultJobQuery
	}
	if req.NumResults <= 0 {
		req.NumResults = h.config.NumResults
	}

	summary, err := h.pipeline.Run(r.Context(), h.jobAdapter, h.jobStore, req.Query, req.NumResults)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SearchFirms は指定ファームの求人をOR結合クエリ1回で検索する。
// POST /api/scrape/search-firms
func (h *ScrapeHandler) SearchFirms(w http.ResponseWriter, r *http.Request) {
	if !h.requireConfigured(w) {
		return
	}

	var req firmSearchRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if len(req.Firms) == 0 {
		req.Firms = defaultFirms
	}
	if req.NumPerFirm <= 0 {
		req.NumPerFirm = defaultFirmResultsPerFirm
	}

	query := exa.BuildFirmQuery(req.Firms)
	numResults := req.NumPerFirm * len(req.Firms)

	summary, err := h.pipeline.Run(r.Context(), h.jobAdapter, h.jobStore, query, numResults)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SearchRole は指定ロールのVC求人を検索する。
// POST /api/scrape/search-role
func (h *ScrapeHandler) SearchRole(w http.ResponseWriter, r *http.Request) {
	if !h.requireConfigured(w) {
		return
	}

	var req roleSearchRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Role == "" {
		req.Role = "analyst"
	}
	if req.NumResults <= 0 {
		req.NumResults = defaultRoleResults
	}

	summary, err := h.pipeline.Run(r.Context(), h.jobAdapter, h.jobStore, exa.BuildRoleQuery(req.Role), req.NumResults)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// JobScrapeLogs は求人スクレイプの実行ログを取得する。
// GET /api/scrape/logs?limit=20
func (h *ScrapeHandler) JobScrapeLogs(w http.ResponseWriter, r *http.Request) {
	h.writeLogs(w, r, model.ScrapeSourceJobs)
}

// ScrapeStatus はスクレイプ設定の状態を取得する。
// GET /api/scrape/status
func (h *ScrapeHandler) ScrapeStatus(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	if !h.config.Configured {
		status = "not_configured"
	}
	writeJSON(w, http.StatusOK, scrapeStatusResponse{Status: status})
}

// StartDealflowScrape はディールフロースクレイプを1回実行する。クエリは必須。
// POST /api/dealflow-scrape/start
func (h *ScrapeHandler) StartDealflowScrape(w http.ResponseWriter, r *http.Request) {
	if !h.requireConfigured(w) {
		return
	}

	var req scrapeStartRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Query == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("queryは必須です"))
		return
	}
	if req.NumResults <= 0 {
		req.NumResults = h.config.NumResults
	}

	summary, err := h.pipeline.Run(r.Context(), h.dealAdapter, h.dealStore, req.Query, req.NumResults)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// SearchAccelerator はアクセラレーターバッチ出身のスタートアップを検索する。
// POST /api/dealflow-scrape/accelerator
func (h *ScrapeHandler) SearchAccelerator(w http.ResponseWriter, r *http.Request) {
	if !h.requireConfigured(w) {
		return
	}

	var req acceleratorRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if req.Accelerator == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("acceleratorは必須です"))
		return
	}
	if req.NumResults <= 0 {
		req.NumResults = defaultAcceleratorResults
	}

	queries := []string{exa.BuildAcceleratorQuery(req.Accelerator, req.BatchName)}
	summaries := h.pipeline.RunBatch(r.Context(), h.dealAdapter, h.dealStore, queries, req.NumResults)
	writeJSON(w, http.StatusOK, batchScrapeResponse{Runs: summaries})
}

// SearchSectors は指定セクターのスタートアップをセクターごとに検索する。
// POST /api/dealflow-scrape/sectors
func (h *ScrapeHandler) SearchSectors(w http.ResponseWriter, r *http.Request) {
	if !h.requireConfigured(w) {
		return
	}

	var req sectorSearchRequest
	if apiErr := decodeJSONBody(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if len(req.Sectors) == 0 {
		req.Sectors = h.config.Sectors
	}
	if req.NumPerSector <= 0 {
		req.NumPerSector = defaultSectorResults
	}

	queries := exa.BuildDealQueries(req.Sectors)
	summaries := h.pipeline.RunBatch(r.Context(), h.dealAdapter, h.dealStore, queries, req.NumPerSector)
	writeJSON(w, http.StatusOK, batchScrapeResponse{Runs: summaries})
}

// DealflowScrapeLogs はディールフロースクレイプの実行ログを取得する。
// GET /api/dealflow-scrape/logs?limit=20
func (h *ScrapeHandler) DealflowScrapeLogs(w http.ResponseWriter, r *http.Request) {
	h.writeLogs(w, r, model.ScrapeSourceDealflow)
}

// writeLogs は指定sourceの実行ログ一覧を書き込む。
func (h *ScrapeHandler) writeLogs(w http.ResponseWriter, r *http.Request, source string) {
	limit := defaultLogsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidPaginationError("limitは1〜500の整数で指定してください"))
			return
		}
		limit = n
	}

	logs, err := h.logs.ListRecent(r.Context(), source, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]scrapingLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, toScrapingLogResponse(l))
	}
	writeJSON(w, http.StatusOK, items)
}
