package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/vcscout/internal/metrics"
	"github.com/hitoshi/vcscout/internal/middleware"
	"github.com/hitoshi/vcscout/internal/scrape"
)

// HealthChecker はヘルスチェックで利用する依存のインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス。Gathererがnilの場合は/metricsを公開しない。
	MetricsRecorder middleware.HTTPStatusRecorder
	Gatherer        prometheus.Gatherer

	// ドメインサービス
	JobService         JobServiceInterface
	JobStats           JobStatsInterface
	StartupService     StartupServiceInterface
	ApplicationService ApplicationServiceInterface
	ApplicationStats   ApplicationStatsInterface
	DealflowService    DealflowServiceInterface
	DealflowStats      DealflowStatsInterface
	DashboardStats     DashboardStatsInterface
	Settings           SettingsStoreInterface

	// スクレイプパイプライン
	ScrapePipeline ScrapePipelineInterface
	JobAdapter     scrape.SearchAdapter
	JobStore       scrape.Store
	DealAdapter    scrape.SearchAdapter
	DealStore      scrape.Store
	ScrapeLogs     ScrapeLogListerInterface
	ScrapeConfig   ScrapeHandlerConfig
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → RecoveryMiddleware → SecurityHeadersMiddleware → LoggingMiddleware → MetricsMiddleware
//
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}

	jobHandler := NewJobHandler(deps.JobService, deps.JobStats)
	startupHandler := NewStartupHandler(deps.StartupService)
	appHandler := NewApplicationHandler(deps.ApplicationService, deps.ApplicationStats)
	dealflowHandler := NewDealflowHandler(deps.DealflowService, deps.DealflowStats)
	dashboardHandler := NewDashboardHandler(deps.DashboardStats)
	settingsHandler := NewSettingsHandler(deps.Settings)
	scrapeHandler := NewScrapeHandler(
		deps.ScrapePipeline,
		deps.JobAdapter, deps.JobStore,
		deps.DealAdapter, deps.DealStore,
		deps.ScrapeLogs, deps.ScrapeConfig,
	)

	// --- レート制限の外のルート ---

	r.Get("/health", healthHandler(deps.HealthChecker))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 求人管理
		r.Route("/api/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.ListJobs)
			r.Post("/", jobHandler.CreateJob)
			r.Get("/stats", jobHandler.JobStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jobHandler.GetJob)
				r.Put("/", jobHandler.UpdateJob)
				r.Delete("/", jobHandler.DeleteJob)
			})
		})

		// スタートアップ管理
		r.Route("/api/startups", func(r chi.Router) {
			r.Get("/", startupHandler.ListStartups)
			r.Post("/", startupHandler.CreateStartup)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", startupHandler.GetStartup)
				r.Put("/", startupHandler.UpdateStartup)
				r.Delete("/", startupHandler.DeleteStartup)
			})
		})

		// 応募管理
		r.Route("/api/applications", func(r chi.Router) {
			r.Get("/", appHandler.ListApplications)
			r.Post("/", appHandler.CreateApplication)
			r.Get("/stats", appHandler.ApplicationStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", appHandler.GetApplication)
				r.Put("/", appHandler.UpdateApplication)
				r.Delete("/", appHandler.DeleteApplication)
			})
		})

		// ディールフロー管理
		r.Route("/api/dealflow", func(r chi.Router) {
			r.Get("/", dealflowHandler.ListDealflow)
			r.Post("/", dealflowHandler.CreateDealflow)
			r.Get("/stats", dealflowHandler.DealflowStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", dealflowHandler.GetDealflow)
				r.Put("/", dealflowHandler.UpdateDealflow)
				r.Delete("/", dealflowHandler.DeleteDealflow)
				r.Post("/contact", dealflowHandler.LogContact)
			})
		})

		// ダッシュボードと設定
		r.Get("/api/dashboard/stats", dashboardHandler.DashboardStats)
		r.Get("/api/settings", settingsHandler.GetSettings)
		r.Put("/api/settings", settingsHandler.UpdateSettings)

		// 求人スクレイプ（起動系はスクレイプ専用レート制限を追加）
		r.Route("/api/scrape", func(r chi.Router) {
			scrapeLimit := deps.RateLimiter.ScrapeMiddleware()
			r.With(scrapeLimit).Post("/start", scrapeHandler.StartJobScrape)
			r.With(scrapeLimit).Post("/search-firms", scrapeHandler.SearchFirms)
			r.With(scrapeLimit).Post("/search-role", scrapeHandler.SearchRole)
			r.Get("/logs", scrapeHandler.JobScrapeLogs)
			r.Get("/status", scrapeHandler.ScrapeStatus)
		})

		// ディールフロースクレイプ
		r.Route("/api/dealflow-scrape", func(r chi.Router) {
			scrapeLimit := deps.RateLimiter.ScrapeMiddleware()
			r.With(scrapeLimit).Post("/start", scrapeHandler.StartDealflowScrape)
			r.With(scrapeLimit).Post("/accelerator", scrapeHandler.SearchAccelerator)
			r.With(scrapeLimit).Post("/sectors", scrapeHandler.SearchSectors)
			r.Get("/logs", scrapeHandler.DealflowScrapeLogs)
		})
	})

	return r
}

// healthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
