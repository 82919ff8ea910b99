// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/vcscout/internal/application"
	"github.com/hitoshi/vcscout/internal/config"
	"github.com/hitoshi/vcscout/internal/database"
	"github.com/hitoshi/vcscout/internal/dealflow"
	"github.com/hitoshi/vcscout/internal/exa"
	"github.com/hitoshi/vcscout/internal/handler"
	"github.com/hitoshi/vcscout/internal/job"
	"github.com/hitoshi/vcscout/internal/logger"
	"github.com/hitoshi/vcscout/internal/metrics"
	"github.com/hitoshi/vcscout/internal/middleware"
	"github.com/hitoshi/vcscout/internal/repository"
	"github.com/hitoshi/vcscout/internal/scrape"
	"github.com/hitoshi/vcscout/internal/security"
	"github.com/hitoshi/vcscout/internal/startup"
	"github.com/hitoshi/vcscout/internal/stats"
	"github.com/hitoshi/vcscout/internal/worker"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.Bool("scrape_configured", cfg.ScrapeConfigured()),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// scrapeDeps は取り込みパイプラインの依存一式。serveとworkerで共用する。
type scrapeDeps struct {
	pipeline    *scrape.Pipeline
	jobAdapter  *exa.JobSearchAdapter
	jobStore    *scrape.JobStore
	dealAdapter *exa.DealSearchAdapter
	dealStore   *scrape.StartupStore
	logRepo     repository.ScrapingLogRepository
}

// buildScrapeDeps は取り込みパイプラインの依存を構築する。
func buildScrapeDeps(cfg *config.Config, db *sql.DB, sanitizer security.ContentSanitizerService, collector scrape.MetricsRecorder) *scrapeDeps {
	jobRepo := repository.NewPostgresJobRepo(db)
	startupRepo := repository.NewPostgresStartupRepo(db)
	logRepo := repository.NewPostgresScrapingLogRepo(db)

	exaClient := exa.NewClient(
		&http.Client{Timeout: 30 * time.Second},
		slog.Default(),
		cfg.ExaAPIKey,
		cfg.ExaBaseURL,
	)

	return &scrapeDeps{
		pipeline:    scrape.NewPipeline(logRepo, slog.Default(), collector),
		jobAdapter:  exa.NewJobSearchAdapter(exaClient),
		jobStore:    scrape.NewJobStore(jobRepo, sanitizer),
		dealAdapter: exa.NewDealSearchAdapter(exaClient),
		dealStore:   scrape.NewStartupStore(startupRepo, sanitizer),
		logRepo:     logRepo,
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	jobRepo := repository.NewPostgresJobRepo(db)
	startupRepo := repository.NewPostgresStartupRepo(db)
	appRepo := repository.NewPostgresApplicationRepo(db)
	dealflowRepo := repository.NewPostgresDealflowRepo(db)
	settingsRepo := repository.NewPostgresSettingsRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービスの初期化
	sanitizer := security.NewContentSanitizer()
	streakService := stats.NewStreakService(settingsRepo)

	jobService := job.NewService(jobRepo, sanitizer)
	startupService := startup.NewService(startupRepo, sanitizer)
	appService := application.NewService(appRepo, jobRepo, sanitizer, streakService)
	dealflowService := dealflow.NewService(dealflowRepo, startupRepo, sanitizer, streakService)

	appAggregator := stats.NewApplicationAggregator(appRepo)
	dealflowAggregator := stats.NewDealflowAggregator(dealflowRepo)
	jobAggregator := stats.NewJobAggregator(jobRepo)
	dashboardService := stats.NewDashboardService(appAggregator, dealflowAggregator, settingsRepo)

	// 5. 取り込みパイプラインの初期化
	sd := buildScrapeDeps(cfg, db, sanitizer, collector)

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitScrape),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		HealthChecker:     db,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		MetricsRecorder: collector,
		Gatherer:        registry,

		JobService:         jobService,
		JobStats:           jobAggregator,
		StartupService:     startupService,
		ApplicationService: appService,
		ApplicationStats:   appAggregator,
		DealflowService:    dealflowService,
		DealflowStats:      dealflowAggregator,
		DashboardStats:     dashboardService,
		Settings:           settingsRepo,

		ScrapePipeline: sd.pipeline,
		JobAdapter:     sd.jobAdapter,
		JobStore:       sd.jobStore,
		DealAdapter:    sd.dealAdapter,
		DealStore:      sd.dealStore,
		ScrapeLogs:     sd.logRepo,
		ScrapeConfig: handler.ScrapeHandlerConfig{
			DefaultJobQuery: cfg.ScrapeQuery,
			Sectors:         cfg.ScrapeSectors,
			NumResults:      cfg.ScrapeNumResults,
			Configured:      cfg.ScrapeConfigured(),
		},
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、スクレイプスケジューラを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	if !cfg.ScrapeConfigured() {
		return fmt.Errorf("worker mode requires EXA_API_KEY to be set")
	}

	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. 取り込みパイプラインの初期化
	sanitizer := security.NewContentSanitizer()
	sd := buildScrapeDeps(cfg, db, sanitizer, nil)

	// 3. スケジューラの初期化
	scheduler := worker.NewScheduler(
		sd.pipeline,
		sd.jobAdapter, sd.jobStore,
		sd.dealAdapter, sd.dealStore,
		slog.Default(),
		worker.Config{
			Interval:   cfg.ScrapeInterval,
			BaseQuery:  cfg.ScrapeQuery,
			Sectors:    cfg.ScrapeSectors,
			NumResults: cfg.ScrapeNumResults,
		},
	)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("scrape_interval", cfg.ScrapeInterval),
		slog.Int("num_results", cfg.ScrapeNumResults),
	)

	// スケジューラをメインgoroutineで実行（ブロッキング）
	scheduler.Start(ctx)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
