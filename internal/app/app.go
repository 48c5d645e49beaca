// Package app はアプリケーションの起動とワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/bulletin"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/config"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/generate"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/handler"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/imagesearch"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/llm"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/logger"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/metrics"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/newsclient"
	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/security"
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
		slog.String("news_api_base_url", cfg.NewsAPIBaseURL),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、セッションクリーンアップを起動し、
// HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	log := slog.Default()

	// 1. メトリクスコレクター
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. セッションストアとクリーンアップ
	store := bulletin.NewStore(cfg.SessionTTL, log)

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go store.RunCleanup(cleanupCtx, cfg.SessionCleanupInterval)

	// 3. セキュリティサービス
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	// 4. 外部クライアント
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	newsClient := newsclient.NewClient(httpClient, log, collector,
		cfg.NewsAPIBaseURL, cfg.NewsAPIToken, cfg.NewsAPIKey)

	// 画像検索は固定の公開エンドポイントのみを呼ぶため、
	// SSRF防止クライアント経由で発信する
	imageClient := imagesearch.NewClient(ssrfGuard.NewSafeClient(cfg.HTTPClientTimeout), log, cfg.PexelsAPIKey)

	llmClient := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	}, log)

	// 5. 生成オーケストレーター
	orchestrator := generate.NewOrchestrator(llmClient, sanitizer, collector, log, generate.Config{
		SlotTimeout:          cfg.GenerationTimeout,
		CharBudget:           cfg.GenerationBudget,
		DetailedArticleLimit: cfg.GenerationArticles,
	})

	// 6. レート制限（req/min設定をreq/secに変換）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.GenerationRate = rate.Limit(float64(cfg.RateLimitGeneration) / 60.0)
	rateLimiterCfg.GenerationBurst = cfg.RateLimitGeneration
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		Logger:            log,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		SessionToucher:    store,
		RateLimiter:       rateLimiter,
		MetricsHandler:    metrics.Handler(registry),

		SessionStore:   store,
		SessionMetrics: collector,

		NewsService: newsClient,
		NewsStore:   store,
		NewsMetrics: collector,

		SelectionStore: store,

		BulletinStore:   store,
		Sanitizer:       sanitizer,
		BulletinMetrics: collector,

		GenerationService: orchestrator,
		GenerationStore:   store,

		ImageService: imageClient,
		URLValidator: ssrfGuard,
		ImageStore:   store,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
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
