package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TonYacapin/esg-bulletin-app-sub000/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
// 各ストアフィールドには通常同一のbulletin.Storeを渡す。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	SessionToucher    middleware.SessionToucher
	RateLimiter       *middleware.RateLimiter

	// /metrics エンドポイント。nilの場合はルートを公開しない。
	MetricsHandler http.Handler

	// セッション
	SessionStore   SessionStoreInterface
	SessionMetrics SessionMetricsRecorder

	// ニュース検索
	NewsService NewsServiceInterface
	NewsStore   NewsStoreInterface
	NewsMetrics SearchMetricsRecorder

	// 記事選択
	SelectionStore SelectionStoreInterface

	// ブレティン
	BulletinStore   BulletinStoreInterface
	Sanitizer       ContentSanitizer
	BulletinMetrics AssembleMetricsRecorder

	// コンテンツ生成
	GenerationService GenerationServiceInterface
	GenerationStore   GenerationStoreInterface

	// 画像
	ImageService ImageServiceInterface
	URLValidator URLValidator
	ImageStore   ImageStoreInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS → Session → RateLimit(General)
//
// セッション作成・ヘルスチェック・メトリクスはセッションミドルウェアの外に
// 配置する。生成エンドポイントには生成専用レート制限を追加適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	sessionHandler := NewSessionHandler(deps.SessionStore, deps.SessionMetrics)
	newsHandler := NewNewsHandler(deps.NewsService, deps.NewsStore, deps.NewsMetrics)
	selectionHandler := NewSelectionHandler(deps.SelectionStore)
	bulletinHandler := NewBulletinHandler(deps.BulletinStore, deps.Sanitizer, deps.BulletinMetrics)
	generateHandler := NewGenerateHandler(deps.GenerationService, deps.GenerationStore)
	imageHandler := NewImageHandler(deps.ImageService, deps.URLValidator, deps.ImageStore)

	// --- セッション不要のルート ---

	r.Post("/api/sessions", sessionHandler.CreateSession)
	r.Get("/health", sessionHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- セッションが必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionToucher))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ニュース検索・記事詳細
		r.Route("/api/news", func(r chi.Router) {
			r.Get("/", newsHandler.Search)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", newsHandler.Detail)
				r.Put("/image", imageHandler.SetArticleImage)
			})
		})

		// 記事選択
		r.Route("/api/selection", func(r chi.Router) {
			r.Get("/", selectionHandler.ListSelected)
			r.Put("/", selectionHandler.Replace)
			r.Post("/toggle", selectionHandler.Toggle)
			r.Post("/clear", selectionHandler.Clear)
		})

		// ブレティン構成・組み立て
		r.Route("/api/bulletin", func(r chi.Router) {
			r.Post("/", bulletinHandler.Assemble)
			r.Get("/", bulletinHandler.GetBulletin)
			r.Get("/config", bulletinHandler.GetConfig)
			r.Put("/config", bulletinHandler.UpdateConfig)
			r.Get("/legend", bulletinHandler.Legend)

			// コンテンツ生成（生成専用レート制限を追加適用）
			r.Route("/generate", func(r chi.Router) {
				r.Use(deps.RateLimiter.GenerationMiddleware())
				r.Post("/", generateHandler.GenerateAll)
				r.Post("/{slot}", generateHandler.GenerateOne)
			})
		})

		// 画像検索
		r.Get("/api/images", imageHandler.SearchImages)
	})

	return r
}
