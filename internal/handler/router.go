package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/taskboard/internal/metrics"
	"github.com/hitoshi/taskboard/internal/middleware"
)

// HealthChecker はDB疎通確認のための最小インターフェース。
// *sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// タスク
	TaskService TaskServiceInterface

	// ページデータ
	TaskPageService TaskPageServiceInterface

	// 寄付
	DonationService DonationServiceInterface

	// 監視
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer
	Metrics       middleware.HTTPMetricsRecorder
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging/Metrics → SecurityHeaders → CORS → (ルートごとに) Session/PageAuth → RateLimit/VIPGuard
//
// 認証ルート（/auth/*）とホームページ、/health、/metricsはセッション不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	taskHandler := NewTaskHandler(deps.TaskService)
	pageHandler := NewPageHandler(deps.TaskPageService, deps.DonationService)
	donationHandler := NewDonationHandler(deps.DonationService)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// CSRFトークン取得
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// 認証ルート（OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", authHandler.Login)
		r.Get("/github/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// ホームページ（公開）
	r.Get("/", pageHandler.Home)

	// --- ページルート ---
	// 未認証はトップへ302、VIP専用ページは非VIPをボードへ302
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewPageAuthMiddleware(deps.SessionFinder))

		r.Get("/board", pageHandler.Board)
		r.Get("/donate", pageHandler.Donate)

		r.With(middleware.NewVIPPageMiddleware()).Get("/board/{id}", pageHandler.TaskDetail)
	})

	// --- APIルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// タスク管理
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", taskHandler.RenameTask)
				r.Delete("/", taskHandler.DeleteTask)
			})
		})

		// 寄付記録（記録専用レート制限を追加）
		r.With(deps.RateLimiter.DonationMiddleware()).Post("/api/donations", donationHandler.RecordDonation)
	})

	return r
}
