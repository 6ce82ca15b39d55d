package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// TaskPageServiceInterface はページハンドラーが必要とするタスクサービスインターフェース。
type TaskPageServiceInterface interface {
	Load(ctx context.Context, session *model.Session) ([]*model.Task, error)
	Get(ctx context.Context, taskID string) (*model.Task, error)
}

// PageHandler はページデータ提供のHTTPハンドラー。
// リダイレクト契約: 未認証→「/」、非VIP→「/board」。いずれも302で恒久リダイレクトにはしない。
type PageHandler struct {
	taskService     TaskPageServiceInterface
	donationService DonationServiceInterface
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(taskService TaskPageServiceInterface, donationService DonationServiceInterface) *PageHandler {
	return &PageHandler{
		taskService:     taskService,
		donationService: donationService,
	}
}

// supporterResponse はホームページに表示するサポーター情報。
type supporterResponse struct {
	IdentityID string `json:"identity_id"`
	AvatarURL  string `json:"avatar_url"`
}

// sessionUserResponse はページに表示するログインユーザー情報。
type sessionUserResponse struct {
	IdentityID string `json:"identity_id"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	VIP        bool   `json:"vip"`
}

// Home はホームページのデータを返す。認証不要。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	supporters := []supporterResponse{}

	donors, err := h.donationService.ListSupporters(r.Context())
	if err != nil {
		// サポーター表示は装飾なので、取得失敗時は空のまま返す
		slog.Warn("failed to list supporters", slog.String("error", err.Error()))
	} else {
		for _, d := range donors {
			supporters = append(supporters, supporterResponse{
				IdentityID: d.IdentityID,
				AvatarURL:  d.AvatarURL,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"supporters": supporters})
}

// Board はボードページのデータ（ユーザー情報＋タスク一覧）を返す。
// GET /board
func (h *PageHandler) Board(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	tasks, err := h.taskService.Load(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		results[i] = toTaskResponse(task)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user":  toSessionUserResponse(session),
		"tasks": results,
	})
}

// TaskDetail はタスク詳細ページのデータを返す。VIP専用。
// 読み取り失敗と未存在は区別せず、どちらもボードページへ302リダイレクトする。
// GET /board/{id}
func (h *PageHandler) TaskDetail(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	taskID := chi.URLParam(r, "id")

	task, err := h.taskService.Get(r.Context(), taskID)
	if err != nil {
		slog.Warn("failed to load task for detail page",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, "/board", http.StatusFound)
		return
	}
	if task == nil {
		http.Redirect(w, r, "/board", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user": toSessionUserResponse(session),
		"task": toTaskResponse(task),
	})
}

// Donate は寄付ページのデータ（ログインユーザー情報）を返す。
// GET /donate
func (h *PageHandler) Donate(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user": toSessionUserResponse(session),
	})
}

// toSessionUserResponse はセッションからページ表示用のユーザー情報に変換する。
func toSessionUserResponse(session *model.Session) sessionUserResponse {
	return sessionUserResponse{
		IdentityID: session.IdentityID,
		Name:       session.DisplayName,
		AvatarURL:  session.AvatarURL,
		VIP:        session.VIP,
	}
}
