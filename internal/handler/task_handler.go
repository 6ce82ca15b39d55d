// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// Load はセッション所有者のタスク一覧を返す。
	Load(ctx context.Context, session *model.Session) ([]*model.Task, error)
	// Add は新しいタスクを作成する。
	Add(ctx context.Context, session *model.Session, text string) (*model.Task, error)
	// Rename はタスク名を更新する。所有者かつVIPのみ。
	Rename(ctx context.Context, session *model.Session, taskID, text string) (*model.Task, error)
	// Delete はタスクを削除する。所有者のみ。
	Delete(ctx context.Context, session *model.Session, taskID string) error
}

// TaskHandler はタスクCRUDのHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	TaskName string `json:"task_name"`
}

// renameTaskRequest はタスク名変更リクエストのボディ。
type renameTaskRequest struct {
	TaskName string `json:"task_name"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	TaskName  string    `json:"task_name"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListTasks はセッション所有者のタスク一覧を返す。
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	tasks, err := h.service.Load(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		results[i] = toTaskResponse(task)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tasks": results})
}

// CreateTask は新しいタスクを作成する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	task, err := h.service.Add(r.Context(), session, req.TaskName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTaskResponse(task))
}

// RenameTask はタスク名を更新する。
// PATCH /api/tasks/{id}
func (h *TaskHandler) RenameTask(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	taskID := chi.URLParam(r, "id")

	var req renameTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	task, err := h.service.Rename(r.Context(), session, taskID, req.TaskName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskResponse(task))
}

// DeleteTask はタスクを削除する。
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	taskID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), session, taskID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toTaskResponse はmodel.TaskからAPIレスポンスに変換する。
func toTaskResponse(task *model.Task) taskResponse {
	return taskResponse{
		ID:        task.ID,
		CreatedAt: task.CreatedAt,
		TaskName:  task.TaskName,
		OwnerID:   task.OwnerID,
		OwnerName: task.OwnerName,
	}
}

// invalidRequestError はJSONボディ解析失敗時のエラー。
func invalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeTaskNotFound:
		return http.StatusNotFound
	case model.ErrCodeNotTaskOwner, model.ErrCodeVIPRequired:
		return http.StatusForbidden
	case model.ErrCodePaymentNotCompleted:
		return http.StatusUnprocessableEntity
	case model.ErrCodeDonationGrantFailed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
