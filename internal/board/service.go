// Package board はタスクボードのドメインロジックを提供する。
package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// TextSanitizer はタスク本文のサニタイズインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はタスク操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordTaskCreated()
	RecordTaskRenamed()
	RecordTaskDeleted()
}

// Service はタスクCRUDのサービス層。
// 所有権とVIPの認可チェックはミューテーション境界であるここで行う
// （UI側の出し分けだけに依存しない）。
type Service struct {
	taskRepo  repository.TaskRepository
	sanitizer TextSanitizer
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil可（テストや計測なし構成用）。
func NewService(taskRepo repository.TaskRepository, sanitizer TextSanitizer, metrics MetricsRecorder) *Service {
	return &Service{
		taskRepo:  taskRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// Load はセッション所有者のタスク一覧をcreated_at昇順で返す。
func (s *Service) Load(ctx context.Context, session *model.Session) ([]*model.Task, error) {
	tasks, err := s.taskRepo.ListByOwnerID(ctx, session.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	return tasks, nil
}

// Get は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (s *Service) Get(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	return task, nil
}

// Add は新しいタスクを作成する。
// 空・空白のみの本文はバリデーションエラーとなり、ストアへの書き込みは行われない。
func (s *Service) Add(ctx context.Context, session *model.Session, text string) (*model.Task, error) {
	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return nil, model.NewEmptyTaskTextError()
	}

	task := &model.Task{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		TaskName:  text,
		OwnerID:   session.IdentityID,
		OwnerName: session.DisplayName,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTaskCreated()
	}

	slog.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("owner_id", task.OwnerID),
	)

	return task, nil
}

// Rename はタスク名を更新する。所有者かつVIPのみが行える。
// idとcreated_atは変更されない。
func (s *Service) Rename(ctx context.Context, session *model.Session, taskID, text string) (*model.Task, error) {
	if !session.VIP {
		return nil, model.NewVIPRequiredError()
	}

	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return nil, model.NewEmptyTaskTextError()
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	if task.OwnerID != session.IdentityID {
		return nil, model.NewNotTaskOwnerError()
	}

	if err := s.taskRepo.UpdateName(ctx, taskID, text); err != nil {
		return nil, fmt.Errorf("タスク名の更新に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTaskRenamed()
	}

	slog.Info("task renamed",
		slog.String("task_id", taskID),
		slog.String("owner_id", session.IdentityID),
	)

	task.TaskName = text
	return task, nil
}

// Delete はタスクを削除する。VIPにかかわらず所有者のみが行える。
func (s *Service) Delete(ctx context.Context, session *model.Session, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		// 既に存在しないタスクの削除はno-op
		return nil
	}
	if task.OwnerID != session.IdentityID {
		return model.NewNotTaskOwnerError()
	}

	if err := s.taskRepo.DeleteByID(ctx, taskID); err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTaskDeleted()
	}

	slog.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("owner_id", session.IdentityID),
	)

	return nil
}
