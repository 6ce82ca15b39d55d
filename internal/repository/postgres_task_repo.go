package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskboard/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, task_name, owner_id, owner_name
		 FROM tasks WHERE id = $1`,
		id,
	).Scan(&task.ID, &task.CreatedAt, &task.TaskName, &task.OwnerID, &task.OwnerName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListByOwnerID は所有者のタスク一覧をcreated_at昇順で返す。
func (r *PostgresTaskRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, task_name, owner_id, owner_name
		 FROM tasks
		 WHERE owner_id = $1
		 ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task := &model.Task{}
		if err := rows.Scan(&task.ID, &task.CreatedAt, &task.TaskName, &task.OwnerID, &task.OwnerName); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Create はタスクを作成する。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, created_at, task_name, owner_id, owner_name)
		 VALUES ($1, $2, $3, $4, $5)`,
		task.ID, task.CreatedAt, task.TaskName, task.OwnerID, task.OwnerName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// UpdateName は指定IDのタスク名のみを更新する。idとcreated_atは変更されない。
func (r *PostgresTaskRepo) UpdateName(ctx context.Context, id, taskName string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET task_name = $2 WHERE id = $1`,
		id, taskName,
	)
	if err != nil {
		return fmt.Errorf("failed to update task name: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

// DeleteByID は指定IDのタスクを削除する。
func (r *PostgresTaskRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
