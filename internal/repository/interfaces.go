// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskboard/internal/model"
)

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// DonorRepository は支援者レコードの永続化インターフェース。
type DonorRepository interface {
	// FindByIdentityID は指定identityの支援者レコードを取得する。
	// 見つからない場合はnilを返す。
	FindByIdentityID(ctx context.Context, identityID string) (*model.DonorRecord, error)

	// Upsert は支援者レコードをキー上書きでUPSERTする。
	// 決済成功のたびにlast_donateが更新される。冪等性の保証はキー上書きのみ。
	Upsert(ctx context.Context, record *model.DonorRecord) error

	// ListAll は全支援者レコードをlast_donate降順で返す。
	ListAll(ctx context.Context) ([]*model.DonorRecord, error)
}

// TaskRepository はタスクデータの永続化インターフェース。
type TaskRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// ListByOwnerID は所有者のタスク一覧をcreated_at昇順で返す。
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// UpdateName は指定IDのタスク名のみを更新する。
	// idとcreated_atは変更されない。
	UpdateName(ctx context.Context, id, taskName string) error

	// DeleteByID は指定IDのタスクを削除する。
	DeleteByID(ctx context.Context, id string) error
}
