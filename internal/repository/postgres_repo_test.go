package repository

import (
	"testing"
)

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// PostgresDonorRepoはDonorRepositoryインターフェースを満たすことを検証
func TestPostgresDonorRepo_ImplementsInterface(t *testing.T) {
	var _ DonorRepository = (*PostgresDonorRepo)(nil)
}

// PostgresTaskRepoはTaskRepositoryインターフェースを満たすことを検証
func TestPostgresTaskRepo_ImplementsInterface(t *testing.T) {
	var _ TaskRepository = (*PostgresTaskRepo)(nil)
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresDonorRepoが正しく初期化されることを検証
func TestNewPostgresDonorRepo_Initializes(t *testing.T) {
	repo := NewPostgresDonorRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresTaskRepoが正しく初期化されることを検証
func TestNewPostgresTaskRepo_Initializes(t *testing.T) {
	repo := NewPostgresTaskRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
