package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskboard/internal/model"
)

// PostgresDonorRepo はPostgreSQLを使用した支援者リポジトリ。
type PostgresDonorRepo struct {
	db *sql.DB
}

// NewPostgresDonorRepo はPostgresDonorRepoを生成する。
func NewPostgresDonorRepo(db *sql.DB) *PostgresDonorRepo {
	return &PostgresDonorRepo{db: db}
}

// FindByIdentityID は指定identityの支援者レコードを取得する。見つからない場合はnilを返す。
func (r *PostgresDonorRepo) FindByIdentityID(ctx context.Context, identityID string) (*model.DonorRecord, error) {
	record := &model.DonorRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT identity_id, donated, last_donate, avatar_url, updated_at
		 FROM donors WHERE identity_id = $1`,
		identityID,
	).Scan(&record.IdentityID, &record.Donated, &record.LastDonate, &record.AvatarURL, &record.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find donor record: %w", err)
	}

	return record, nil
}

// Upsert は支援者レコードをキー上書きでUPSERTする。
func (r *PostgresDonorRepo) Upsert(ctx context.Context, record *model.DonorRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO donors (identity_id, donated, last_donate, avatar_url, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (identity_id) DO UPDATE SET
		   donated = EXCLUDED.donated,
		   last_donate = EXCLUDED.last_donate,
		   avatar_url = EXCLUDED.avatar_url,
		   updated_at = now()`,
		record.IdentityID, record.Donated, record.LastDonate, record.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert donor record: %w", err)
	}
	return nil
}

// ListAll は全支援者レコードをlast_donate降順で返す。
func (r *PostgresDonorRepo) ListAll(ctx context.Context) ([]*model.DonorRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT identity_id, donated, last_donate, avatar_url, updated_at
		 FROM donors ORDER BY last_donate DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list donor records: %w", err)
	}
	defer rows.Close()

	var records []*model.DonorRecord
	for rows.Next() {
		record := &model.DonorRecord{}
		if err := rows.Scan(&record.IdentityID, &record.Donated, &record.LastDonate, &record.AvatarURL, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan donor record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate donor records: %w", err)
	}

	return records, nil
}

// compile-time interface check
var _ DonorRepository = (*PostgresDonorRepo)(nil)
