package apikeyrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, key *domain.APIKey) (*domain.APIKey, error) {
	query := `
        INSERT INTO api_keys (user_id, key_prefix, key_hash, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, key_prefix, key_hash, status, last_used_at, created_at
    `
	row := r.db.QueryRow(ctx, query, key.UserID, key.KeyPrefix, key.KeyHash, key.Status)
	var created domain.APIKey
	err := row.Scan(
		&created.ID,
		&created.UserID,
		&created.KeyPrefix,
		&created.KeyHash,
		&created.Status,
		&created.LastUsedAt,
		&created.CreatedAt,
	)
	if err != nil {
		zap.L().Error("failed to create api key", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (r *Repository) GetByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	query := `
        SELECT id, user_id, key_prefix, key_hash, status, last_used_at, created_at
        FROM api_keys
        WHERE key_prefix = $1
    `
	row := r.db.QueryRow(ctx, query, prefix)
	var key domain.APIKey
	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.KeyPrefix,
		&key.KeyHash,
		&key.Status,
		&key.LastUsedAt,
		&key.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get api key", zap.Error(err))
		return nil, err
	}
	return &key, nil
}

func (r *Repository) Revoke(ctx context.Context, prefix string) (bool, error) {
	query := `
        UPDATE api_keys
        SET status = $2
        WHERE key_prefix = $1 AND status = $3
    `
	tag, err := r.db.Exec(ctx, query, prefix, domain.APIKeyStatusRevoked, domain.APIKeyStatusActive)
	if err != nil {
		zap.L().Error("failed to revoke api key", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) TouchLastUsed(ctx context.Context, id int) error {
	query := `
        UPDATE api_keys
        SET last_used_at = now()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	return err
}
