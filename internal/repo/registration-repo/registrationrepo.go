package registrationrepo

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

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.WebhookRegistration, error) {
	query := `
        SELECT id, user_id, url, secret, created_at
        FROM webhook_registrations
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var registration domain.WebhookRegistration
	err := row.Scan(
		&registration.ID,
		&registration.UserID,
		&registration.URL,
		&registration.Secret,
		&registration.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get webhook registration", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return &registration, nil
}
