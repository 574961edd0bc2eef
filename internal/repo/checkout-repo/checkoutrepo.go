package checkoutrepo

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

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Checkout, error) {
	query := `
        SELECT id, user_id, description, created_at
        FROM checkouts
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var checkout domain.Checkout
	err := row.Scan(&checkout.ID, &checkout.UserID, &checkout.Description, &checkout.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get checkout", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return &checkout, nil
}
