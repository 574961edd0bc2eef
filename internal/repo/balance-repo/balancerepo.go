package balancerepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
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

func (r *Repository) GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	query := `
        SELECT id, user_id, amount
        FROM balances
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var balance domain.Balance
	err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user balance", zap.Error(err))
		return nil, err
	}
	return &balance, nil
}

// Credit applies a positive delta as one atomic statement. The balance row
// is created on first credit. Never read-modify-write: concurrent deposits
// for the same merchant would lose updates.
func (r *Repository) Credit(ctx context.Context, userID int, amount decimal.Decimal) error {
	query := `
        INSERT INTO balances (user_id, amount)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET amount = balances.amount + EXCLUDED.amount
    `
	_, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		zap.L().Error("failed to credit balance", zap.Int("userID", userID), zap.Error(err))
		return err
	}
	return nil
}

// Debit applies a negative delta guarded by the sufficiency check in the
// same statement. Returns false with no mutation when funds are short.
func (r *Repository) Debit(ctx context.Context, userID int, amount decimal.Decimal) (bool, error) {
	query := `
        UPDATE balances
        SET amount = amount - $1
        WHERE user_id = $2 AND amount >= $1
    `
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("failed to debit balance", zap.Int("userID", userID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
