package settingsrepo

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

// GetByUserID returns nil when the merchant has no settings row; the fee
// defaults from config apply then.
func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.Settings, error) {
	query := `
        SELECT user_id, deposit_fee_percent, withdrawal_fee_percent
        FROM settings
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var settings domain.Settings
	err := row.Scan(&settings.UserID, &settings.DepositFeePercent, &settings.WithdrawalFeePercent)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get settings", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	return &settings, nil
}
