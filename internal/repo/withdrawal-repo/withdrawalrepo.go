package withdrawalrepo

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

func (r *Repository) Create(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error) {
	query := `
        INSERT INTO withdrawals (user_id, amount, pix_key_type, pix_key, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, user_id, amount, pix_key_type, pix_key, status, request_date
    `
	row := r.db.QueryRow(ctx, query,
		withdrawal.UserID,
		withdrawal.Amount,
		withdrawal.PixKeyType,
		withdrawal.PixKey,
		withdrawal.Status,
	)
	var created domain.Withdrawal
	err := row.Scan(
		&created.ID,
		&created.UserID,
		&created.Amount,
		&created.PixKeyType,
		&created.PixKey,
		&created.Status,
		&created.RequestDate,
	)
	if err != nil {
		zap.L().Error("failed to create withdrawal", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Withdrawal, error) {
	query := `
        SELECT id, user_id, amount, pix_key_type, pix_key, status, request_date
        FROM withdrawals
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var withdrawal domain.Withdrawal
	err := row.Scan(
		&withdrawal.ID,
		&withdrawal.UserID,
		&withdrawal.Amount,
		&withdrawal.PixKeyType,
		&withdrawal.PixKey,
		&withdrawal.Status,
		&withdrawal.RequestDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get withdrawal", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return &withdrawal, nil
}

// Transition moves a withdrawal out of requested. The status guard decides
// races between concurrent approvals: exactly one caller sees a row
// affected, the loser gets false and reports a conflict.
func (r *Repository) Transition(ctx context.Context, id int, from, to string) (bool, error) {
	query := `
        UPDATE withdrawals
        SET status = $3
        WHERE id = $1 AND status = $2
    `
	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		zap.L().Error("failed to transition withdrawal", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	query := `
        SELECT id, user_id, amount, pix_key_type, pix_key, status, request_date
        FROM withdrawals
        WHERE user_id = $1
        ORDER BY request_date DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var withdrawal domain.Withdrawal
		err := rows.Scan(
			&withdrawal.ID,
			&withdrawal.UserID,
			&withdrawal.Amount,
			&withdrawal.PixKeyType,
			&withdrawal.PixKey,
			&withdrawal.Status,
			&withdrawal.RequestDate,
		)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}
	return withdrawals, rows.Err()
}
