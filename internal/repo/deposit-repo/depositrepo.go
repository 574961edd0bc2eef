package depositrepo

import (
	"context"
	"time"

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

func (r *Repository) Create(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error) {
	query := `
        INSERT INTO deposits (user_id, amount, status, qr_code)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, amount, status, qr_code, created_at
    `
	row := r.db.QueryRow(ctx, query, deposit.UserID, deposit.Amount, deposit.Status, deposit.QRCode)
	var created domain.Deposit
	err := row.Scan(&created.ID, &created.UserID, &created.Amount, &created.Status, &created.QRCode, &created.CreatedAt)
	if err != nil {
		zap.L().Error("failed to create deposit", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Deposit, error) {
	query := `
        SELECT id, user_id, amount, status, qr_code, created_at
        FROM deposits
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var deposit domain.Deposit
	err := row.Scan(&deposit.ID, &deposit.UserID, &deposit.Amount, &deposit.Status, &deposit.QRCode, &deposit.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get deposit", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return &deposit, nil
}

func (r *Repository) SetQRCode(ctx context.Context, id int, qrCode string) error {
	query := `
        UPDATE deposits
        SET qr_code = $2
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id, qrCode)
	if err != nil {
		zap.L().Error("failed to set deposit qr code", zap.Int("id", id), zap.Error(err))
	}
	return err
}

// Transition moves a deposit between lifecycle states. The status guard in
// the WHERE clause makes concurrent transitions race-safe: only one caller
// sees a row affected.
func (r *Repository) Transition(ctx context.Context, id int, from, to string) (bool, error) {
	query := `
        UPDATE deposits
        SET status = $3
        WHERE id = $1 AND status = $2
    `
	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		zap.L().Error("failed to transition deposit", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// FindStaleWaiting returns deposits that have sat in waiting past the
// cutoff, oldest first, for the reconciler to settle or expire.
func (r *Repository) FindStaleWaiting(ctx context.Context, cutoff time.Time, limit int) ([]domain.Deposit, error) {
	query := `
        SELECT id, user_id, amount, status, qr_code, created_at
        FROM deposits
        WHERE status = 'waiting' AND created_at < $1
        ORDER BY created_at
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		zap.L().Error("failed to find stale deposits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		var deposit domain.Deposit
		if err := rows.Scan(&deposit.ID, &deposit.UserID, &deposit.Amount, &deposit.Status, &deposit.QRCode, &deposit.CreatedAt); err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}
	return deposits, rows.Err()
}
