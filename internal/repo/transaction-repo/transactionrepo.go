package transactionrepo

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

func (r *Repository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (code, user_id, type, amount, status, description, reference_type, reference_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, code, user_id, type, amount, status, description, reference_type, reference_id, created_at, updated_at
    `
	row := r.db.QueryRow(ctx, query,
		transaction.Code,
		transaction.UserID,
		transaction.Type,
		transaction.Amount,
		transaction.Status,
		transaction.Description,
		transaction.ReferenceType,
		transaction.ReferenceID,
	)
	var created domain.Transaction
	err := row.Scan(
		&created.ID,
		&created.Code,
		&created.UserID,
		&created.Type,
		&created.Amount,
		&created.Status,
		&created.Description,
		&created.ReferenceType,
		&created.ReferenceID,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		zap.L().Error("failed to create transaction", zap.Error(err))
		return nil, err
	}
	return &created, nil
}

// TransitionByReference mutates the single pending transaction belonging to
// a deposit or withdrawal in place. The row is located by its foreign key,
// never recreated, so the 1:1 relationship with the originating record
// holds and no duplicate ledger entries can appear. Returns 0 when no row
// was in the expected source state.
func (r *Repository) TransitionByReference(ctx context.Context, refType string, refID int, from, to string) (int, error) {
	query := `
        UPDATE transactions
        SET status = $4, updated_at = now()
        WHERE reference_type = $1 AND reference_id = $2 AND status = $3
        RETURNING id
    `
	row := r.db.QueryRow(ctx, query, refType, refID, from, to)
	var id int
	if err := row.Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		zap.L().Error("failed to transition transaction",
			zap.String("refType", refType),
			zap.Int("refID", refID),
			zap.Error(err))
		return 0, err
	}
	return id, nil
}

// SetAmountAndDescription refreshes the pending transaction after fees are
// known, keeping the audit text in step with the credited net amount.
func (r *Repository) SetAmountAndDescription(ctx context.Context, id int, transaction *domain.Transaction) error {
	query := `
        UPDATE transactions
        SET amount = $2, description = $3, updated_at = now()
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id, transaction.Amount, transaction.Description)
	if err != nil {
		zap.L().Error("failed to update transaction amount", zap.Int("id", id), zap.Error(err))
	}
	return err
}

func (r *Repository) GetByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
        SELECT id, code, user_id, type, amount, status, description, reference_type, reference_id, created_at, updated_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to get transactions", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		err := rows.Scan(
			&transaction.ID,
			&transaction.Code,
			&transaction.UserID,
			&transaction.Type,
			&transaction.Amount,
			&transaction.Status,
			&transaction.Description,
			&transaction.ReferenceType,
			&transaction.ReferenceID,
			&transaction.CreatedAt,
			&transaction.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
