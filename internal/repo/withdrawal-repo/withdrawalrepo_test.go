package withdrawalrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pixledger/pixpay/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`INSERT INTO withdrawals (user_id, amount, pix_key_type, pix_key, status) VALUES ($1, $2, $3, $4, $5) RETURNING id, user_id, amount, pix_key_type, pix_key, status, request_date`)
	amount := decimal.RequireFromString("200.00")
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Withdrawal created",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "pix_key_type", "pix_key", "status", "request_date"}).
					AddRow(7, 1, amount, domain.PixKeyTypeEmail, "merchant@example.com", domain.WithdrawalStatusRequested, now)
				mock.ExpectQuery(query).
					WithArgs(1, amount, domain.PixKeyTypeEmail, "merchant@example.com", domain.WithdrawalStatusRequested).
					WillReturnRows(rows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, amount, domain.PixKeyTypeEmail, "merchant@example.com", domain.WithdrawalStatusRequested).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			created, err := repo.Create(context.Background(), &domain.Withdrawal{
				UserID:     1,
				Amount:     amount,
				PixKeyType: domain.PixKeyTypeEmail,
				PixKey:     "merchant@example.com",
				Status:     domain.WithdrawalStatusRequested,
			})

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, created.ID)
				assert.Equal(t, domain.WithdrawalStatusRequested, created.Status)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`SELECT id, user_id, amount, pix_key_type, pix_key, status, request_date FROM withdrawals WHERE id = $1`)
	amount := decimal.RequireFromString("200.00")
	now := time.Now()

	tests := []struct {
		name      string
		id        int
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name: "Existing withdrawal",
			id:   7,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "pix_key_type", "pix_key", "status", "request_date"}).
					AddRow(7, 1, amount, domain.PixKeyTypeEmail, "merchant@example.com", domain.WithdrawalStatusRequested, now)
				mock.ExpectQuery(query).WithArgs(7).WillReturnRows(rows)
			},
			found: true,
		},
		{
			name: "Unknown withdrawal returns nil",
			id:   99,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(99).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			id:   7,
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(7).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			withdrawal, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectErr {
				assert.Error(t, err)
			} else if tt.found {
				assert.NoError(t, err)
				assert.Equal(t, 7, withdrawal.ID)
			} else {
				assert.NoError(t, err)
				assert.Nil(t, withdrawal)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Transition(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`UPDATE withdrawals SET status = $3 WHERE id = $1 AND status = $2`)

	tests := []struct {
		name      string
		mockSetup func()
		moved     bool
		expectErr bool
	}{
		{
			name: "Transition applied",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, domain.WithdrawalStatusRequested, domain.WithdrawalStatusApproved).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			moved: true,
		},
		{
			name: "Concurrent decision wins the race",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, domain.WithdrawalStatusRequested, domain.WithdrawalStatusApproved).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			moved: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, domain.WithdrawalStatusRequested, domain.WithdrawalStatusApproved).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			moved, err := repo.Transition(context.Background(), 7,
				domain.WithdrawalStatusRequested, domain.WithdrawalStatusApproved)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.moved, moved)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByUserID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`SELECT id, user_id, amount, pix_key_type, pix_key, status, request_date FROM withdrawals WHERE user_id = $1 ORDER BY request_date DESC`)
	amount := decimal.RequireFromString("200.00")
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		count     int
		expectErr bool
	}{
		{
			name: "Withdrawals returned newest first",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "pix_key_type", "pix_key", "status", "request_date"}).
					AddRow(8, 1, amount, domain.PixKeyTypePhone, "+5511999990000", domain.WithdrawalStatusRequested, now).
					AddRow(7, 1, amount, domain.PixKeyTypeEmail, "merchant@example.com", domain.WithdrawalStatusApproved, now.Add(-time.Hour))
				mock.ExpectQuery(query).WithArgs(1).WillReturnRows(rows)
			},
			count: 2,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			withdrawals, err := repo.GetByUserID(context.Background(), 1)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, withdrawals, tt.count)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
