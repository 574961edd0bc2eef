package apikeyrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
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

	query := regexp.QuoteMeta(`INSERT INTO api_keys (user_id, key_prefix, key_hash, status) VALUES ($1, $2, $3, $4) RETURNING id, user_id, key_prefix, key_hash, status, last_used_at, created_at`)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Key created",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "key_prefix", "key_hash", "status", "last_used_at", "created_at"}).
					AddRow(3, 1, "a1b2c3d4", "$2a$10$hash", domain.APIKeyStatusActive, nil, now)
				mock.ExpectQuery(query).
					WithArgs(1, "a1b2c3d4", "$2a$10$hash", domain.APIKeyStatusActive).
					WillReturnRows(rows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, "a1b2c3d4", "$2a$10$hash", domain.APIKeyStatusActive).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			created, err := repo.Create(context.Background(), &domain.APIKey{
				UserID:    1,
				KeyPrefix: "a1b2c3d4",
				KeyHash:   "$2a$10$hash",
				Status:    domain.APIKeyStatusActive,
			})

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 3, created.ID)
				assert.Nil(t, created.LastUsedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByPrefix(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`SELECT id, user_id, key_prefix, key_hash, status, last_used_at, created_at FROM api_keys WHERE key_prefix = $1`)
	now := time.Now()

	tests := []struct {
		name      string
		prefix    string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name:   "Existing key",
			prefix: "a1b2c3d4",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "key_prefix", "key_hash", "status", "last_used_at", "created_at"}).
					AddRow(3, 1, "a1b2c3d4", "$2a$10$hash", domain.APIKeyStatusActive, &now, now)
				mock.ExpectQuery(query).WithArgs("a1b2c3d4").WillReturnRows(rows)
			},
			found: true,
		},
		{
			name:   "Unknown prefix returns nil",
			prefix: "ffffffff",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("ffffffff").WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:   "Database error",
			prefix: "a1b2c3d4",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("a1b2c3d4").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			key, err := repo.GetByPrefix(context.Background(), tt.prefix)

			if tt.expectErr {
				assert.Error(t, err)
			} else if tt.found {
				assert.NoError(t, err)
				assert.Equal(t, 3, key.ID)
				assert.Equal(t, domain.APIKeyStatusActive, key.Status)
			} else {
				assert.NoError(t, err)
				assert.Nil(t, key)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Revoke(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`UPDATE api_keys SET status = $2 WHERE key_prefix = $1 AND status = $3`)

	tests := []struct {
		name      string
		mockSetup func()
		revoked   bool
		expectErr bool
	}{
		{
			name: "Active key revoked",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs("a1b2c3d4", domain.APIKeyStatusRevoked, domain.APIKeyStatusActive).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			revoked: true,
		},
		{
			name: "Already revoked key untouched",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs("a1b2c3d4", domain.APIKeyStatusRevoked, domain.APIKeyStatusActive).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			revoked: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs("a1b2c3d4", domain.APIKeyStatusRevoked, domain.APIKeyStatusActive).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			revoked, err := repo.Revoke(context.Background(), "a1b2c3d4")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.revoked, revoked)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_TouchLastUsed(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`UPDATE api_keys SET last_used_at = now() WHERE id = $1`)

	mock.ExpectExec(query).
		WithArgs(3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.TouchLastUsed(context.Background(), 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
