package apikeyservice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/pkg/auth"
)

func NewMock(t *testing.T) (*Service, *MockAPIKeyRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockAPIKeyRepo(ctrl)
	return New(repo, &auth.APIKeyService{}), repo
}

// issueToken mints a real token/hash pair so authentication runs against
// the same bcrypt comparison production uses.
func issueToken(t *testing.T) (token, prefix, hash string) {
	t.Helper()
	tokens := &auth.APIKeyService{}
	token, prefix, err := tokens.GenerateToken()
	require.NoError(t, err)
	hash, err = tokens.HashToken(token)
	require.NoError(t, err)
	return token, prefix, hash
}

func TestAuthenticate(t *testing.T) {
	token, prefix, hash := issueToken(t)
	activeKey := func() *domain.APIKey {
		return &domain.APIKey{ID: 5, UserID: 1, KeyPrefix: prefix, KeyHash: hash, Status: domain.APIKeyStatusActive}
	}

	t.Run("malformed token never reaches the store", func(t *testing.T) {
		service, _ := NewMock(t)
		key, err := service.Authenticate(context.Background(), "not-a-key")
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.Nil(t, key)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().GetByPrefix(gomock.Any(), prefix).Return(nil, nil)

		key, err := service.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.Nil(t, key)
	})

	t.Run("revoked key", func(t *testing.T) {
		service, repo := NewMock(t)
		revoked := activeKey()
		revoked.Status = domain.APIKeyStatusRevoked
		repo.EXPECT().GetByPrefix(gomock.Any(), prefix).Return(revoked, nil)

		_, err := service.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("wrong secret with a known prefix", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().GetByPrefix(gomock.Any(), prefix).Return(activeKey(), nil)

		forged := "pix_" + prefix + "_" + strings.Repeat("0", 32)
		_, err := service.Authenticate(context.Background(), forged)
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("valid token resolves the merchant and records use", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().GetByPrefix(gomock.Any(), prefix).Return(activeKey(), nil)
		touched := make(chan struct{})
		repo.EXPECT().TouchLastUsed(gomock.Any(), 5).
			DoAndReturn(func(context.Context, int) error {
				close(touched)
				return nil
			})

		key, err := service.Authenticate(context.Background(), token)
		assert.NoError(t, err)
		assert.Equal(t, 1, key.UserID)

		select {
		case <-touched:
		case <-time.After(time.Second):
			t.Fatal("last-used update was not recorded")
		}
	})
}

func TestIssue(t *testing.T) {
	service, repo := NewMock(t)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key *domain.APIKey) (*domain.APIKey, error) {
			assert.Equal(t, domain.APIKeyStatusActive, key.Status)
			assert.Len(t, key.KeyPrefix, 12)
			assert.NotEmpty(t, key.KeyHash)
			key.ID = 5
			return key, nil
		})

	key, token, err := service.Issue(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 5, key.ID)
	assert.True(t, strings.HasPrefix(token, "pix_"+key.KeyPrefix+"_"))
	assert.NotContains(t, key.KeyHash, token)
}

func TestRevoke(t *testing.T) {
	t.Run("revokes an active key", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().Revoke(gomock.Any(), "abc123def456").Return(true, nil)
		assert.NoError(t, service.Revoke(context.Background(), "abc123def456"))
	})

	t.Run("unknown prefix", func(t *testing.T) {
		service, repo := NewMock(t)
		repo.EXPECT().Revoke(gomock.Any(), "abc123def456").Return(false, nil)
		assert.ErrorIs(t, service.Revoke(context.Background(), "abc123def456"), ErrKeyNotFound)
	})
}
