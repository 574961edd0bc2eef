package apikeyservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/pkg/auth"
)

type APIKeyRepo interface {
	Create(ctx context.Context, key *domain.APIKey) (*domain.APIKey, error)
	GetByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error)
	Revoke(ctx context.Context, prefix string) (bool, error)
	TouchLastUsed(ctx context.Context, id int) error
}

// ErrInvalidKey covers every authentication failure. Malformed tokens,
// unknown prefixes, revoked keys and hash mismatches are indistinguishable
// to the caller.
var (
	ErrInvalidKey  = errors.New("invalid api key")
	ErrKeyNotFound = errors.New("api key not found")
)

type Service struct {
	apiKeyRepo APIKeyRepo
	tokens     auth.APIKeyServiceInterface
}

func New(apiKeyRepo APIKeyRepo, tokens auth.APIKeyServiceInterface) *Service {
	return &Service{apiKeyRepo: apiKeyRepo, tokens: tokens}
}

// Authenticate resolves a bearer token to the owning merchant. The prefix
// narrows the lookup to one row, the bcrypt comparison decides. Last use is
// recorded off the request path so a slow write never delays the caller.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.APIKey, error) {
	prefix, err := s.tokens.ParsePrefix(token)
	if err != nil {
		return nil, ErrInvalidKey
	}

	key, err := s.apiKeyRepo.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if key == nil || key.Status != domain.APIKeyStatusActive {
		return nil, ErrInvalidKey
	}
	if !s.tokens.CompareToken(key.KeyHash, token) {
		return nil, ErrInvalidKey
	}

	go func(id int) {
		if err := s.apiKeyRepo.TouchLastUsed(context.Background(), id); err != nil {
			zap.L().Warn("failed to record api key use", zap.Int("keyID", id), zap.Error(err))
		}
	}(key.ID)

	return key, nil
}

// Issue mints a key for the merchant and returns the plaintext token once.
func (s *Service) Issue(ctx context.Context, userID int) (*domain.APIKey, string, error) {
	token, prefix, err := s.tokens.GenerateToken()
	if err != nil {
		return nil, "", err
	}
	hash, err := s.tokens.HashToken(token)
	if err != nil {
		return nil, "", err
	}

	key, err := s.apiKeyRepo.Create(ctx, &domain.APIKey{
		UserID:    userID,
		KeyPrefix: prefix,
		KeyHash:   hash,
		Status:    domain.APIKeyStatusActive,
	})
	if err != nil {
		return nil, "", err
	}

	zap.L().Info("api key issued", zap.Int("userID", userID), zap.String("prefix", prefix))
	return key, token, nil
}

func (s *Service) Revoke(ctx context.Context, prefix string) error {
	revoked, err := s.apiKeyRepo.Revoke(ctx, prefix)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrKeyNotFound
	}
	zap.L().Info("api key revoked", zap.String("prefix", prefix))
	return nil
}
