package auth

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenPrefixLen = 12

var tokenRe = regexp.MustCompile(`^pix_[a-z0-9]{12}_[a-z0-9]{32}$`)

var ErrMalformedToken = errors.New("malformed api key")

type APIKeyServiceInterface interface {
	GenerateToken() (token, prefix string, err error)
	HashToken(token string) (string, error)
	CompareToken(hash, token string) bool
	ParsePrefix(token string) (string, error)
}

type APIKeyService struct{}

// GenerateToken mints a new bearer token of the form pix_<prefix>_<secret>.
// The prefix is stored in clear for lookup, the full token only as a hash.
func (s *APIKeyService) GenerateToken() (string, string, error) {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenPrefixLen]
	secret := strings.ReplaceAll(uuid.NewString(), "-", "")
	token := "pix_" + prefix + "_" + secret
	return token, prefix, nil
}

func (s *APIKeyService) HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrMalformedToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *APIKeyService) CompareToken(hash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// ParsePrefix validates the token format (length and character class) and
// extracts the public lookup prefix. No information beyond "malformed" is
// returned for bad input.
func (s *APIKeyService) ParsePrefix(token string) (string, error) {
	if !tokenRe.MatchString(token) {
		return "", ErrMalformedToken
	}
	return token[len("pix_") : len("pix_")+tokenPrefixLen], nil
}
