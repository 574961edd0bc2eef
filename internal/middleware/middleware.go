package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/pkg/auth"
	"github.com/pixledger/pixpay/pkg/utils"
)

type ContextKey string

const (
	UserIDKey  ContextKey = "userID"
	AdminIDKey ContextKey = "adminID"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.APIKey, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, identity, endpoint, ip string) (bool, error)
}

// APIKey gates merchant endpoints. It resolves the bearer token to a
// merchant, then charges the request against the redis window. Every
// authentication failure responds 401 with the same body.
func APIKey(keys Authenticator, limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			key, err := keys.Authenticate(r.Context(), token)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			allowed, err := limiter.Allow(r.Context(), key.KeyPrefix, r.URL.Path, clientIP(r))
			if err != nil {
				// A broken limiter store must not take the API down.
				zap.L().Warn("rate limiter unavailable", zap.Error(err))
				allowed = true
			}
			if !allowed {
				utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, key.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminJWT gates the back-office surface with the admin token issuer.
func AdminJWT(jwtService auth.JWTServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
