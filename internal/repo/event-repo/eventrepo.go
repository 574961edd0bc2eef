package eventrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

// Claim records the provider event reference. The unique constraint on
// (provider, external_ref) is the tie-breaker between concurrent
// deliveries: exactly one caller gets claimed=true. When the claim is made
// inside a transaction that later rolls back, the reference frees up again
// so a retried delivery can reprocess a failed attempt.
func (r *Repository) Claim(ctx context.Context, provider, externalRef string) (bool, error) {
	query := `
        INSERT INTO webhook_events (provider, external_ref)
        VALUES ($1, $2)
        ON CONFLICT (provider, external_ref) DO NOTHING
    `
	tag, err := r.db.Exec(ctx, query, provider, externalRef)
	if err != nil {
		zap.L().Error("failed to claim webhook event",
			zap.String("provider", provider),
			zap.String("externalRef", externalRef),
			zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
