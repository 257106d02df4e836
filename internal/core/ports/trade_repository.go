package ports

import (
	"context"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

// TradeRepository persists trading records. Every owner-facing method is
// scoped to ownerID: a record belonging to another user behaves exactly like
// a missing one.
type TradeRepository interface {
	// List returns every record of ownerID, newest trade date first.
	List(ctx context.Context, ownerID string) ([]domain.TradingRecord, error)
	Get(ctx context.Context, ownerID, id string) (*domain.TradingRecord, error)
	Create(ctx context.Context, r *domain.TradingRecord) error
	// Update replaces the mutable fields of the record matching r.ID and
	// r.UserID. It returns domain.ErrRecordNotFound when nothing matched.
	Update(ctx context.Context, r *domain.TradingRecord) error
	Delete(ctx context.Context, ownerID, id string) error
	// Count returns the number of records across all owners.
	Count(ctx context.Context) (int64, error)
}
