package ports

import (
	"context"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

// CreateRecordInput carries the data needed to create a trading record.
type CreateRecordInput struct {
	OwnerID        string
	Fields         domain.TradeFields
	IdempotencyKey string
}

// RecordResult is returned after a record was created.
type RecordResult struct {
	Record *domain.TradingRecord
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// TradeService defines the owner-scoped use cases over trading records.
type TradeService interface {
	ListRecords(ctx context.Context, ownerID string) ([]domain.TradingRecord, error)
	GetRecord(ctx context.Context, ownerID, id string) (*domain.TradingRecord, error)
	CreateRecord(ctx context.Context, input CreateRecordInput) (*RecordResult, error)
	UpdateRecord(ctx context.Context, ownerID, id string, fields domain.TradeFields) (*domain.TradingRecord, error)
	DeleteRecord(ctx context.Context, ownerID, id string) error
	Summary(ctx context.Context, ownerID string) (domain.Stats, error)
}
