package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/tradelog/trading-journal/internal/api/metrics"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// IdempotencyStore binds a create request's key to the record it produces.
// Claim binds key to recordID unless the key is already bound, in which case
// it returns the bound record id and false. Release undoes a claim that still
// points at recordID.
type IdempotencyStore interface {
	Claim(ctx context.Context, ownerID, key, recordID string) (string, bool, error)
	Release(ctx context.Context, ownerID, key, recordID string) error
}

var textPolicy = bluemonday.StrictPolicy()

type TradeService struct {
	repo   ports.TradeRepository
	keys   IdempotencyStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewTradeService returns a TradeService. keys may be nil, in which case
// Idempotency-Key headers are ignored.
func NewTradeService(repo ports.TradeRepository, keys IdempotencyStore, logger zerolog.Logger) *TradeService {
	return &TradeService{
		repo:   repo,
		keys:   keys,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListRecords returns the caller's records, newest trade date first.
func (s *TradeService) ListRecords(ctx context.Context, ownerID string) ([]domain.TradingRecord, error) {
	records, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (s *TradeService) GetRecord(ctx context.Context, ownerID, id string) (*domain.TradingRecord, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// CreateRecord validates and persists a new record owned by input.OwnerID.
// A repeated idempotency key returns the record created the first time; while
// that first request is still running, the repeat gets ErrIdempotencyConflict.
func (s *TradeService) CreateRecord(ctx context.Context, input ports.CreateRecordInput) (*ports.RecordResult, error) {
	fields, err := prepare(input.Fields)
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := &domain.TradingRecord{
		ID:        uuid.NewString(),
		UserID:    input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.Apply(record)

	claimed, existing, err := s.claim(ctx, input.OwnerID, input.IdempotencyKey, record.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.RecordResult{Record: existing, AlreadyExisted: true}, nil
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.OwnerID).Msg("failed to create trading record")
		if claimed {
			s.release(ctx, input.OwnerID, input.IdempotencyKey, record.ID)
		}
		return nil, fmt.Errorf("create record: %w", err)
	}

	metrics.RecordMutationsTotal.WithLabelValues("create", string(record.TransactionType)).Inc()
	s.logger.Info().
		Str("record_id", record.ID).
		Str("user_id", record.UserID).
		Str("symbol", record.StockSymbol).
		Msg("trading record created")

	return &ports.RecordResult{Record: record}, nil
}

// UpdateRecord replaces the editable fields of a record the caller owns.
func (s *TradeService) UpdateRecord(ctx context.Context, ownerID, id string, in domain.TradeFields) (*domain.TradingRecord, error) {
	fields, err := prepare(in)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	fields.Apply(record)
	record.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}

	metrics.RecordMutationsTotal.WithLabelValues("update", string(record.TransactionType)).Inc()
	s.logger.Info().Str("record_id", id).Str("user_id", ownerID).Msg("trading record updated")
	return record, nil
}

// DeleteRecord removes a record. Deleting a missing or foreign id reports
// domain.ErrRecordNotFound.
func (s *TradeService) DeleteRecord(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("delete record: %w", err)
	}

	metrics.RecordMutationsTotal.WithLabelValues("delete", "").Inc()
	s.logger.Info().Str("record_id", id).Str("user_id", ownerID).Msg("trading record deleted")
	return nil
}

// Summary aggregates every record the caller owns.
func (s *TradeService) Summary(ctx context.Context, ownerID string) (domain.Stats, error) {
	records, err := s.ListRecords(ctx, ownerID)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Summarize(records), nil
}

// claim reserves key for recordID before the insert. It reports whether the
// key is now held by recordID, or returns the record an earlier request
// created under the same key. The store being unreachable is not fatal: the
// create proceeds without idempotency.
func (s *TradeService) claim(ctx context.Context, ownerID, key, recordID string) (bool, *domain.TradingRecord, error) {
	if key == "" || s.keys == nil {
		return false, nil, nil
	}

	holder, ok, err := s.keys.Claim(ctx, ownerID, key, recordID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("idempotency claim failed, creating anyway")
		return false, nil, nil
	}
	if ok {
		return true, nil, nil
	}

	existing, err := s.repo.Get(ctx, ownerID, holder)
	if errors.Is(err, domain.ErrRecordNotFound) {
		// The holder has not inserted yet, or its record was deleted since.
		return false, nil, domain.ErrIdempotencyConflict
	}
	if err != nil {
		return false, nil, fmt.Errorf("idempotent replay: %w", err)
	}

	metrics.IdempotentReplaysTotal.Inc()
	s.logger.Info().Str("idempotency_key", key).Str("record_id", holder).Msg("idempotent replay")
	return false, existing, nil
}

func (s *TradeService) release(ctx context.Context, ownerID, key, recordID string) {
	if err := s.keys.Release(context.WithoutCancel(ctx), ownerID, key, recordID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", ownerID).Msg("failed to release idempotency key")
	}
}

// prepare normalises, sanitises and validates user-supplied fields.
func prepare(in domain.TradeFields) (domain.TradeFields, error) {
	f := in.Normalize()
	f.StockName = textPolicy.Sanitize(f.StockName)
	f.Notes = textPolicy.Sanitize(f.Notes)
	if err := f.Validate(); err != nil {
		return domain.TradeFields{}, err
	}
	return f, nil
}
