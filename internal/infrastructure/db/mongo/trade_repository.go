package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

const collectionTradingRecords = "trading_records"

// TradeRepository stores trading records. Every owner-facing query carries a
// user_id predicate, which is what keeps one user's rows invisible to another.
type TradeRepository struct {
	col *mongo.Collection
}

func NewTradeRepository(db *mongo.Database) *TradeRepository {
	return &TradeRepository{col: db.Collection(collectionTradingRecords)}
}

type tradeDocument struct {
	ID              string               `bson:"_id"`
	UserID          string               `bson:"user_id"`
	TradeDate       time.Time            `bson:"trade_date"`
	StockSymbol     string               `bson:"stock_symbol"`
	StockName       string               `bson:"stock_name,omitempty"`
	TransactionType string               `bson:"transaction_type"`
	Quantity        int64                `bson:"quantity"`
	Price           primitive.Decimal128 `bson:"price"`
	Commission      primitive.Decimal128 `bson:"commission"`
	Tax             primitive.Decimal128 `bson:"tax"`
	Notes           string               `bson:"notes,omitempty"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

// List returns every record of ownerID ordered by trade date, newest first.
func (r *TradeRepository) List(ctx context.Context, ownerID string) ([]domain.TradingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "trade_date", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []tradeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.TradingRecord, 0, len(docs))
	for _, d := range docs {
		rec, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *TradeRepository) Get(ctx context.Context, ownerID, id string) (*domain.TradingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d tradeDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": ownerID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	rec, err := d.toDomain()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new record document.
func (r *TradeRepository) Create(ctx context.Context, rec *domain.TradingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTradeDocument(rec)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, doc)
	return err
}

// Update rewrites the mutable fields of the record owned by rec.UserID.
func (r *TradeRepository) Update(ctx context.Context, rec *domain.TradingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTradeDocument(rec)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"trade_date":       doc.TradeDate,
		"stock_symbol":     doc.StockSymbol,
		"stock_name":       doc.StockName,
		"transaction_type": doc.TransactionType,
		"quantity":         doc.Quantity,
		"price":            doc.Price,
		"commission":       doc.Commission,
		"tax":              doc.Tax,
		"notes":            doc.Notes,
		"updated_at":       doc.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": rec.ID, "user_id": rec.UserID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *TradeRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of records across all owners without fetching them.
func (r *TradeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates necessary indexes on the trading_records collection.
func (r *TradeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "trade_date", Value: -1}, {Key: "created_at", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("trading_records indexes: %w", err)
	}
	return nil
}

func toTradeDocument(rec *domain.TradingRecord) (tradeDocument, error) {
	price, err := toDecimal128(rec.Price)
	if err != nil {
		return tradeDocument{}, fmt.Errorf("price: %w", err)
	}
	commission, err := toDecimal128(rec.Commission)
	if err != nil {
		return tradeDocument{}, fmt.Errorf("commission: %w", err)
	}
	tax, err := toDecimal128(rec.Tax)
	if err != nil {
		return tradeDocument{}, fmt.Errorf("tax: %w", err)
	}

	return tradeDocument{
		ID:              rec.ID,
		UserID:          rec.UserID,
		TradeDate:       rec.TradeDate.UTC(),
		StockSymbol:     rec.StockSymbol,
		StockName:       rec.StockName,
		TransactionType: string(rec.TransactionType),
		Quantity:        rec.Quantity,
		Price:           price,
		Commission:      commission,
		Tax:             tax,
		Notes:           rec.Notes,
		CreatedAt:       rec.CreatedAt.UTC(),
		UpdatedAt:       rec.UpdatedAt.UTC(),
	}, nil
}

func (d tradeDocument) toDomain() (domain.TradingRecord, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.TradingRecord{}, fmt.Errorf("record %s price: %w", d.ID, err)
	}
	commission, err := fromDecimal128(d.Commission)
	if err != nil {
		return domain.TradingRecord{}, fmt.Errorf("record %s commission: %w", d.ID, err)
	}
	tax, err := fromDecimal128(d.Tax)
	if err != nil {
		return domain.TradingRecord{}, fmt.Errorf("record %s tax: %w", d.ID, err)
	}

	return domain.TradingRecord{
		ID:              d.ID,
		UserID:          d.UserID,
		TradeDate:       d.TradeDate.UTC(),
		StockSymbol:     d.StockSymbol,
		StockName:       d.StockName,
		TransactionType: domain.TransactionType(d.TransactionType),
		Quantity:        d.Quantity,
		Price:           price,
		Commission:      commission,
		Tax:             tax,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}
