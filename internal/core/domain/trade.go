package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a trade.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionBuy || t == TransactionSell
}

// DateLayout is the calendar-date format used for trade dates on the wire.
const DateLayout = "2006-01-02"

// TradingRecord is a single stock transaction owned by one user.
type TradingRecord struct {
	ID              string
	UserID          string
	TradeDate       time.Time
	StockSymbol     string
	StockName       string
	TransactionType TransactionType
	Quantity        int64
	Price           decimal.Decimal
	Commission      decimal.Decimal
	Tax             decimal.Decimal
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Gross returns quantity × price, without fees.
func (r TradingRecord) Gross() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(r.Quantity))
}

// Fees returns commission + tax.
func (r TradingRecord) Fees() decimal.Decimal {
	return r.Commission.Add(r.Tax)
}

// DisplayAmount is the signed per-row amount shown next to a record: the
// cost of a buy is negative, the proceeds of a sell positive. Fees are added
// to the gross amount in both directions.
func (r TradingRecord) DisplayAmount() decimal.Decimal {
	amount := r.Gross().Add(r.Fees())
	if r.TransactionType == TransactionBuy {
		return amount.Neg()
	}
	return amount
}

// TradeFields are the user-editable fields of a TradingRecord.
type TradeFields struct {
	TradeDate       time.Time
	StockSymbol     string
	StockName       string
	TransactionType TransactionType
	Quantity        int64
	Price           decimal.Decimal
	Commission      decimal.Decimal
	Tax             decimal.Decimal
	Notes           string
}

// Normalize trims text fields and upper-cases the ticker. The trade date is
// truncated to a UTC calendar day.
func (f TradeFields) Normalize() TradeFields {
	f.StockSymbol = strings.ToUpper(strings.TrimSpace(f.StockSymbol))
	f.StockName = strings.TrimSpace(f.StockName)
	f.Notes = strings.TrimSpace(f.Notes)
	f.TransactionType = TransactionType(strings.ToLower(strings.TrimSpace(string(f.TransactionType))))
	if !f.TradeDate.IsZero() {
		y, m, d := f.TradeDate.Date()
		f.TradeDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return f
}

// Validate checks the field constraints shared by create and update.
func (f TradeFields) Validate() error {
	switch {
	case f.TradeDate.IsZero():
		return &ValidationError{Field: "trade_date", Reason: "is required"}
	case f.StockSymbol == "":
		return &ValidationError{Field: "stock_symbol", Reason: "is required"}
	case !f.TransactionType.Valid():
		return &ValidationError{Field: "transaction_type", Reason: "must be one of: buy sell"}
	case f.Quantity <= 0:
		return &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	case f.Price.IsNegative():
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	case f.Commission.IsNegative():
		return &ValidationError{Field: "commission", Reason: "must not be negative"}
	case f.Tax.IsNegative():
		return &ValidationError{Field: "tax", Reason: "must not be negative"}
	}
	for _, m := range []struct {
		field string
		value decimal.Decimal
	}{{"price", f.Price}, {"commission", f.Commission}, {"tax", f.Tax}} {
		if !storable(m.value) {
			return &ValidationError{Field: m.field, Reason: fmt.Sprintf("must have at most %d significant digits", MaxSignificantDigits)}
		}
	}
	return nil
}

// MaxSignificantDigits is the precision of the store's decimal type
// (IEEE 754 decimal128).
const MaxSignificantDigits = 34

const (
	minStoredExponent = -6176
	maxStoredExponent = 6111
)

// storable reports whether d fits a decimal128 without rounding.
func storable(d decimal.Decimal) bool {
	coef := d.Coefficient()
	coef.Abs(coef)
	digits := coef.String()
	if digits == "0" {
		return true
	}
	exp := int(d.Exponent())
	trimmed := strings.TrimRight(digits, "0")
	exp += len(digits) - len(trimmed)
	if len(trimmed) > MaxSignificantDigits || exp < minStoredExponent {
		return false
	}
	// A large exponent can be clamped while the coefficient has room for
	// the extra zeros.
	return exp-(MaxSignificantDigits-len(trimmed)) <= maxStoredExponent
}

// Apply copies f onto r. Identity, ownership and timestamps are untouched.
func (f TradeFields) Apply(r *TradingRecord) {
	r.TradeDate = f.TradeDate
	r.StockSymbol = f.StockSymbol
	r.StockName = f.StockName
	r.TransactionType = f.TransactionType
	r.Quantity = f.Quantity
	r.Price = f.Price
	r.Commission = f.Commission
	r.Tax = f.Tax
	r.Notes = f.Notes
}
