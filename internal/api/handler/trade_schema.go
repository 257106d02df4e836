package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money travels as a JSON string ("12.50"); plain numbers are accepted on input.

type recordRequest struct {
	TradeDate       string           `json:"trade_date"       validate:"required,datetime=2006-01-02"`
	StockSymbol     string           `json:"stock_symbol"     validate:"required,max=16"`
	StockName       string           `json:"stock_name"       validate:"max=100"`
	TransactionType string           `json:"transaction_type" validate:"required"`
	Quantity        int64            `json:"quantity"         validate:"required,gt=0"`
	Price           *decimal.Decimal `json:"price"            validate:"required"`
	Commission      *decimal.Decimal `json:"commission"`
	Tax             *decimal.Decimal `json:"tax"`
	Notes           string           `json:"notes"            validate:"max=1000"`
}

type recordResponse struct {
	ID              string          `json:"id"`
	TradeDate       string          `json:"trade_date"`
	StockSymbol     string          `json:"stock_symbol"`
	StockName       string          `json:"stock_name,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Commission      decimal.Decimal `json:"commission"`
	Tax             decimal.Decimal `json:"tax"`
	Notes           string          `json:"notes,omitempty"`
	DisplayAmount   decimal.Decimal `json:"display_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type recordListResponse struct {
	Records []recordResponse `json:"records"`
	Count   int              `json:"count"`
}

type summaryResponse struct {
	TotalInvestment decimal.Decimal `json:"total_investment"`
	TotalReturn     decimal.Decimal `json:"total_return"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	NetProfitLoss   decimal.Decimal `json:"net_profit_loss"`
	TradeCount      int             `json:"trade_count"`
}
