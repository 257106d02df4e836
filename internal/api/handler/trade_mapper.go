package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

// --- Request → domain ---

func toTradeFields(req recordRequest) (domain.TradeFields, error) {
	date, err := time.Parse(domain.DateLayout, req.TradeDate)
	if err != nil {
		return domain.TradeFields{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "trade_date must be a date formatted as 2006-01-02")
	}
	return domain.TradeFields{
		TradeDate:       date,
		StockSymbol:     req.StockSymbol,
		StockName:       req.StockName,
		TransactionType: domain.TransactionType(req.TransactionType),
		Quantity:        req.Quantity,
		Price:           orZero(req.Price),
		Commission:      orZero(req.Commission),
		Tax:             orZero(req.Tax),
		Notes:           req.Notes,
	}, nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// --- domain → HTTP response ---

func toRecordResponse(r *domain.TradingRecord) recordResponse {
	return recordResponse{
		ID:              r.ID,
		TradeDate:       r.TradeDate.UTC().Format(domain.DateLayout),
		StockSymbol:     r.StockSymbol,
		StockName:       r.StockName,
		TransactionType: string(r.TransactionType),
		Quantity:        r.Quantity,
		Price:           r.Price,
		Commission:      r.Commission,
		Tax:             r.Tax,
		Notes:           r.Notes,
		DisplayAmount:   r.DisplayAmount(),
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func toRecordListResponse(records []domain.TradingRecord) recordListResponse {
	out := make([]recordResponse, 0, len(records))
	for i := range records {
		out = append(out, toRecordResponse(&records[i]))
	}
	return recordListResponse{Records: out, Count: len(out)}
}

func toSummaryResponse(s domain.Stats) summaryResponse {
	return summaryResponse{
		TotalInvestment: s.TotalInvestment,
		TotalReturn:     s.TotalReturn,
		TotalFees:       s.TotalFees,
		NetProfitLoss:   s.NetProfitLoss,
		TradeCount:      s.TradeCount,
	}
}
