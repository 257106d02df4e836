package domain

import "github.com/shopspring/decimal"

// Stats is the portfolio-level profit/loss summary of a set of records.
type Stats struct {
	TotalInvestment decimal.Decimal
	TotalReturn     decimal.Decimal
	TotalFees       decimal.Decimal
	NetProfitLoss   decimal.Decimal
	TradeCount      int
}

// Summarize aggregates records. Fees are deducted once at portfolio level,
// regardless of transaction type. An empty input yields all-zero stats.
func Summarize(records []TradingRecord) Stats {
	investment := decimal.Zero
	proceeds := decimal.Zero
	fees := decimal.Zero

	for _, r := range records {
		switch r.TransactionType {
		case TransactionBuy:
			investment = investment.Add(r.Gross())
		case TransactionSell:
			proceeds = proceeds.Add(r.Gross())
		}
		fees = fees.Add(r.Fees())
	}

	return Stats{
		TotalInvestment: investment,
		TotalReturn:     proceeds,
		TotalFees:       fees,
		NetProfitLoss:   proceeds.Sub(investment).Sub(fees),
		TradeCount:      len(records),
	}
}
