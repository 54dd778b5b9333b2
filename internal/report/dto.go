package report

import (
	"github.com/tinkrentals/rent-ledger/internal/ledger"
	"github.com/tinkrentals/rent-ledger/pkg/money"
)

// SummaryTotals mirrors the shape the payments dashboard consumes: cent
// values for arithmetic, dollar strings for display, lifetime counts per
// status alongside the windowed totals.
type SummaryTotals struct {
	CurrentMonthTotalCents   int64  `json:"current_month_total_cents"`
	CurrentMonthTotalDollars string `json:"current_month_total_dollars"`
	Last30DaysTotalCents     int64  `json:"last_30_days_total_cents"`
	Last30DaysTotalDollars   string `json:"last_30_days_total_dollars"`
	TotalSuccessfulPayments  int64  `json:"total_successful_payments"`
	PendingPayments          int64  `json:"pending_payments"`
	FailedPayments           int64  `json:"failed_payments"`
}

type Summary struct {
	Summary        SummaryTotals        `json:"summary"`
	RecentPayments []ledger.PaymentView `json:"recent_payments"`
}

func newSummaryTotals(currentMonthCents, last30Cents int64, counts map[string]int64) SummaryTotals {
	return SummaryTotals{
		CurrentMonthTotalCents:   currentMonthCents,
		CurrentMonthTotalDollars: money.Cents(currentMonthCents).Dollars(),
		Last30DaysTotalCents:     last30Cents,
		Last30DaysTotalDollars:   money.Cents(last30Cents).Dollars(),
		TotalSuccessfulPayments:  counts[string(ledger.StatusSucceeded)],
		PendingPayments:          counts[string(ledger.StatusPending)],
		FailedPayments:           counts[string(ledger.StatusFailed)],
	}
}
