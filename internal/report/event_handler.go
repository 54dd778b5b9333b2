package report

import (
	"context"
	"log/slog"

	"github.com/tinkrentals/rent-ledger/internal/core/events"
	"github.com/tinkrentals/rent-ledger/pkg/money"
)

// SettlementListener turns ledger settlement events into an audit trail in
// the logs. It is the reporting side's ear on the event bus.
type SettlementListener struct {
	logger *slog.Logger
}

func NewSettlementListener(logger *slog.Logger) *SettlementListener {
	return &SettlementListener{logger: logger}
}

func (l *SettlementListener) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypePaymentSucceeded, l.handleSucceeded)
	bus.Subscribe(events.EventTypePaymentFailed, l.handleFailed)
}

func (l *SettlementListener) handleSucceeded(_ context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentSucceededEvent)
	if !ok {
		l.logger.Warn("unexpected payload for succeeded settlement", "event_id", event.EventID())
		return nil
	}

	l.logger.Info("rent payment settled",
		"payment_id", e.PaymentID,
		"landlord_id", e.LandlordID,
		"amount_dollars", money.Cents(e.AmountCents).Dollars(),
		"net_dollars", money.Cents(e.NetAmountCents).Dollars())
	return nil
}

func (l *SettlementListener) handleFailed(_ context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentFailedEvent)
	if !ok {
		l.logger.Warn("unexpected payload for failed settlement", "event_id", event.EventID())
		return nil
	}

	l.logger.Warn("rent payment failed",
		"payment_id", e.PaymentID,
		"landlord_id", e.LandlordID,
		"lease_id", e.LeaseID)
	return nil
}
