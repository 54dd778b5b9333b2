package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentRecorded  = "payment.recorded"
	EventTypePaymentSucceeded = "payment.succeeded"
	EventTypePaymentFailed    = "payment.failed"
)

type PaymentRecordedEvent struct {
	BaseEvent
	PaymentID         int64  `json:"payment_id"`
	LandlordID        int64  `json:"landlord_id"`
	LeaseID           int64  `json:"lease_id"`
	ExternalReference string `json:"external_reference"`
	AmountCents       int64  `json:"amount_cents"`
	Status            string `json:"status"`
}

func NewPaymentRecordedEvent(paymentID, landlordID, leaseID int64, externalReference string, amountCents int64, status string) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":         paymentID,
				"landlord_id":        landlordID,
				"lease_id":           leaseID,
				"external_reference": externalReference,
				"amount_cents":       amountCents,
				"status":             status,
			},
		},
		PaymentID:         paymentID,
		LandlordID:        landlordID,
		LeaseID:           leaseID,
		ExternalReference: externalReference,
		AmountCents:       amountCents,
		Status:            status,
	}
}

type PaymentSucceededEvent struct {
	BaseEvent
	PaymentID      int64 `json:"payment_id"`
	LandlordID     int64 `json:"landlord_id"`
	AmountCents    int64 `json:"amount_cents"`
	NetAmountCents int64 `json:"net_amount_cents"`
}

func NewPaymentSucceededEvent(paymentID, landlordID, amountCents, netAmountCents int64) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentSucceeded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":       paymentID,
				"landlord_id":      landlordID,
				"amount_cents":     amountCents,
				"net_amount_cents": netAmountCents,
			},
		},
		PaymentID:      paymentID,
		LandlordID:     landlordID,
		AmountCents:    amountCents,
		NetAmountCents: netAmountCents,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	PaymentID  int64 `json:"payment_id"`
	LandlordID int64 `json:"landlord_id"`
	LeaseID    int64 `json:"lease_id"`
}

func NewPaymentFailedEvent(paymentID, landlordID, leaseID int64) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":  paymentID,
				"landlord_id": landlordID,
				"lease_id":    leaseID,
			},
		},
		PaymentID:  paymentID,
		LandlordID: landlordID,
		LeaseID:    leaseID,
	}
}
