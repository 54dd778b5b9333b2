package ledger

import (
	"encoding/json"
	"time"

	paymentDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/payment"
)

// Status is the payment attempt lifecycle. Pending is the only
// non-terminal state; succeeded and failed are frozen once reached.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next. Only pending -> succeeded and pending -> failed exist.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.Terminal()
}

// Payment is one attempt to collect rent for a billing period. Monetary
// fields are immutable after creation; a wrong attempt is corrected by
// recording a new one, never by editing history.
type Payment struct {
	ID                int64           `json:"id"`
	ExternalReference string          `json:"external_reference"`
	LandlordID        int64           `json:"landlord_id"`
	TenantID          int64           `json:"tenant_id"`
	LeaseID           int64           `json:"lease_id"`
	PropertyID        int64           `json:"property_id"`
	AmountCents       int64           `json:"amount_cents"`
	FeeCents          int64           `json:"fee_cents"`
	NetAmountCents    int64           `json:"net_amount_cents"`
	Status            Status          `json:"status"`
	RentPeriodStart   time.Time       `json:"rent_period_start"`
	RentPeriodEnd     time.Time       `json:"rent_period_end"`
	DueDate           time.Time       `json:"due_date"`
	AttemptedAt       time.Time       `json:"attempted_at"`
	Description       string          `json:"description,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (p *Payment) Resolved() bool {
	return p.Status.Terminal()
}

func ToDataModel(p *Payment) *paymentDatamodel.Payment {
	return &paymentDatamodel.Payment{
		ID:                p.ID,
		ExternalReference: p.ExternalReference,
		LandlordID:        p.LandlordID,
		TenantID:          p.TenantID,
		LeaseID:           p.LeaseID,
		PropertyID:        p.PropertyID,
		AmountCents:       p.AmountCents,
		FeeCents:          p.FeeCents,
		NetAmountCents:    p.NetAmountCents,
		Status:            string(p.Status),
		RentPeriodStart:   p.RentPeriodStart,
		RentPeriodEnd:     p.RentPeriodEnd,
		DueDate:           p.DueDate,
		AttemptedAt:       p.AttemptedAt,
		Description:       p.Description,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func FromDataModel(p *paymentDatamodel.Payment) *Payment {
	return &Payment{
		ID:                p.ID,
		ExternalReference: p.ExternalReference,
		LandlordID:        p.LandlordID,
		TenantID:          p.TenantID,
		LeaseID:           p.LeaseID,
		PropertyID:        p.PropertyID,
		AmountCents:       p.AmountCents,
		FeeCents:          p.FeeCents,
		NetAmountCents:    p.NetAmountCents,
		Status:            Status(p.Status),
		RentPeriodStart:   p.RentPeriodStart,
		RentPeriodEnd:     p.RentPeriodEnd,
		DueDate:           p.DueDate,
		AttemptedAt:       p.AttemptedAt,
		Description:       p.Description,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func FromDataModelSlice(payments []*paymentDatamodel.Payment) []*Payment {
	result := make([]*Payment, len(payments))
	for i, p := range payments {
		result[i] = FromDataModel(p)
	}
	return result
}
