package payment

import (
	"encoding/json"
	"time"
)

const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Payment is one attempt to collect rent for a period. Monetary columns
// are integer cents; net_amount_cents must always equal
// amount_cents - fee_cents. The (landlord_id, external_reference) pair is
// the idempotency key for retried creates.
type Payment struct {
	ID                int64           `gorm:"primaryKey"`
	ExternalReference string          `gorm:"column:external_reference;not null;uniqueIndex:idx_payments_landlord_reference,priority:2"`
	LandlordID        int64           `gorm:"column:landlord_id;not null;uniqueIndex:idx_payments_landlord_reference,priority:1;index"`
	TenantID          int64           `gorm:"column:tenant_id;not null"`
	LeaseID           int64           `gorm:"column:lease_id;not null;index"`
	PropertyID        int64           `gorm:"column:property_id;not null"`
	AmountCents       int64           `gorm:"column:amount_cents;not null"`
	FeeCents          int64           `gorm:"column:fee_cents;not null"`
	NetAmountCents    int64           `gorm:"column:net_amount_cents;not null"`
	Status            string          `gorm:"column:status;default:pending"`
	RentPeriodStart   time.Time       `gorm:"column:rent_period_start;type:date"`
	RentPeriodEnd     time.Time       `gorm:"column:rent_period_end;type:date"`
	DueDate           time.Time       `gorm:"column:due_date;type:date"`
	AttemptedAt       time.Time       `gorm:"column:attempted_at;not null"`
	Description       string          `gorm:"column:description"`
	Metadata          json.RawMessage `gorm:"column:metadata;type:jsonb"`
	CreatedAt         time.Time       `gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;default:now()"`
}

func (Payment) TableName() string {
	return "payments"
}
