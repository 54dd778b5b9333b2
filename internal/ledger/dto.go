package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	errors "github.com/tinkrentals/rent-ledger/internal"
	"github.com/tinkrentals/rent-ledger/internal/core/common/validation"
	"github.com/tinkrentals/rent-ledger/pkg/money"
)

// Date is a calendar date serialized as "2006-01-02", the format the
// rental frontend sends for rent periods and due dates.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// RecordAttemptDTO is the request payload for recording a payment attempt.
// The amount may be given either as integer cents or as a major-unit
// decimal string; exactly one of the two must be set. ExternalReference is
// the idempotency key; when absent the ledger generates one.
type RecordAttemptDTO struct {
	ExternalReference string          `json:"external_reference,omitempty"`
	LandlordID        int64           `json:"landlord_id"`
	TenantID          int64           `json:"tenant_id"`
	LeaseID           int64           `json:"lease_id"`
	PropertyID        int64           `json:"property_id"`
	AmountCents       int64           `json:"amount_cents,omitempty"`
	Amount            string          `json:"amount,omitempty"`
	Status            Status          `json:"status,omitempty"`
	RentPeriodStart   Date            `json:"rent_period_start"`
	RentPeriodEnd     Date            `json:"rent_period_end"`
	DueDate           Date            `json:"due_date"`
	Description       string          `json:"description,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
}

// ResolveAmount returns the gross amount in cents from whichever field the
// caller populated.
func (dto RecordAttemptDTO) ResolveAmount() (money.Cents, *errors.AppError) {
	if dto.Amount != "" && dto.AmountCents != 0 {
		return 0, errors.NewValidationFieldError("amount", "specify amount or amount_cents, not both", errors.ErrCodeInvalidAmount)
	}
	if dto.Amount != "" {
		cents, err := money.Parse(dto.Amount)
		if err != nil {
			return 0, errors.NewValidationFieldError("amount", err.Error(), errors.ErrCodeInvalidAmount)
		}
		if cents <= 0 {
			return 0, errors.NewValidationFieldError("amount", "amount must be greater than 0", errors.ErrCodeInvalidAmount)
		}
		return cents, nil
	}
	if dto.AmountCents <= 0 {
		return 0, errors.NewValidationFieldError("amount_cents", "amount must be greater than 0", errors.ErrCodeInvalidAmount)
	}
	return money.Cents(dto.AmountCents), nil
}

// InitialStatus defaults to pending when the caller omits the field.
func (dto RecordAttemptDTO) InitialStatus() Status {
	if dto.Status == "" {
		return StatusPending
	}
	return dto.Status
}

func (dto RecordAttemptDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("landlord_id", dto.LandlordID).Required()
	v.Field("tenant_id", dto.TenantID).Required()
	v.Field("lease_id", dto.LeaseID).Required()
	v.Field("property_id", dto.PropertyID).Required()
	v.Field("rent_period_start", dto.RentPeriodStart.Time).Required()
	v.Field("rent_period_end", dto.RentPeriodEnd.Time).
		Required().
		NotBefore(dto.RentPeriodStart.Time, errors.ErrCodeInvalidPeriod)
	v.Field("due_date", dto.DueDate.Time).Required()
	v.Field("description", dto.Description).MaxLength(500)
	v.Field("status", string(dto.InitialStatus())).Custom(func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && !Status(s).Valid() {
			return errors.NewValidationFieldError("status", fmt.Sprintf("unknown status %q", s), errors.ErrCodeInvalidStatus)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	if _, err := dto.ResolveAmount(); err != nil {
		return err
	}
	return nil
}

// TransitionDTO is the request payload for settling a pending attempt.
type TransitionDTO struct {
	Status Status `json:"status"`
}

// ListFilter narrows ListByLandlord queries. Zero values mean no filter;
// From/To bound attempted_at inclusively.
type ListFilter struct {
	Status Status
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// PaymentView is the reporting representation: every monetary field is
// surfaced both in cents and as a rounded dollar string, because
// downstream consumers render both.
type PaymentView struct {
	ID                int64           `json:"id"`
	ExternalReference string          `json:"external_reference"`
	LandlordID        int64           `json:"landlord_id"`
	TenantID          int64           `json:"tenant_id"`
	LeaseID           int64           `json:"lease_id"`
	PropertyID        int64           `json:"property_id"`
	AmountCents       int64           `json:"amount_cents"`
	AmountDollars     string          `json:"amount_dollars"`
	FeeCents          int64           `json:"fee_cents"`
	FeeDollars        string          `json:"fee_dollars"`
	NetAmountCents    int64           `json:"net_amount_cents"`
	NetAmountDollars  string          `json:"net_amount_dollars"`
	Status            Status          `json:"status"`
	RentPeriodStart   string          `json:"rent_period_start"`
	RentPeriodEnd     string          `json:"rent_period_end"`
	DueDate           string          `json:"due_date"`
	AttemptedAt       time.Time       `json:"attempted_at"`
	Description       string          `json:"description,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func NewPaymentView(p *Payment) PaymentView {
	return PaymentView{
		ID:                p.ID,
		ExternalReference: p.ExternalReference,
		LandlordID:        p.LandlordID,
		TenantID:          p.TenantID,
		LeaseID:           p.LeaseID,
		PropertyID:        p.PropertyID,
		AmountCents:       p.AmountCents,
		AmountDollars:     money.Cents(p.AmountCents).Dollars(),
		FeeCents:          p.FeeCents,
		FeeDollars:        money.Cents(p.FeeCents).Dollars(),
		NetAmountCents:    p.NetAmountCents,
		NetAmountDollars:  money.Cents(p.NetAmountCents).Dollars(),
		Status:            p.Status,
		RentPeriodStart:   p.RentPeriodStart.Format("2006-01-02"),
		RentPeriodEnd:     p.RentPeriodEnd.Format("2006-01-02"),
		DueDate:           p.DueDate.Format("2006-01-02"),
		AttemptedAt:       p.AttemptedAt,
		Description:       p.Description,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
	}
}

func NewPaymentViews(payments []*Payment) []PaymentView {
	views := make([]PaymentView, len(payments))
	for i, p := range payments {
		views[i] = NewPaymentView(p)
	}
	return views
}
