package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor currency units. All ledger arithmetic
// happens on this type; floating point never touches stored amounts.
type Cents int64

// MinimumCharge is the smallest gross amount the processor will attempt.
const MinimumCharge Cents = 100

var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrInvalidAmount  = errors.New("amount is not a valid decimal value")
)

// FromCents validates an integer-cent amount supplied directly by a caller.
func FromCents(v int64) (Cents, error) {
	if v < 0 {
		return 0, ErrNegativeAmount
	}
	return Cents(v), nil
}

// Parse converts a major-unit decimal string such as "1500.00" into cents.
// Anything with sub-cent precision or a negative sign is rejected.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q has sub-cent precision", ErrInvalidAmount, s)
	}
	return Cents(cents.IntPart()), nil
}

// Int64 returns the raw cent count for persistence.
func (c Cents) Int64() int64 {
	return int64(c)
}

// Dollars renders the amount in major units with two decimal places,
// e.g. Cents(145620).Dollars() == "1456.20".
func (c Cents) Dollars() string {
	return decimal.NewFromInt(int64(c)).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// FeeSchedule is a processor fee of the shape percentage + fixed, the
// classic card-processing formula. Percentage is expressed in basis
// points so the schedule itself stays integer-only.
type FeeSchedule struct {
	BasisPoints int64
	FixedCents  Cents
}

// DefaultSchedule is 2.9% + 30 cents.
var DefaultSchedule = FeeSchedule{BasisPoints: 290, FixedCents: 30}

// Fee computes the processor fee for a gross amount. The percentage part
// rounds half-up to the nearest cent before the fixed part is added; the
// rounding must stay exactly this so stored net amounts reconcile.
func (f FeeSchedule) Fee(amount Cents) Cents {
	if amount <= 0 {
		return f.FixedCents
	}
	percentage := (int64(amount)*f.BasisPoints + 5000) / 10000
	return Cents(percentage) + f.FixedCents
}

// Net returns the amount payable after the fee is withheld. A negative net
// for an amount at or above MinimumCharge means the fee was miscomputed;
// that is a programming defect, so the caller panics via MustNet.
func Net(amount, fee Cents) Cents {
	return amount - fee
}

// MustNet is Net plus the invariant check for viable charges.
func MustNet(amount, fee Cents) Cents {
	net := Net(amount, fee)
	if net < 0 && amount >= MinimumCharge {
		panic(fmt.Sprintf("money: negative net %d for amount %d with fee %d", net, amount, fee))
	}
	return net
}
