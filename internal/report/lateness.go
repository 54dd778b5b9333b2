package report

import (
	"sync"
	"time"

	"github.com/tinkrentals/rent-ledger/internal/ledger"
)

// GracePolicy holds how many days past the due date a payment may settle
// before it counts as late. Landlords can override the default.
type GracePolicy struct {
	mu          sync.RWMutex
	defaultDays int
	overrides   map[int64]int
}

func NewGracePolicy(defaultDays int) *GracePolicy {
	return &GracePolicy{
		defaultDays: defaultDays,
		overrides:   make(map[int64]int),
	}
}

func (g *GracePolicy) SetLandlordGrace(landlordID int64, days int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.overrides[landlordID] = days
}

func (g *GracePolicy) Days(landlordID int64) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if days, ok := g.overrides[landlordID]; ok {
		return days
	}
	return g.defaultDays
}

// Classifier decides whether a settled attempt was late. A pending attempt
// is never late: until it resolves there is nothing to judge.
type Classifier struct {
	grace *GracePolicy
}

func NewClassifier(grace *GracePolicy) *Classifier {
	return &Classifier{grace: grace}
}

func (c *Classifier) IsLate(p *ledger.Payment) bool {
	if !p.Resolved() {
		return false
	}
	deadline := calendarDate(p.DueDate).AddDate(0, 0, c.grace.Days(p.LandlordID))
	return calendarDate(p.AttemptedAt).After(deadline)
}

// calendarDate strips the time of day so comparisons happen between whole
// dates, matching how due dates are stored.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
