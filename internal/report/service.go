package report

import (
	"log/slog"
	"time"

	errors "github.com/tinkrentals/rent-ledger/internal"
	paymentDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/payment"
	"github.com/tinkrentals/rent-ledger/internal/ledger"
)

// LedgerReader is the read-only slice of the ledger store the reporting
// side depends on. Reporting never mutates the ledger.
type LedgerReader interface {
	CountByStatus(landlordID int64) (map[string]int64, error)
	SumSucceededBetween(landlordID int64, from, to time.Time) (int64, error)
	RecentByLandlord(landlordID int64, limit int) ([]*paymentDatamodel.Payment, error)
	ListByLandlord(landlordID int64, filter ledger.ListFilter) ([]*paymentDatamodel.Payment, error)
}

// Service aggregates the ledger into per-landlord summaries and the late
// payment report.
type Service struct {
	reader      LedgerReader
	classifier  *Classifier
	recentLimit int
	logger      *slog.Logger
}

func NewService(reader LedgerReader, classifier *Classifier, recentLimit int, logger *slog.Logger) *Service {
	if recentLimit <= 0 {
		recentLimit = 3
	}
	return &Service{
		reader:      reader,
		classifier:  classifier,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

// Summarize builds the landlord dashboard view as of a point in time.
// The current-month window is [first of asOf's month, asOf]; the trailing
// window is [asOf - 30d, asOf]. Counts are lifetime, not windowed.
// recentLimit <= 0 falls back to the configured default.
func (s *Service) Summarize(landlordID int64, asOf time.Time, recentLimit int) (*Summary, error) {
	if recentLimit <= 0 {
		recentLimit = s.recentLimit
	}

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	currentMonth, err := s.reader.SumSucceededBetween(landlordID, monthStart, asOf)
	if err != nil {
		s.logger.Error("failed to sum current month", "error", err, "landlord_id", landlordID)
		return nil, errors.NewInternalError("failed to build summary", err)
	}

	last30, err := s.reader.SumSucceededBetween(landlordID, asOf.AddDate(0, 0, -30), asOf)
	if err != nil {
		s.logger.Error("failed to sum trailing window", "error", err, "landlord_id", landlordID)
		return nil, errors.NewInternalError("failed to build summary", err)
	}

	counts, err := s.reader.CountByStatus(landlordID)
	if err != nil {
		s.logger.Error("failed to count by status", "error", err, "landlord_id", landlordID)
		return nil, errors.NewInternalError("failed to build summary", err)
	}

	recent, err := s.reader.RecentByLandlord(landlordID, recentLimit)
	if err != nil {
		s.logger.Error("failed to load recent payments", "error", err, "landlord_id", landlordID)
		return nil, errors.NewInternalError("failed to build summary", err)
	}

	return &Summary{
		Summary:        newSummaryTotals(currentMonth, last30, counts),
		RecentPayments: ledger.NewPaymentViews(ledger.FromDataModelSlice(recent)),
	}, nil
}

// LatePayments returns the landlord's resolved attempts that settled past
// their due date plus grace.
func (s *Service) LatePayments(landlordID int64) ([]ledger.PaymentView, error) {
	records, err := s.reader.ListByLandlord(landlordID, ledger.ListFilter{})
	if err != nil {
		s.logger.Error("failed to list payments for lateness report", "error", err, "landlord_id", landlordID)
		return nil, errors.NewInternalError("failed to build lateness report", err)
	}

	late := make([]ledger.PaymentView, 0)
	for _, record := range records {
		p := ledger.FromDataModel(record)
		if s.classifier.IsLate(p) {
			late = append(late, ledger.NewPaymentView(p))
		}
	}
	return late, nil
}

// IsLate exposes the classifier for callers holding a single attempt.
func (s *Service) IsLate(p *ledger.Payment) bool {
	return s.classifier.IsLate(p)
}
