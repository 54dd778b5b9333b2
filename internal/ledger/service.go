package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	errors "github.com/tinkrentals/rent-ledger/internal"
	paymentDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/payment"
	"github.com/tinkrentals/rent-ledger/internal/core/events"
	"github.com/tinkrentals/rent-ledger/pkg/money"
)

// RepositoryAPI defines the data access methods for payment attempts.
type RepositoryAPI interface {
	Create(p *paymentDatamodel.Payment) error
	GetByID(id int64) (*paymentDatamodel.Payment, error)
	GetByReference(landlordID int64, reference string) (*paymentDatamodel.Payment, error)
	ListByLease(leaseID int64) ([]*paymentDatamodel.Payment, error)
	ListByLandlord(landlordID int64, filter ListFilter) ([]*paymentDatamodel.Payment, error)
	// SettleFromPending moves a pending row to a terminal status and
	// stamps attempted_at, all in one conditional write. It returns the
	// number of rows changed: zero means the row was missing or already
	// terminal.
	SettleFromPending(id int64, status string, attemptedAt time.Time) (int64, error)
}

// IdentityResolver checks that the external entities a payment references
// actually exist. Implementations live at the boundary; the ledger only
// consumes the yes/no signal.
type IdentityResolver interface {
	ResolveLandlord(id int64) (bool, error)
	ResolveTenant(id int64) (bool, error)
	ResolveProperty(id int64) (bool, error)
	ResolveLease(id int64) (bool, error)
}

// EventPublisher is the slice of the event bus the ledger needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the payment ledger: the single writer for payment attempts
// and the source of truth the reporting side reads from.
type Service struct {
	repo         RepositoryAPI
	identity     IdentityResolver
	fees         money.FeeSchedule
	feeOnFailure bool
	eventBus     EventPublisher
	logger       *slog.Logger

	// createLocks serializes creates per (landlord, reference) so
	// concurrent retries of the same attempt agree on one stored row.
	createLocks sync.Map
}

type ServiceOption func(*Service)

// WithFeeSchedule overrides the default 2.9% + 30c schedule.
func WithFeeSchedule(fees money.FeeSchedule) ServiceOption {
	return func(s *Service) {
		s.fees = fees
	}
}

// WithFeeOnFailure controls whether failed attempts still carry the fee
// estimate. Historical data always has a fee regardless of outcome, so
// the default is true.
func WithFeeOnFailure(enabled bool) ServiceOption {
	return func(s *Service) {
		s.feeOnFailure = enabled
	}
}

func NewService(repo RepositoryAPI, identity IdentityResolver, eventBus EventPublisher, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:         repo,
		identity:     identity,
		fees:         money.DefaultSchedule,
		feeOnFailure: true,
		eventBus:     eventBus,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) lockReference(landlordID int64, reference string) func() {
	key := fmt.Sprintf("%d/%s", landlordID, reference)
	v, _ := s.createLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// RecordAttempt stores a payment attempt. Replaying the same
// (landlord, external reference) pair returns the stored row unchanged, so
// callers can retry safely. Fee and net are fixed here and never mutated.
func (s *Service) RecordAttempt(ctx context.Context, dto *RecordAttemptDTO) (*Payment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("record attempt validation failed", "error", err, "landlord_id", dto.LandlordID)
		return nil, err
	}

	if err := s.resolveReferences(dto); err != nil {
		s.logger.Error("record attempt reference resolution failed", "error", err, "landlord_id", dto.LandlordID)
		return nil, err
	}

	amount, appErr := dto.ResolveAmount()
	if appErr != nil {
		return nil, appErr
	}
	status := dto.InitialStatus()

	reference := dto.ExternalReference
	if reference == "" {
		reference = "pi_" + uuid.NewString()
	}

	unlock := s.lockReference(dto.LandlordID, reference)
	defer unlock()

	if existing, err := s.repo.GetByReference(dto.LandlordID, reference); err == nil {
		s.logger.Info("record attempt replayed, returning stored row",
			"payment_id", existing.ID,
			"landlord_id", dto.LandlordID,
			"external_reference", reference)
		return FromDataModel(existing), nil
	} else if err != errors.ErrPaymentNotFound {
		return nil, errors.NewInternalError("failed to check existing payment", err)
	}

	fee := s.fees.Fee(amount)
	if status == StatusFailed && !s.feeOnFailure {
		fee = 0
	}
	net := money.MustNet(amount, fee)

	now := time.Now()
	record := &paymentDatamodel.Payment{
		ExternalReference: reference,
		LandlordID:        dto.LandlordID,
		TenantID:          dto.TenantID,
		LeaseID:           dto.LeaseID,
		PropertyID:        dto.PropertyID,
		AmountCents:       amount.Int64(),
		FeeCents:          fee.Int64(),
		NetAmountCents:    net.Int64(),
		Status:            string(status),
		RentPeriodStart:   dto.RentPeriodStart.Time,
		RentPeriodEnd:     dto.RentPeriodEnd.Time,
		DueDate:           dto.DueDate.Time,
		AttemptedAt:       now,
		Description:       dto.Description,
		Metadata:          dto.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(record); err != nil {
		// Another process may have inserted the same reference between our
		// read and write; the unique index makes that loser re-read.
		if existing, getErr := s.repo.GetByReference(dto.LandlordID, reference); getErr == nil {
			s.logger.Warn("create collided with concurrent insert, returning stored row",
				"payment_id", existing.ID,
				"external_reference", reference)
			return FromDataModel(existing), nil
		}
		s.logger.Error("failed to create payment", "error", err, "landlord_id", dto.LandlordID)
		return nil, errors.NewInternalError("failed to create payment", err)
	}

	s.logger.Info("payment attempt recorded",
		"payment_id", record.ID,
		"landlord_id", record.LandlordID,
		"lease_id", record.LeaseID,
		"external_reference", reference,
		"amount_cents", record.AmountCents,
		"fee_cents", record.FeeCents,
		"status", record.Status)

	s.publishRecorded(ctx, record)

	return FromDataModel(record), nil
}

// TransitionStatus settles a pending attempt. Terminal rows are frozen:
// the caller gets an invalid-transition error and must record a new
// attempt instead of rewriting history.
func (s *Service) TransitionStatus(ctx context.Context, id int64, next Status) (*Payment, error) {
	if !next.Valid() {
		return nil, errors.ErrUnknownStatus
	}
	if !next.Terminal() {
		return nil, errors.NewInvalidTransitionError("payments can only transition to a terminal status", errors.ErrCodeInvalidStatus)
	}

	attemptedAt := time.Now()
	rows, err := s.repo.SettleFromPending(id, string(next), attemptedAt)
	if err != nil {
		s.logger.Error("failed to transition payment", "error", err, "payment_id", id)
		return nil, errors.NewInternalError("failed to transition payment", err)
	}

	if rows == 0 {
		if _, getErr := s.repo.GetByID(id); getErr != nil {
			return nil, errors.ErrPaymentNotFound
		}
		s.logger.Warn("transition rejected, payment already terminal", "payment_id", id, "requested_status", next)
		return nil, errors.ErrTerminalStatus
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.NewInternalError("failed to reload payment after transition", err)
	}

	s.logger.Info("payment settled",
		"payment_id", record.ID,
		"landlord_id", record.LandlordID,
		"status", record.Status,
		"attempted_at", record.AttemptedAt)

	s.publishSettled(ctx, record)

	return FromDataModel(record), nil
}

// GetByID returns a single payment attempt.
func (s *Service) GetByID(id int64) (*Payment, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

// ListByLease returns all attempts recorded against a lease, newest first.
func (s *Service) ListByLease(leaseID int64) ([]*Payment, error) {
	records, err := s.repo.ListByLease(leaseID)
	if err != nil {
		s.logger.Error("failed to list payments by lease", "error", err, "lease_id", leaseID)
		return nil, errors.NewInternalError("failed to list payments", err)
	}
	return FromDataModelSlice(records), nil
}

// ListByLandlord returns a landlord's attempts, optionally narrowed by
// status and attempted_at range.
func (s *Service) ListByLandlord(landlordID int64, filter ListFilter) ([]*Payment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.NewValidationFieldError("status", fmt.Sprintf("unknown status %q", filter.Status), errors.ErrCodeInvalidStatus)
	}
	records, err := s.repo.ListByLandlord(landlordID, filter)
	if err != nil {
		s.logger.Error("failed to list payments by landlord", "error", err, "landlord_id", landlordID)
		return nil, errors.NewInternalError("failed to list payments", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) resolveReferences(dto *RecordAttemptDTO) *errors.AppError {
	checks := []struct {
		resolve func(int64) (bool, error)
		id      int64
		missing *errors.AppError
	}{
		{s.identity.ResolveLandlord, dto.LandlordID, errors.ErrLandlordNotFound},
		{s.identity.ResolveTenant, dto.TenantID, errors.ErrTenantNotFound},
		{s.identity.ResolveProperty, dto.PropertyID, errors.ErrPropertyNotFound},
		{s.identity.ResolveLease, dto.LeaseID, errors.ErrLeaseNotFound},
	}
	for _, c := range checks {
		ok, err := c.resolve(c.id)
		if err != nil {
			return errors.NewInternalError("identity resolution failed", err)
		}
		if !ok {
			return c.missing
		}
	}
	return nil
}

func (s *Service) publishRecorded(ctx context.Context, record *paymentDatamodel.Payment) {
	if s.eventBus == nil {
		return
	}
	event := events.NewPaymentRecordedEvent(record.ID, record.LandlordID, record.LeaseID, record.ExternalReference, record.AmountCents, record.Status)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payment recorded event", "error", err, "payment_id", record.ID)
	}
	// Attempts created directly in a terminal status settle immediately.
	if Status(record.Status).Terminal() {
		s.publishSettled(ctx, record)
	}
}

func (s *Service) publishSettled(ctx context.Context, record *paymentDatamodel.Payment) {
	if s.eventBus == nil {
		return
	}
	var event events.Event
	switch Status(record.Status) {
	case StatusSucceeded:
		event = events.NewPaymentSucceededEvent(record.ID, record.LandlordID, record.AmountCents, record.NetAmountCents)
	case StatusFailed:
		event = events.NewPaymentFailedEvent(record.ID, record.LandlordID, record.LeaseID)
	default:
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish settlement event", "error", err, "payment_id", record.ID)
	}
}
