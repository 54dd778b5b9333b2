package postgres

import (
	"time"

	"gorm.io/gorm"

	internalErrors "github.com/tinkrentals/rent-ledger/internal"
	paymentDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/payment"
	"github.com/tinkrentals/rent-ledger/internal/ledger"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

func (r *PaymentRepository) Create(p *paymentDatamodel.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id int64) (*paymentDatamodel.Payment, error) {
	var p paymentDatamodel.Payment
	err := r.db.First(&p, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, internalErrors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByReference(landlordID int64, reference string) (*paymentDatamodel.Payment, error) {
	var p paymentDatamodel.Payment
	err := r.db.Where("landlord_id = ? AND external_reference = ?", landlordID, reference).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, internalErrors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByLease(leaseID int64) ([]*paymentDatamodel.Payment, error) {
	var payments []*paymentDatamodel.Payment
	err := r.db.Where("lease_id = ?", leaseID).
		Order("attempted_at DESC, id DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) ListByLandlord(landlordID int64, filter ledger.ListFilter) ([]*paymentDatamodel.Payment, error) {
	q := r.db.Where("landlord_id = ?", landlordID)

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if !filter.From.IsZero() {
		q = q.Where("attempted_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("attempted_at <= ?", filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var payments []*paymentDatamodel.Payment
	err := q.Order("attempted_at DESC, id DESC").Find(&payments).Error
	return payments, err
}

// SettleFromPending is the whole transition state machine in one
// conditional write: the status predicate makes concurrent settles of the
// same row mutually exclusive without an explicit lock.
func (r *PaymentRepository) SettleFromPending(id int64, status string, attemptedAt time.Time) (int64, error) {
	res := r.db.Model(&paymentDatamodel.Payment{}).
		Where("id = ? AND status = ?", id, paymentDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"attempted_at": attemptedAt,
			"updated_at":   time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *PaymentRepository) CountByStatus(landlordID int64) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.Model(&paymentDatamodel.Payment{}).
		Select("status, COUNT(*) AS total").
		Where("landlord_id = ?", landlordID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *PaymentRepository) SumSucceededBetween(landlordID int64, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&paymentDatamodel.Payment{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("landlord_id = ? AND status = ? AND attempted_at >= ? AND attempted_at <= ?",
			landlordID, paymentDatamodel.StatusSucceeded, from, to).
		Scan(&total).Error
	return total, err
}

func (r *PaymentRepository) RecentByLandlord(landlordID int64, limit int) ([]*paymentDatamodel.Payment, error) {
	var payments []*paymentDatamodel.Payment
	err := r.db.Where("landlord_id = ?", landlordID).
		Order("attempted_at DESC, id DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}
