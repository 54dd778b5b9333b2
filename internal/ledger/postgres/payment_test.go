package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	internalErrors "github.com/tinkrentals/rent-ledger/internal"
	paymentDatamodel "github.com/tinkrentals/rent-ledger/internal/core/datamodel/payment"
	"github.com/tinkrentals/rent-ledger/internal/ledger"
	ledgerPostgres "github.com/tinkrentals/rent-ledger/internal/ledger/postgres"
)

func TestLedgerPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ledger Postgres Suite")
}

// SQLitePayment is a SQLite-compatible model for testing
type SQLitePayment struct {
	ID                int64     `gorm:"primaryKey"`
	ExternalReference string    `gorm:"column:external_reference;not null;uniqueIndex:idx_payments_landlord_reference,priority:2"`
	LandlordID        int64     `gorm:"column:landlord_id;not null;uniqueIndex:idx_payments_landlord_reference,priority:1;index"`
	TenantID          int64     `gorm:"column:tenant_id;not null"`
	LeaseID           int64     `gorm:"column:lease_id;not null;index"`
	PropertyID        int64     `gorm:"column:property_id;not null"`
	AmountCents       int64     `gorm:"column:amount_cents;not null"`
	FeeCents          int64     `gorm:"column:fee_cents;not null"`
	NetAmountCents    int64     `gorm:"column:net_amount_cents;not null"`
	Status            string    `gorm:"column:status;default:pending"`
	RentPeriodStart   time.Time `gorm:"column:rent_period_start"`
	RentPeriodEnd     time.Time `gorm:"column:rent_period_end"`
	DueDate           time.Time `gorm:"column:due_date"`
	AttemptedAt       time.Time `gorm:"column:attempted_at;not null"`
	Description       string    `gorm:"column:description"`
	Metadata          []byte    `gorm:"column:metadata"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (SQLitePayment) TableName() string {
	return "payments"
}

var _ = Describe("Payment PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *ledgerPostgres.PaymentRepository
	)

	august := func(day int) time.Time {
		return time.Date(2025, time.August, day, 0, 0, 0, 0, time.UTC)
	}

	newPayment := func(reference string, landlordID int64, attemptedAt time.Time) *paymentDatamodel.Payment {
		return &paymentDatamodel.Payment{
			ExternalReference: reference,
			LandlordID:        landlordID,
			TenantID:          1,
			LeaseID:           1,
			PropertyID:        1,
			AmountCents:       150000,
			FeeCents:          4380,
			NetAmountCents:    145620,
			Status:            paymentDatamodel.StatusPending,
			RentPeriodStart:   august(1),
			RentPeriodEnd:     august(31),
			DueDate:           august(1),
			AttemptedAt:       attemptedAt,
		}
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLitePayment{})
		Expect(err).NotTo(HaveOccurred())

		repo = ledgerPostgres.NewPaymentRepository(db)
	})

	Describe("Create", func() {
		It("should create a payment successfully", func() {
			p := newPayment("pi_001", 1, august(5))

			err := repo.Create(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate reference for the same landlord", func() {
			err := repo.Create(newPayment("pi_001", 1, august(5)))
			Expect(err).NotTo(HaveOccurred())

			err = repo.Create(newPayment("pi_001", 1, august(6)))
			Expect(err).To(HaveOccurred())
		})

		It("should allow the same reference under different landlords", func() {
			err := repo.Create(newPayment("pi_001", 1, august(5)))
			Expect(err).NotTo(HaveOccurred())

			err = repo.Create(newPayment("pi_001", 2, august(5)))
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("should retrieve a stored payment", func() {
			p := newPayment("pi_001", 1, august(5))
			Expect(repo.Create(p)).To(Succeed())

			result, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ExternalReference).To(Equal("pi_001"))
			Expect(result.AmountCents).To(Equal(int64(150000)))
		})

		It("should return the not-found sentinel for a missing ID", func() {
			_, err := repo.GetByID(999)
			Expect(err).To(Equal(internalErrors.ErrPaymentNotFound))
		})
	})

	Describe("GetByReference", func() {
		BeforeEach(func() {
			Expect(repo.Create(newPayment("pi_001", 1, august(5)))).To(Succeed())
		})

		It("should find a payment by landlord and reference", func() {
			result, err := repo.GetByReference(1, "pi_001")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.LandlordID).To(Equal(int64(1)))
		})

		It("should scope the lookup to the landlord", func() {
			_, err := repo.GetByReference(2, "pi_001")
			Expect(err).To(Equal(internalErrors.ErrPaymentNotFound))
		})
	})

	Describe("SettleFromPending", func() {
		var p *paymentDatamodel.Payment

		BeforeEach(func() {
			p = newPayment("pi_001", 1, august(5))
			Expect(repo.Create(p)).To(Succeed())
		})

		It("should move a pending row to succeeded", func() {
			settledAt := august(7)

			rows, err := repo.SettleFromPending(p.ID, paymentDatamodel.StatusSucceeded, settledAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			result, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(paymentDatamodel.StatusSucceeded))
			Expect(result.AttemptedAt.UTC()).To(BeTemporally("==", settledAt))
		})

		It("should affect zero rows when the payment is already terminal", func() {
			rows, err := repo.SettleFromPending(p.ID, paymentDatamodel.StatusSucceeded, august(7))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(1)))

			rows, err = repo.SettleFromPending(p.ID, paymentDatamodel.StatusFailed, august(8))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))

			result, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Status).To(Equal(paymentDatamodel.StatusSucceeded))
		})

		It("should affect zero rows for a missing payment", func() {
			rows, err := repo.SettleFromPending(999, paymentDatamodel.StatusSucceeded, august(7))
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal(int64(0)))
		})
	})

	Describe("ListByLease", func() {
		It("should return attempts newest first with ID as tie-break", func() {
			first := newPayment("pi_001", 1, august(5))
			second := newPayment("pi_002", 1, august(10))
			sameInstant := newPayment("pi_003", 1, august(10))
			Expect(repo.Create(first)).To(Succeed())
			Expect(repo.Create(second)).To(Succeed())
			Expect(repo.Create(sameInstant)).To(Succeed())

			payments, err := repo.ListByLease(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(3))
			Expect(payments[0].ExternalReference).To(Equal("pi_003"))
			Expect(payments[1].ExternalReference).To(Equal("pi_002"))
			Expect(payments[2].ExternalReference).To(Equal("pi_001"))
		})

		It("should return an empty slice for an unknown lease", func() {
			payments, err := repo.ListByLease(42)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(BeEmpty())
		})
	})

	Describe("ListByLandlord", func() {
		BeforeEach(func() {
			succeeded := newPayment("pi_001", 1, august(5))
			succeeded.Status = paymentDatamodel.StatusSucceeded
			pending := newPayment("pi_002", 1, august(10))
			failed := newPayment("pi_003", 1, august(15))
			failed.Status = paymentDatamodel.StatusFailed
			other := newPayment("pi_004", 2, august(10))

			for _, p := range []*paymentDatamodel.Payment{succeeded, pending, failed, other} {
				Expect(repo.Create(p)).To(Succeed())
			}
		})

		It("should only return the landlord's payments", func() {
			payments, err := repo.ListByLandlord(1, ledger.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(3))
		})

		It("should filter by status", func() {
			payments, err := repo.ListByLandlord(1, ledger.ListFilter{Status: ledger.StatusFailed})
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(1))
			Expect(payments[0].ExternalReference).To(Equal("pi_003"))
		})

		It("should bound attempted_at inclusively", func() {
			payments, err := repo.ListByLandlord(1, ledger.ListFilter{
				From: august(5),
				To:   august(10),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(2))
		})

		It("should apply limit and offset after ordering", func() {
			payments, err := repo.ListByLandlord(1, ledger.ListFilter{Limit: 1, Offset: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(1))
			Expect(payments[0].ExternalReference).To(Equal("pi_002"))
		})
	})

	Describe("CountByStatus", func() {
		It("should count each status for the landlord", func() {
			for i, status := range []string{
				paymentDatamodel.StatusSucceeded,
				paymentDatamodel.StatusSucceeded,
				paymentDatamodel.StatusPending,
				paymentDatamodel.StatusFailed,
			} {
				p := newPayment("pi_00"+string(rune('1'+i)), 1, august(i+1))
				p.Status = status
				Expect(repo.Create(p)).To(Succeed())
			}

			counts, err := repo.CountByStatus(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts[paymentDatamodel.StatusSucceeded]).To(Equal(int64(2)))
			Expect(counts[paymentDatamodel.StatusPending]).To(Equal(int64(1)))
			Expect(counts[paymentDatamodel.StatusFailed]).To(Equal(int64(1)))
		})

		It("should return an empty map for a landlord with no payments", func() {
			counts, err := repo.CountByStatus(42)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(BeEmpty())
		})
	})

	Describe("SumSucceededBetween", func() {
		BeforeEach(func() {
			inWindow := newPayment("pi_001", 1, august(10))
			inWindow.Status = paymentDatamodel.StatusSucceeded
			inWindow.AmountCents = 125000

			alsoIn := newPayment("pi_002", 1, august(20))
			alsoIn.Status = paymentDatamodel.StatusSucceeded
			alsoIn.AmountCents = 130000

			outOfWindow := newPayment("pi_003", 1, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
			outOfWindow.Status = paymentDatamodel.StatusSucceeded
			outOfWindow.AmountCents = 120000

			pendingInWindow := newPayment("pi_004", 1, august(12))

			for _, p := range []*paymentDatamodel.Payment{inWindow, alsoIn, outOfWindow, pendingInWindow} {
				Expect(repo.Create(p)).To(Succeed())
			}
		})

		It("should sum only succeeded payments inside the window", func() {
			total, err := repo.SumSucceededBetween(1, august(1), august(31))
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(255000)))
		})

		It("should return zero when nothing matches", func() {
			total, err := repo.SumSucceededBetween(1, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(0)))
		})
	})

	Describe("RecentByLandlord", func() {
		It("should cap the result at the limit, newest first", func() {
			for i := 1; i <= 5; i++ {
				Expect(repo.Create(newPayment("pi_00"+string(rune('0'+i)), 1, august(i)))).To(Succeed())
			}

			payments, err := repo.RecentByLandlord(1, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments).To(HaveLen(3))
			Expect(payments[0].ExternalReference).To(Equal("pi_005"))
			Expect(payments[2].ExternalReference).To(Equal("pi_003"))
		})

		It("should break attempted_at ties by ID descending", func() {
			a := newPayment("pi_a", 1, august(10))
			b := newPayment("pi_b", 1, august(10))
			Expect(repo.Create(a)).To(Succeed())
			Expect(repo.Create(b)).To(Succeed())

			payments, err := repo.RecentByLandlord(1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(payments[0].ID).To(Equal(b.ID))
			Expect(payments[1].ID).To(Equal(a.ID))
		})
	})
})
