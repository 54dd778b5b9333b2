package money_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tinkrentals/rent-ledger/pkg/money"
)

func TestMoney(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Money Suite")
}

var _ = Describe("Money", func() {
	Describe("FromCents", func() {
		It("should accept non-negative amounts", func() {
			c, err := money.FromCents(150000)
			Expect(err).ToNot(HaveOccurred())
			Expect(c.Int64()).To(Equal(int64(150000)))
		})

		It("should reject negative amounts", func() {
			_, err := money.FromCents(-1)
			Expect(err).To(MatchError(money.ErrNegativeAmount))
		})
	})

	Describe("Parse", func() {
		It("should convert major units to cents", func() {
			c, err := money.Parse("1500.00")
			Expect(err).ToNot(HaveOccurred())
			Expect(c).To(Equal(money.Cents(150000)))
		})

		It("should accept whole-dollar strings without a decimal point", func() {
			c, err := money.Parse("750")
			Expect(err).ToNot(HaveOccurred())
			Expect(c).To(Equal(money.Cents(75000)))
		})

		It("should reject negative values", func() {
			_, err := money.Parse("-10.00")
			Expect(err).To(MatchError(money.ErrNegativeAmount))
		})

		It("should reject sub-cent precision", func() {
			_, err := money.Parse("10.001")
			Expect(err).To(HaveOccurred())
		})

		It("should reject garbage input", func() {
			_, err := money.Parse("ten dollars")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Dollars", func() {
		It("should render two decimal places", func() {
			Expect(money.Cents(145620).Dollars()).To(Equal("1456.20"))
			Expect(money.Cents(30).Dollars()).To(Equal("0.30"))
			Expect(money.Cents(0).Dollars()).To(Equal("0.00"))
		})
	})

	Describe("FeeSchedule", func() {
		It("should compute 2.9% + 30c for a $1500 charge", func() {
			fee := money.DefaultSchedule.Fee(150000)
			Expect(fee).To(Equal(money.Cents(4380)))
			Expect(money.Net(150000, fee)).To(Equal(money.Cents(145620)))
		})

		It("should compute the fee for a $750 charge", func() {
			fee := money.DefaultSchedule.Fee(75000)
			Expect(fee).To(Equal(money.Cents(2205)))
			Expect(money.Net(75000, fee)).To(Equal(money.Cents(72795)))
		})

		It("should round the percentage part half-up", func() {
			// 1500 * 0.029 = 43.5 cents, half-up to 44
			Expect(money.DefaultSchedule.Fee(1500)).To(Equal(money.Cents(74)))
			// 1400 * 0.029 = 40.6 cents, rounds to 41
			Expect(money.DefaultSchedule.Fee(1400)).To(Equal(money.Cents(71)))
			// 1000 * 0.029 = 29 cents exactly
			Expect(money.DefaultSchedule.Fee(1000)).To(Equal(money.Cents(59)))
		})
	})

	Describe("MustNet", func() {
		It("should return the net for a viable charge", func() {
			Expect(money.MustNet(150000, 4380)).To(Equal(money.Cents(145620)))
		})

		It("should panic when a viable charge nets negative", func() {
			Expect(func() { money.MustNet(150000, 200000) }).To(Panic())
		})

		It("should not panic below the minimum charge", func() {
			Expect(money.MustNet(50, 31)).To(Equal(money.Cents(19)))
			Expect(func() { money.MustNet(50, 60) }).ToNot(Panic())
		})
	})
})
