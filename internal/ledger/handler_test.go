package ledger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalErrors "github.com/tinkrentals/rent-ledger/internal"
	"github.com/tinkrentals/rent-ledger/internal/ledger"
)

type mockLedgerService struct {
	recordError     error
	transitionError error
	getError        error
	listError       error
	payment         *ledger.Payment
	payments        []*ledger.Payment
	lastFilter      ledger.ListFilter
}

func (m *mockLedgerService) RecordAttempt(ctx context.Context, dto *ledger.RecordAttemptDTO) (*ledger.Payment, error) {
	if m.recordError != nil {
		return nil, m.recordError
	}
	return m.payment, nil
}

func (m *mockLedgerService) TransitionStatus(ctx context.Context, id int64, next ledger.Status) (*ledger.Payment, error) {
	if m.transitionError != nil {
		return nil, m.transitionError
	}
	return m.payment, nil
}

func (m *mockLedgerService) GetByID(id int64) (*ledger.Payment, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.payment, nil
}

func (m *mockLedgerService) ListByLease(leaseID int64) ([]*ledger.Payment, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.payments, nil
}

func (m *mockLedgerService) ListByLandlord(landlordID int64, filter ledger.ListFilter) ([]*ledger.Payment, error) {
	m.lastFilter = filter
	if m.listError != nil {
		return nil, m.listError
	}
	return m.payments, nil
}

func requestWithURLParam(method, target, param, value string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("LedgerHandler", func() {
	var (
		handler  *ledger.Handler
		service  *mockLedgerService
		recorder *httptest.ResponseRecorder
	)

	testPayment := &ledger.Payment{
		ID:                1,
		ExternalReference: "pi_test_001",
		LandlordID:        1,
		TenantID:          1,
		LeaseID:           1,
		PropertyID:        1,
		AmountCents:       150000,
		FeeCents:          4380,
		NetAmountCents:    145620,
		Status:            ledger.StatusPending,
		RentPeriodStart:   time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		RentPeriodEnd:     time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC),
		DueDate:           time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		AttemptedAt:       time.Date(2025, time.August, 5, 12, 0, 0, 0, time.UTC),
	}

	BeforeEach(func() {
		service = &mockLedgerService{payment: testPayment}
		handler = ledger.NewHandler(service)
		recorder = httptest.NewRecorder()
	})

	Describe("RecordAttempt", func() {
		validBody := func() []byte {
			body, _ := json.Marshal(map[string]interface{}{
				"external_reference": "pi_test_001",
				"landlord_id":        1,
				"tenant_id":          1,
				"lease_id":           1,
				"property_id":        1,
				"amount_cents":       150000,
				"rent_period_start":  "2025-08-01",
				"rent_period_end":    "2025-08-31",
				"due_date":           "2025-08-01",
			})
			return body
		}

		It("should return 201 with the payment view", func() {
			req := httptest.NewRequest("POST", "/api/v1/payments", bytes.NewBuffer(validBody()))

			handler.RecordAttempt(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			var response map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response["amount_dollars"]).To(Equal("1500.00"))
			Expect(response["fee_dollars"]).To(Equal("43.80"))
			Expect(response["net_amount_dollars"]).To(Equal("1456.20"))
			Expect(response["status"]).To(Equal("pending"))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest("POST", "/api/v1/payments", bytes.NewBufferString("not json"))

			handler.RecordAttempt(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for a malformed date", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"landlord_id":       1,
				"rent_period_start": "08/01/2025",
			})
			req := httptest.NewRequest("POST", "/api/v1/payments", bytes.NewBuffer(body))

			handler.RecordAttempt(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map validation errors to 400", func() {
			service.recordError = internalErrors.NewValidationFieldError("amount_cents", "amount must be greater than 0", internalErrors.ErrCodeInvalidAmount)
			req := httptest.NewRequest("POST", "/api/v1/payments", bytes.NewBuffer(validBody()))

			handler.RecordAttempt(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map unknown landlord to 400", func() {
			service.recordError = internalErrors.ErrLandlordNotFound
			req := httptest.NewRequest("POST", "/api/v1/payments", bytes.NewBuffer(validBody()))

			handler.RecordAttempt(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("TransitionStatus", func() {
		It("should return 200 with the settled payment", func() {
			settled := *testPayment
			settled.Status = ledger.StatusSucceeded
			service.payment = &settled

			body, _ := json.Marshal(map[string]string{"status": "succeeded"})
			req := requestWithURLParam("POST", "/api/v1/payments/1/transition", "id", "1", body)

			handler.TransitionStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var response map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response["status"]).To(Equal("succeeded"))
		})

		It("should return 400 for a non-numeric ID", func() {
			body, _ := json.Marshal(map[string]string{"status": "succeeded"})
			req := requestWithURLParam("POST", "/api/v1/payments/abc/transition", "id", "abc", body)

			handler.TransitionStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map a terminal-status rejection to 422", func() {
			service.transitionError = internalErrors.ErrTerminalStatus
			body, _ := json.Marshal(map[string]string{"status": "failed"})
			req := requestWithURLParam("POST", "/api/v1/payments/1/transition", "id", "1", body)

			handler.TransitionStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should map not found to 404", func() {
			service.transitionError = internalErrors.ErrPaymentNotFound
			body, _ := json.Marshal(map[string]string{"status": "succeeded"})
			req := requestWithURLParam("POST", "/api/v1/payments/999/transition", "id", "999", body)

			handler.TransitionStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GetPayment", func() {
		It("should return the payment", func() {
			req := requestWithURLParam("GET", "/api/v1/payments/1", "id", "1", nil)

			handler.GetPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var response map[string]interface{}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response["external_reference"]).To(Equal("pi_test_001"))
			Expect(response["rent_period_start"]).To(Equal("2025-08-01"))
		})

		It("should map not found to 404", func() {
			service.getError = internalErrors.ErrPaymentNotFound
			req := requestWithURLParam("GET", "/api/v1/payments/999", "id", "999", nil)

			handler.GetPayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("ListLeasePayments", func() {
		It("should wrap the views in a payments envelope", func() {
			service.payments = []*ledger.Payment{testPayment}
			req := requestWithURLParam("GET", "/api/v1/leases/1/payments", "id", "1", nil)

			handler.ListLeasePayments(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var response map[string][]ledger.PaymentView
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response["payments"]).To(HaveLen(1))
		})

		It("should return an empty list rather than null", func() {
			service.payments = []*ledger.Payment{}
			req := requestWithURLParam("GET", "/api/v1/leases/1/payments", "id", "1", nil)

			handler.ListLeasePayments(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(ContainSubstring(`"payments":[]`))
		})
	})

	Describe("ListLandlordPayments", func() {
		It("should parse status, date range, limit and offset", func() {
			service.payments = []*ledger.Payment{testPayment}
			req := requestWithURLParam("GET", "/api/v1/landlords/1/payments/history?status=succeeded&from=2025-08-01&to=2025-08-31&limit=10&offset=5", "id", "1", nil)

			handler.ListLandlordPayments(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.lastFilter.Status).To(Equal(ledger.StatusSucceeded))
			Expect(service.lastFilter.From).To(BeTemporally("==", time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)))
			Expect(service.lastFilter.Limit).To(Equal(10))
			Expect(service.lastFilter.Offset).To(Equal(5))
		})

		It("should default the limit to 50", func() {
			req := requestWithURLParam("GET", "/api/v1/landlords/1/payments/history", "id", "1", nil)

			handler.ListLandlordPayments(recorder, req)

			Expect(service.lastFilter.Limit).To(Equal(50))
		})

		It("should return 400 for a malformed from date", func() {
			req := requestWithURLParam("GET", "/api/v1/landlords/1/payments/history?from=notadate", "id", "1", nil)

			handler.ListLandlordPayments(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
